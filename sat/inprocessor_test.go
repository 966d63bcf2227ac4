package sat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// A literal beyond a learned clause's two watched slots that is already
// false at decision level 0 is dropped; the two watched literals are left
// untouched.
func TestInprocessor_VivifyDropsLevelZeroFalseLiteral(t *testing.T) {
	s := newTestSolver()
	a := s.NewVar()
	b := s.NewVar()
	c := s.NewVar()
	d := s.NewVar()

	al := s.NewLit(a, false)
	bl := s.NewLit(b, false)
	cl := s.NewLit(c, false)
	dl := s.NewLit(d, false)

	s.trail.Push(cl.Not(), nil, nil) // asserts c false at level 0

	learned := &Clause{Lits: []Lit{al, bl, cl, dl}, Learned: true}
	s.learned = append(s.learned, learned)

	ip := NewInprocessor()
	ip.vivify(s)

	require.Equal(t, []Lit{al, bl, dl}, learned.Lits)
	require.Equal(t, int64(1), ip.Stats().LiteralsRemoved)
	require.Equal(t, int64(1), ip.Stats().ClausesVivified)
}

// A learned clause that is a syntactic superset of a surviving input clause
// is dropped from the learned set.
func TestInprocessor_SubsumeLearnedDropsSupersetOfInputClause(t *testing.T) {
	s := newTestSolver()
	a := s.NewVar()
	b := s.NewVar()
	c := s.NewVar()

	al := s.NewLit(a, false)
	bl := s.NewLit(b, false)
	cl := s.NewLit(c, false)

	require.True(t, s.AddClause(al, bl))

	learned := NewClause(al, bl, cl)
	learned.Learned = true
	s.watchClause(learned)
	s.learned = append(s.learned, learned)

	ip := NewInprocessor()
	ip.subsumeLearned(s)

	require.Empty(t, s.learned)
	require.Equal(t, int64(1), ip.Stats().ClausesSubsumed)
}

func TestInprocessor_ShouldRunGatesOnConflictCount(t *testing.T) {
	ip := NewInprocessor()
	require.False(t, ip.ShouldRun(1999))
	require.True(t, ip.ShouldRun(2000))
}
