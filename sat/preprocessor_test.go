package sat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// A chain of unit-implied literals should all be asserted at level 0 by
// Preprocess, and the clauses that forced them should disappear from the
// solver's clause list (satisfied, so dropped rather than kept).
func TestPreprocessor_UnitPropagateDropsSatisfiedClauses(t *testing.T) {
	s := newTestSolver()
	a := s.NewVar()
	b := s.NewVar()
	al := s.NewLit(a, false)
	bl := s.NewLit(b, false)

	require.True(t, s.AddClause(al.Not(), bl))
	require.True(t, s.AddClause(al))

	require.True(t, s.Preprocess())
	require.Equal(t, LTrue, s.Value(a))
	require.Equal(t, LTrue, s.Value(b))
	require.Empty(t, s.clauses)
}

// A variable appearing in only one polarity across the input is pure and
// gets fixed by preprocessing without needing a decision.
func TestPreprocessor_PureLiteralElimination(t *testing.T) {
	s := newTestSolver()
	a := s.NewVar()
	b := s.NewVar()
	al := s.NewLit(a, false)
	bl := s.NewLit(b, false)

	// b appears only negated: (a v ~b), (~a v ~b).
	require.True(t, s.AddClause(al, bl.Not()))
	require.True(t, s.AddClause(al.Not(), bl.Not()))

	require.True(t, s.Preprocess())
	require.Equal(t, LFalse, s.Value(b))
}

// An input clause set that is unsatisfiable by unit propagation alone (a
// direct contradiction at level 0) is caught by Preprocess itself, without
// needing the full CDCL search loop.
func TestPreprocessor_UnitConflict_ReturnsFalse(t *testing.T) {
	s := newTestSolver()
	a := s.NewVar()
	al := s.NewLit(a, false)

	require.True(t, s.AddClause(al))
	cl := NewClause(al.Not())
	cl.ID = s.nextID
	s.nextID++
	s.clauses = append(s.clauses, cl)

	require.False(t, s.Preprocess())
}

// A clause that is a syntactic superset of another is dropped by the
// subsumption pass. Exercises subsume directly so pure-literal elimination
// (which would otherwise fire first in a full Preprocess pass, since every
// variable here is single-polarity) never gets a chance to interfere.
func TestPreprocessor_SubsumesSupersetClause(t *testing.T) {
	s := newTestSolver()
	a := s.NewVar()
	b := s.NewVar()
	c := s.NewVar()
	al := s.NewLit(a, false)
	bl := s.NewLit(b, false)
	cl := s.NewLit(c, false)

	require.True(t, s.AddClause(al, bl))
	require.True(t, s.AddClause(al, bl, cl))

	p := &Preprocessor{}
	require.True(t, p.subsume(s))
	require.Len(t, s.clauses, 1)
	require.ElementsMatch(t, []Lit{al, bl}, s.clauses[0].Lits)
}

// Three pairwise XOR constraints over three variables (x^y=1, y^z=1,
// x^z=1) are an odd cycle: each is encoded as its complementary
// binary-clause pair, and only the recovered parity system sees the
// contradiction — no single unit propagation step does.
func TestPreprocessor_RecoverXORs_OddCycleInconsistent(t *testing.T) {
	s := newTestSolver()
	x := s.NewVar()
	y := s.NewVar()
	z := s.NewVar()

	addXorTrue := func(a, b Var) {
		al, bl := s.NewLit(a, false), s.NewLit(b, false)
		require.True(t, s.AddClause(al, bl))
		require.True(t, s.AddClause(al.Not(), bl.Not()))
	}
	addXorTrue(x, y)
	addXorTrue(y, z)
	addXorTrue(x, z)

	require.False(t, s.Preprocess())
}

// An equivalence (x<->y as its complementary pair) with x forced true
// yields y true; unit propagation settles it before XOR recovery runs.
func TestPreprocessor_EquivalencePair_PropagatesForcedValue(t *testing.T) {
	s := newTestSolver()
	x := s.NewVar()
	y := s.NewVar()
	xl, yl := s.NewLit(x, false), s.NewLit(y, false)

	require.True(t, s.AddClause(xl.Not(), yl))
	require.True(t, s.AddClause(xl, yl.Not()))
	require.True(t, s.AddClause(xl))

	require.True(t, s.Preprocess())
	require.Equal(t, LTrue, s.Value(y))
}
