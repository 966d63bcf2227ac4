package sat

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestSolver() *CDCLSolver {
	return NewCDCLSolver(zerolog.Nop())
}

func TestCDCLSolver_UnitPropagationChain(t *testing.T) {
	s := newTestSolver()
	a := s.NewVar()
	b := s.NewVar()
	c := s.NewVar()

	al := s.NewLit(a, false)
	bl := s.NewLit(b, false)
	cl := s.NewLit(c, false)

	require.True(t, s.AddClause(al))
	require.True(t, s.AddClause(al.Not(), bl))
	require.True(t, s.AddClause(bl.Not(), cl))

	require.True(t, s.Solve())
	require.Equal(t, LTrue, s.Value(a))
	require.Equal(t, LTrue, s.Value(b))
	require.Equal(t, LTrue, s.Value(c))
}

func TestCDCLSolver_UnsatImmediateContradiction(t *testing.T) {
	s := newTestSolver()
	a := s.NewVar()
	al := s.NewLit(a, false)

	require.True(t, s.AddClause(al))
	ok := s.AddClause(al.Not())
	require.False(t, ok)
}

func TestCDCLSolver_ConflictDrivenBacktrack(t *testing.T) {
	s := newTestSolver()
	a := s.NewVar()
	b := s.NewVar()
	c := s.NewVar()

	al := s.NewLit(a, false)
	bl := s.NewLit(b, false)
	cl := s.NewLit(c, false)

	// (a v b v c), (a v b v ~c), (~a v b), (~a v c), (~a v ~c) forces a=false,
	// b=true, exercising at least one conflict/backtrack cycle.
	require.True(t, s.AddClause(al, bl, cl))
	require.True(t, s.AddClause(al, bl, cl.Not()))
	require.True(t, s.AddClause(al.Not(), bl))
	require.True(t, s.AddClause(al.Not(), cl))
	require.True(t, s.AddClause(al.Not(), cl.Not()))

	require.True(t, s.Solve())
	require.Equal(t, LFalse, s.Value(a))
	require.Equal(t, LTrue, s.Value(b))
}

func TestCDCLSolver_Stats_CountsConflicts(t *testing.T) {
	s := newTestSolver()
	a := s.NewVar()
	b := s.NewVar()
	al := s.NewLit(a, false)
	bl := s.NewLit(b, false)

	require.True(t, s.AddClause(al, bl))
	require.True(t, s.AddClause(al, bl.Not()))
	require.True(t, s.AddClause(al.Not(), bl))
	require.True(t, s.AddClause(al.Not(), bl.Not()))

	ok := s.Solve()
	require.False(t, ok)
}
