package propagators

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/xDarkicex/cspcore/sat"
)

func newTestSolver() *sat.CDCLSolver {
	return sat.NewCDCLSolver(zerolog.Nop())
}

// A path graph 0-1-2 with vertex 1 forced inactive and vertices 0, 2 forced
// active must be UNSAT: the only path between them is severed.
func TestActiveVerticesConnected_SeveredPath_UNSAT(t *testing.T) {
	s := newTestSolver()
	v0, v1, v2 := s.NewVar(), s.NewVar(), s.NewVar()
	active := []sat.Lit{s.NewLit(v0, false), s.NewLit(v1, false), s.NewLit(v2, false)}

	p := NewActiveVerticesConnectedPropagator(active, []Edge{{U: 0, V: 1}, {U: 1, V: 2}})
	require.True(t, s.AddPropagator(p))

	require.True(t, s.AddClause(active[0]))
	require.True(t, s.AddClause(active[1].Not()))
	require.True(t, s.AddClause(active[2]))

	require.False(t, s.Solve())
}

// The same graph with vertex 1 left free must force it active, since it is
// the sole connector between the two forced-active endpoints.
func TestActiveVerticesConnected_ForcesSoleBridge(t *testing.T) {
	s := newTestSolver()
	v0, v1, v2 := s.NewVar(), s.NewVar(), s.NewVar()
	active := []sat.Lit{s.NewLit(v0, false), s.NewLit(v1, false), s.NewLit(v2, false)}

	p := NewActiveVerticesConnectedPropagator(active, []Edge{{U: 0, V: 1}, {U: 1, V: 2}})
	require.True(t, s.AddPropagator(p))

	require.True(t, s.AddClause(active[0]))
	require.True(t, s.AddClause(active[2]))

	require.True(t, s.Solve())
	require.Equal(t, sat.LTrue, s.Value(v1))
}

// A two-column support table {(1,1),(2,2)} forces column B to equal column
// A's value once column A is fixed.
func TestExtensionSupportsPropagator_ForcesAgreeingColumn(t *testing.T) {
	s := newTestSolver()

	aVals := []int{1, 2}
	bVals := []int{1, 2}
	aLits := make([]sat.Lit, len(aVals))
	bLits := make([]sat.Lit, len(bVals))
	for i := range aVals {
		v := s.NewVar()
		aLits[i] = s.NewLit(v, false)
	}
	for i := range bVals {
		v := s.NewVar()
		bLits[i] = s.NewLit(v, false)
	}
	// Exactly-one per column.
	require.True(t, s.AddClause(aLits...))
	require.True(t, s.AddClause(aLits[0].Not(), aLits[1].Not()))
	require.True(t, s.AddClause(bLits...))
	require.True(t, s.AddClause(bLits[0].Not(), bLits[1].Not()))

	one, two := 1, 2
	vars := []ExtVar{{Values: aVals, Lits: aLits}, {Values: bVals, Lits: bLits}}
	rows := []ExtRow{{&one, &one}, {&two, &two}}
	p := NewExtensionSupportsPropagator(vars, rows)
	require.True(t, s.AddPropagator(p))

	require.True(t, s.AddClause(aLits[0])) // a = 1

	require.True(t, s.Solve())
	require.Equal(t, sat.LTrue, s.Value(bLits[0].Var()))
}

// An order-encoded pair of terms x, y in [0,2] under x + y <= 2 must never
// admit x=2, y=2 (which sums to 4).
func TestOrderEncodingLinearPropagator_ExcludesOverflow(t *testing.T) {
	s := newTestSolver()

	build := func() (values []int, geLits []sat.Lit) {
		values = []int{0, 1, 2}
		geLits = make([]sat.Lit, 2)
		for i := range geLits {
			v := s.NewVar()
			geLits[i] = s.NewLit(v, false)
		}
		// Chain: ge[1] -> ge[0].
		require.True(t, s.AddClause(geLits[1].Not(), geLits[0]))
		return
	}
	xVals, xGe := build()
	yVals, yGe := build()

	terms := []OrderTerm{
		{Values: xVals, GeLits: xGe, Coef: 1},
		{Values: yVals, GeLits: yGe, Coef: 1},
	}
	// sum - 2 <= 0  =>  constant = -2.
	p := NewOrderEncodingLinearPropagator(terms, -2)
	require.True(t, s.AddPropagator(p))

	// Force x = 2 (both ge lits true).
	require.True(t, s.AddClause(xGe[0]))
	require.True(t, s.AddClause(xGe[1]))

	require.True(t, s.Solve())
	// y must not reach 2: yGe[1] (y >= 2) must be false.
	require.Equal(t, sat.LFalse, s.Value(yGe[1].Var()))
}

func TestUnionFind_ConnectedAfterUnion(t *testing.T) {
	uf := newUnionFind(4)
	require.False(t, uf.connected(0, 3))
	uf.union(0, 1)
	uf.union(1, 2)
	uf.union(2, 3)
	require.True(t, uf.connected(0, 3))
}
