package propagators

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/xDarkicex/cspcore/sat"
)

// A path graph 0-1-2-3 with every edge initially free, and vertex 0
// declared to own a region of size exactly 2, forces edge (0,1) connected
// and edge (1,2) disconnected: vertex 1 must join vertex 0's region, and
// the region cannot grow past size 2.
func TestGraphDivisionPropagator_ForcesRegionBoundary(t *testing.T) {
	s := sat.NewCDCLSolver(zerolog.Nop())
	edges := []Edge{{U: 0, V: 1}, {U: 1, V: 2}, {U: 2, V: 3}}
	edgeLits := make([]sat.Lit, len(edges))
	for i := range edgeLits {
		v := s.NewVar()
		edgeLits[i] = s.NewLit(v, false)
	}

	sizeVar := s.NewVar()
	sizeLits := make([][]ValueLit, 4)
	sizeLits[0] = []ValueLit{
		{Value: 2, Lit: s.NewLit(sizeVar, false)},
	}

	cfg := GraphDivisionConfig{
		NumVertices:   4,
		HasRegionSize: []bool{true, false, false, false},
		SizeLits:      sizeLits,
		Edges:         edges,
		EdgeLits:      edgeLits,
		Mode:          RegionSizeMode,
	}
	p := NewGraphDivisionPropagator(cfg)
	require.True(t, s.AddPropagator(p))
	require.True(t, s.AddClause(sizeLits[0][0].Lit))

	require.True(t, s.Solve())
	require.Equal(t, sat.LTrue, s.Value(edgeLits[0].Var()))
	require.Equal(t, sat.LFalse, s.Value(edgeLits[1].Var()))
}

// Two disjoint regions declaring the same vertex pair connected by a
// decided-Disconnected edge and a decided-Connected edge on the same pair
// of roots is a direct contradiction.
func TestGraphDivisionPropagator_ConflictingEdgeStates_UNSAT(t *testing.T) {
	s := sat.NewCDCLSolver(zerolog.Nop())
	edges := []Edge{{U: 0, V: 1}, {U: 0, V: 1}}
	edgeLits := make([]sat.Lit, len(edges))
	for i := range edgeLits {
		v := s.NewVar()
		edgeLits[i] = s.NewLit(v, false)
	}

	cfg := GraphDivisionConfig{
		NumVertices:   2,
		HasRegionSize: []bool{false, false},
		SizeLits:      make([][]ValueLit, 2),
		Edges:         edges,
		EdgeLits:      edgeLits,
		Mode:          EdgeMode,
	}
	p := NewGraphDivisionPropagator(cfg)
	require.True(t, s.AddPropagator(p))

	require.True(t, s.AddClause(edgeLits[0]))
	require.True(t, s.AddClause(edgeLits[1].Not()))

	require.False(t, s.Solve())
}
