package sat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// A unit row forces its variable, and that forced value cascades through
// a second row sharing the variable to force the second variable too.
func TestGaussianEliminator_CascadesForcedVariables(t *testing.T) {
	a, b := Var(0), Var(1)
	system := []XORClause{
		{Vars: []Var{a}, RHS: true},
		{Vars: []Var{a, b}, RHS: true},
	}

	ge := NewGaussianEliminator()
	forced, consistent := ge.Eliminate(system, nil)
	require.True(t, consistent)
	require.Equal(t, true, forced[a])
	require.Equal(t, false, forced[b])
}

// Two unit rows assigning the same variable to opposite values reduce to
// an all-zero row with a true RHS: an unsatisfiable parity system.
func TestGaussianEliminator_ContradictoryUnitRows_Inconsistent(t *testing.T) {
	a := Var(0)
	system := []XORClause{
		{Vars: []Var{a}, RHS: true},
		{Vars: []Var{a}, RHS: false},
	}

	ge := NewGaussianEliminator()
	_, consistent := ge.Eliminate(system, nil)
	require.False(t, consistent)
	require.Equal(t, int64(1), ge.Stats().ConflictsFound)
}

// A variable already fixed by the caller participates as a constant:
// reducing a two-variable row to a forced single-variable one.
func TestGaussianEliminator_FixedVariableActsAsConstant(t *testing.T) {
	a, b := Var(0), Var(1)
	system := []XORClause{
		{Vars: []Var{a, b}, RHS: true},
	}

	ge := NewGaussianEliminator()
	forced, consistent := ge.Eliminate(system, map[Var]bool{a: true})
	require.True(t, consistent)
	require.Equal(t, false, forced[b])
	_, stillOpen := forced[a]
	require.False(t, stillOpen)
}

// An underdetermined system (two variables tied together by a single
// parity row, neither fixed) forces nothing: the row's weight after
// reduction is 2, not 1.
func TestGaussianEliminator_UnderdeterminedSystem_ForcesNothing(t *testing.T) {
	a, b := Var(0), Var(1)
	system := []XORClause{
		{Vars: []Var{a, b}, RHS: true},
	}

	ge := NewGaussianEliminator()
	forced, consistent := ge.Eliminate(system, nil)
	require.True(t, consistent)
	require.Empty(t, forced)
}
