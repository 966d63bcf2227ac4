package csp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xDarkicex/cspcore/core"
)

func TestConstantPropBool_AndForcesEachConjunctTrue(t *testing.T) {
	c := NewCSP()
	x := c.NewBoolVar()
	y := c.NewBoolVar()
	status := c.ConstantPropBool(BAnd(BVar(x), BVar(y)), true)
	require.Equal(t, core.Updated, status)
	require.True(t, c.BoolVarStatusOf(x).Fixed)
	require.True(t, c.BoolVarStatusOf(x).Value)
	require.True(t, c.BoolVarStatusOf(y).Fixed)
}

func TestConstantPropBool_OrUnderFalseForcesEachDisjunctFalse(t *testing.T) {
	c := NewCSP()
	x := c.NewBoolVar()
	status := c.ConstantPropBool(BOr(BVar(x)), false)
	require.Equal(t, core.Updated, status)
	require.True(t, c.BoolVarStatusOf(x).Fixed)
	require.False(t, c.BoolVarStatusOf(x).Value)
}

func TestConstantPropBool_ConflictingFixReturnsUnsatisfiable(t *testing.T) {
	c := NewCSP()
	x := c.NewBoolVar()
	c.SetBoolVarStatus(x, BoolVarStatus{Fixed: true, Value: true})
	status := c.ConstantPropBool(BVar(x), false)
	require.Equal(t, core.Unsatisfiable, status)
}

func TestConstantPropBool_ImpUnderFalseForcesAntecedentTrueConsequentFalse(t *testing.T) {
	c := NewCSP()
	x := c.NewBoolVar()
	y := c.NewBoolVar()
	status := c.ConstantPropBool(BImp(BVar(x), BVar(y)), false)
	require.Equal(t, core.Updated, status)
	require.True(t, c.BoolVarStatusOf(x).Value)
	require.False(t, c.BoolVarStatusOf(y).Value)
}

func TestConstantPropBool_NotFlipsExpected(t *testing.T) {
	c := NewCSP()
	x := c.NewBoolVar()
	status := c.ConstantPropBool(BNot(BVar(x)), true)
	require.Equal(t, core.Updated, status)
	require.False(t, c.BoolVarStatusOf(x).Value)
}

func TestConstantPropBool_AlreadyFixedSameValueNotUpdated(t *testing.T) {
	c := NewCSP()
	x := c.NewBoolVar()
	c.SetBoolVarStatus(x, BoolVarStatus{Fixed: true, Value: true})
	status := c.ConstantPropBool(BVar(x), true)
	require.Equal(t, core.NotUpdated, status)
}
