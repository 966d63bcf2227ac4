package csp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCSP_NewVars_DenseIndices(t *testing.T) {
	c := NewCSP()
	a := c.NewBoolVar()
	b := c.NewBoolVar()
	require.Equal(t, BoolVar(0), a)
	require.Equal(t, BoolVar(1), b)
	require.Equal(t, 2, c.NumBoolVars())

	x := c.NewIntVarRange(0, 3)
	y := c.NewIntVarEnum([]int{1, 4, 9})
	require.Equal(t, IntVar(0), x)
	require.Equal(t, IntVar(1), y)
	require.Equal(t, 2, c.NumIntVars())
}

func TestCSP_NewIntVar_EmptyDomainPanics(t *testing.T) {
	c := NewCSP()
	require.Panics(t, func() { c.NewIntVarRange(5, 2) })
}

func TestCSP_AnswerKeys(t *testing.T) {
	c := NewCSP()
	a := c.NewBoolVar()
	b := c.NewBoolVar()
	x := c.NewIntVarRange(0, 1)

	c.AddAnswerKeyBool(a, b)
	c.AddAnswerKeyInt(x)

	require.ElementsMatch(t, []BoolVar{a, b}, c.AnswerKeyBools())
	require.ElementsMatch(t, []IntVar{x}, c.AnswerKeyInts())
}

func TestCSP_AddConstraint_Statements(t *testing.T) {
	c := NewCSP()
	x := c.NewBoolVar()
	c.AddConstraint(StmtFromExpr(BVar(x)))
	require.Len(t, c.Statements(), 1)
}
