package csp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptimize_DropsTriviallyTrueStatement(t *testing.T) {
	c := NewCSP()
	c.AddConstraint(StmtFromExpr(BConst(true)))
	ok := c.Optimize(true, true)
	require.True(t, ok)
	require.Empty(t, c.Statements())
}

func TestOptimize_DetectsUnsatContradiction(t *testing.T) {
	c := NewCSP()
	x := c.NewBoolVar()
	c.AddConstraint(StmtFromExpr(BVar(x)))
	c.AddConstraint(StmtFromExpr(BNot(BVar(x))))
	ok := c.Optimize(true, true)
	require.False(t, ok)
}

func TestOptimize_PropagatesFixedVarsAcrossStatements(t *testing.T) {
	c := NewCSP()
	x := c.NewBoolVar()
	y := c.NewBoolVar()
	// x is forced true, which should let `x -> y` force y true too so that
	// the second statement (`y`) folds away to trivial-true once chased to
	// fixed point.
	c.AddConstraint(StmtFromExpr(BVar(x)))
	c.AddConstraint(StmtFromExpr(BImp(BVar(x), BVar(y))))
	ok := c.Optimize(true, true)
	require.True(t, ok)
	require.True(t, c.BoolVarStatusOf(x).Fixed)
	require.True(t, c.BoolVarStatusOf(y).Fixed)
	require.True(t, c.BoolVarStatusOf(y).Value)
}

func TestOptimize_Disabled_LeavesStatementsUntouched(t *testing.T) {
	c := NewCSP()
	x := c.NewBoolVar()
	c.AddConstraint(StmtFromExpr(BAnd(BVar(x), BConst(true))))
	ok := c.Optimize(false, false)
	require.True(t, ok)
	require.Len(t, c.Statements(), 1)
	require.Equal(t, BoolAnd, c.Statements()[0].Expr.Kind)
}

func TestOptimize_FoldsAllDifferentTerms(t *testing.T) {
	c := NewCSP()
	a := c.NewIntVarRange(3, 3)
	b := c.NewIntVarRange(1, 5)
	c.AddConstraint(StmtAllDiff(IVar(a), IVar(b)))
	ok := c.Optimize(true, false)
	require.True(t, ok)
	require.Len(t, c.Statements(), 1)
	require.Equal(t, IntConst, c.Statements()[0].AllDifferentTerms[0].Kind)
}
