package csp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xDarkicex/cspcore/core"
)

func TestConstantFoldBool_FixedVarSubstitution(t *testing.T) {
	c := NewCSP()
	x := c.NewBoolVar()
	c.SetBoolVarStatus(x, BoolVarStatus{Fixed: true, Value: true})

	folded := c.ConstantFoldBool(BVar(x))
	require.Equal(t, BoolConst, folded.Kind)
	require.True(t, folded.ConstVal)
}

func TestConstantFoldBool_AndAnnihilator(t *testing.T) {
	c := NewCSP()
	x := c.NewBoolVar()
	folded := c.ConstantFoldBool(BAnd(BVar(x), BConst(false)))
	require.Equal(t, BoolConst, folded.Kind)
	require.False(t, folded.ConstVal)
}

func TestConstantFoldBool_OrDropsIdentity(t *testing.T) {
	c := NewCSP()
	x := c.NewBoolVar()
	folded := c.ConstantFoldBool(BOr(BVar(x), BConst(false)))
	require.Equal(t, BoolVarRef, folded.Kind)
	require.Equal(t, x, folded.Var)
}

func TestConstantFoldBool_DoubleNegation(t *testing.T) {
	c := NewCSP()
	x := c.NewBoolVar()
	folded := c.ConstantFoldBool(BNot(BNot(BVar(x))))
	require.Equal(t, BoolVarRef, folded.Kind)
}

func TestConstantFoldBool_XorConstantCollapsesToNot(t *testing.T) {
	c := NewCSP()
	x := c.NewBoolVar()
	folded := c.ConstantFoldBool(BXor(BConst(true), BVar(x)))
	require.Equal(t, BoolNot, folded.Kind)
}

func TestConstantFoldBool_ImpConstantAntecedent(t *testing.T) {
	c := NewCSP()
	x := c.NewBoolVar()
	// false -> x folds to true.
	folded := c.ConstantFoldBool(BImp(BConst(false), BVar(x)))
	require.Equal(t, BoolConst, folded.Kind)
	require.True(t, folded.ConstVal)
}

func TestConstantFoldBool_CmpBothConst(t *testing.T) {
	c := NewCSP()
	folded := c.ConstantFoldBool(BCmp(core.Lt, IConst(1), IConst(2)))
	require.Equal(t, BoolConst, folded.Kind)
	require.True(t, folded.ConstVal)
}

func TestConstantFoldInt_SingletonDomain(t *testing.T) {
	c := NewCSP()
	v := c.NewIntVarRange(5, 5)
	folded := c.ConstantFoldInt(IVar(v))
	require.Equal(t, IntConst, folded.Kind)
	require.Equal(t, 5, folded.ConstVal)
}

func TestConstantFoldInt_MulConstConstFolds(t *testing.T) {
	c := NewCSP()
	folded := c.ConstantFoldInt(IMul(IConst(3), IConst(4)))
	require.Equal(t, IntConst, folded.Kind)
	require.Equal(t, 12, folded.ConstVal)
}

func TestConstantFoldInt_MulByZeroFolds(t *testing.T) {
	c := NewCSP()
	v := c.NewIntVarRange(0, 10)
	folded := c.ConstantFoldInt(IMul(IVar(v), IConst(0)))
	require.Equal(t, IntConst, folded.Kind)
	require.Equal(t, 0, folded.ConstVal)
}

func TestConstantFoldInt_MulByConstBecomesLinear(t *testing.T) {
	c := NewCSP()
	v := c.NewIntVarRange(0, 10)
	folded := c.ConstantFoldInt(IMul(IVar(v), IConst(3)))
	require.Equal(t, IntLinear, folded.Kind)
	require.Len(t, folded.Terms, 1)
	require.Equal(t, 3, folded.Terms[0].Coef)
}

func TestConstantFoldInt_AbsConstant(t *testing.T) {
	c := NewCSP()
	folded := c.ConstantFoldInt(IAbs(IConst(-5)))
	require.Equal(t, IntConst, folded.Kind)
	require.Equal(t, 5, folded.ConstVal)
}

func TestConstantFoldInt_LinearEmptyFoldsToZero(t *testing.T) {
	c := NewCSP()
	folded := c.ConstantFoldInt(ILinear())
	require.Equal(t, IntConst, folded.Kind)
	require.Equal(t, 0, folded.ConstVal)
}

func TestConstantFoldInt_LinearSingleUnitCoefCollapses(t *testing.T) {
	c := NewCSP()
	v := c.NewIntVarRange(0, 10)
	folded := c.ConstantFoldInt(ILinear(Term(IVar(v), 1)))
	require.Equal(t, IntVarRef, folded.Kind)
	require.Equal(t, v, folded.Var)
}

func TestConstantFoldInt_IfConstantCondCollapses(t *testing.T) {
	c := NewCSP()
	v := c.NewIntVarRange(0, 10)
	folded := c.ConstantFoldInt(IIf(BConst(true), IConst(1), IVar(v)))
	require.Equal(t, IntConst, folded.Kind)
	require.Equal(t, 1, folded.ConstVal)
}
