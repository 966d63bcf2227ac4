package normcsp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xDarkicex/cspcore/core"
)

func TestBoolLit_Negate(t *testing.T) {
	l := Lit(3)
	require.False(t, l.Negated)
	n := l.Negate()
	require.True(t, n.Negated)
	require.Equal(t, l.Var, n.Var)
	require.Equal(t, l, n.Negate())
}

func TestLinearSum_AddTerm_DropsZero(t *testing.T) {
	s := NewLinearSum()
	s.AddTerm(1, 3)
	s.AddTerm(1, -3)
	_, ok := s.Terms[1]
	require.False(t, ok)
}

func TestLinearSum_PlusMinusScalarMul(t *testing.T) {
	a := SumOfVar(1)
	a.AddTerm(2, 2)
	a.Constant = 5

	b := SumOfVar(1)
	sum := a.Plus(b)
	require.Equal(t, 2, sum.Terms[1])
	require.Equal(t, 2, sum.Terms[2])
	require.Equal(t, 5, sum.Constant)

	diff := a.Minus(b)
	_, ok := diff.Terms[1]
	require.False(t, ok)
	require.Equal(t, 2, diff.Terms[2])

	scaled := a.ScalarMul(-2)
	require.Equal(t, -2, scaled.Terms[1])
	require.Equal(t, -4, scaled.Terms[2])
	require.Equal(t, -10, scaled.Constant)
}

func TestLinearSum_IsConstantAndSingleton(t *testing.T) {
	c := SumOfConstant(7)
	v, ok := c.IsConstant()
	require.True(t, ok)
	require.Equal(t, 7, v)

	s := SumOfVar(4)
	s.Constant = 1
	vv, coef, constant, ok := s.IsSingleton()
	require.True(t, ok)
	require.Equal(t, NIntVar(4), vv)
	require.Equal(t, 1, coef)
	require.Equal(t, 1, constant)

	multi := s.Plus(SumOfVar(5))
	_, _, _, ok = multi.IsSingleton()
	require.False(t, ok)
}

func TestLinearSum_Equal(t *testing.T) {
	a := SumOfVar(1)
	a.Constant = 2
	b := SumOfVar(1)
	b.Constant = 2
	require.True(t, a.Equal(b))

	c := SumOfVar(1)
	c.Constant = 3
	require.False(t, a.Equal(c))
}

func TestLinearSum_Vars_SortedOrder(t *testing.T) {
	s := NewLinearSum()
	s.AddTerm(5, 1)
	s.AddTerm(2, 1)
	s.AddTerm(9, 1)
	require.Equal(t, []NIntVar{2, 5, 9}, s.Vars())
}

func TestConstraint_IsEmpty(t *testing.T) {
	c := NewConstraint()
	require.True(t, c.IsEmpty())
	c.AddBoolLit(Lit(0))
	require.False(t, c.IsEmpty())
}

func TestIntVarRepresentation_EffectiveDomain(t *testing.T) {
	rd := RepOfDomain(core.NewRangeDomain(1, 5))
	require.Equal(t, []int{1, 2, 3, 4, 5}, rd.EffectiveDomain().Enumerate())

	rb := RepOfBinary(Lit(0), 3, 7)
	require.Equal(t, []int{3, 7}, rb.EffectiveDomain().Enumerate())

	rbSame := RepOfBinary(Lit(0), 4, 4)
	require.Equal(t, []int{4}, rbSame.EffectiveDomain().Enumerate())

	rbReversed := RepOfBinary(Lit(0), 9, 2)
	require.Equal(t, []int{2, 9}, rbReversed.EffectiveDomain().Enumerate())
}
