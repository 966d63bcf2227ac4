package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckedInt_BasicArithmetic(t *testing.T) {
	a := NewCheckedInt(3)
	b := NewCheckedInt(4)
	require.Equal(t, 7, a.Add(b).Int())
	require.Equal(t, -1, a.Sub(b).Int())
	require.Equal(t, 12, a.Mul(b).Int())
	require.Equal(t, -3, a.Neg().Int())
}

func TestCheckedInt_Cmp(t *testing.T) {
	a, b := NewCheckedInt(3), NewCheckedInt(5)
	require.Equal(t, -1, a.Cmp(b))
	require.Equal(t, 1, b.Cmp(a))
	require.Equal(t, 0, a.Cmp(a))
	require.Equal(t, a, a.Min(b))
	require.Equal(t, b, a.Max(b))
}

func TestCheckedInt_AddOverflow_Panics(t *testing.T) {
	a := NewCheckedInt(math.MaxInt32)
	require.Panics(t, func() { a.Add(NewCheckedInt(1)) })
}

func TestCheckedInt_MulOverflow_Panics(t *testing.T) {
	a := CheckedInt(math.MaxInt32)
	require.Panics(t, func() { a.Mul(CheckedInt(2)) })
}

func TestCheckedInt_NegMinInt32_Panics(t *testing.T) {
	a := CheckedInt(math.MinInt32)
	require.Panics(t, func() { a.Neg() })
}

func TestNewCheckedInt_OutOfRange_Panics(t *testing.T) {
	require.Panics(t, func() { NewCheckedInt(math.MaxInt32 + 1) })
	require.Panics(t, func() { NewCheckedInt(math.MinInt32 - 1) })
}
