package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCmpOp_Negate(t *testing.T) {
	pairs := map[CmpOp]CmpOp{Eq: Ne, Ne: Eq, Le: Gt, Lt: Ge, Ge: Lt, Gt: Le}
	for op, want := range pairs {
		require.Equal(t, want, op.Negate(), op.String())
		require.Equal(t, op, op.Negate().Negate())
	}
}

func TestCmpOp_Flip(t *testing.T) {
	require.Equal(t, Ge, Le.Flip())
	require.Equal(t, Gt, Lt.Flip())
	require.Equal(t, Le, Ge.Flip())
	require.Equal(t, Lt, Gt.Flip())
	require.Equal(t, Eq, Eq.Flip())
	require.Equal(t, Ne, Ne.Flip())
}

func TestCmpOp_Holds(t *testing.T) {
	cases := []struct {
		op   CmpOp
		lhs  int
		want bool
	}{
		{Eq, 0, true}, {Eq, 1, false},
		{Ne, 0, false}, {Ne, 1, true},
		{Le, 0, true}, {Le, -1, true}, {Le, 1, false},
		{Lt, 0, false}, {Lt, -1, true},
		{Ge, 0, true}, {Ge, -1, false}, {Ge, 1, true},
		{Gt, 0, false}, {Gt, 1, true},
	}
	for _, c := range cases {
		require.Equal(t, c.want, c.op.Holds(c.lhs), "%s %d", c.op, c.lhs)
	}
}

func TestCmpOp_Negate_Unknown_Panics(t *testing.T) {
	require.Panics(t, func() { CmpOp(99).Negate() })
}
