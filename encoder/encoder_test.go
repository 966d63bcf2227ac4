package encoder

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/xDarkicex/cspcore/core"
	"github.com/xDarkicex/cspcore/normcsp"
	"github.com/xDarkicex/cspcore/sat"
)

func newBackend() *sat.CDCLSolver { return sat.NewCDCLSolver(zerolog.Nop()) }

// TestEncode_OrderEncodingChain checks that an order-encoded variable
// constrained to value >= 3 decodes to a value of at least 3.
func TestEncode_OrderEncodingChain(t *testing.T) {
	norm := normcsp.NewNormCSP()
	v := norm.NewIntVar(core.NewRangeDomain(0, 4))
	// Force value >= 3 (i.e. order literal 2, since values are 0,1,2,3,4
	// and order literal i means value >= values[i+1]).
	sum := normcsp.SumOfVar(v)
	sum.Constant = -3
	norm.AddConstraint(normcsp.Constraint{LinearLits: []normcsp.LinearLit{normcsp.NewLinearLit(sum, core.Ge)}})

	backend := newBackend()
	cfg := DefaultConfig()
	cfg.UseDirectEncoding = false
	mapping, ok := Encode(norm, backend, cfg, zerolog.Nop())
	require.True(t, ok)
	require.True(t, backend.Solve())

	value, ok := mapping.IntValue(v, func(l sat.Lit) bool {
		return (backend.Value(l.Var()) == sat.LTrue) != l.Negated()
	})
	require.True(t, ok)
	require.GreaterOrEqual(t, value, 3)
}

// TestEncode_DirectEncodingOneHot checks that a small enumerated-domain
// variable with only Eq usage (eligible for direct encoding) encodes and
// solves.
func TestEncode_DirectEncodingOneHot(t *testing.T) {
	norm := normcsp.NewNormCSP()
	v := norm.NewIntVar(core.NewEnumDomain([]int{1, 2, 3}))
	sum := normcsp.SumOfVar(v)
	sum.Constant = -2
	norm.AddConstraint(normcsp.Constraint{LinearLits: []normcsp.LinearLit{normcsp.NewLinearLit(sum, core.Eq)}})

	backend := newBackend()
	cfg := DefaultConfig()
	_, ok := Encode(norm, backend, cfg, zerolog.Nop())
	require.True(t, ok)
	require.True(t, backend.Solve())
}

// TestEncode_UnsatAtEncodeTime covers the encoder's "already unsat at
// decision level 0" contract: AddClause returns false.
func TestEncode_UnsatAtEncodeTime(t *testing.T) {
	norm := normcsp.NewNormCSP()
	b := norm.NewBoolVar()
	norm.AddConstraint(normcsp.Constraint{BoolLits: []normcsp.BoolLit{normcsp.Lit(b)}})
	norm.AddConstraint(normcsp.Constraint{BoolLits: []normcsp.BoolLit{normcsp.NotLit(b)}})

	backend := newBackend()
	_, ok := Encode(norm, backend, DefaultConfig(), zerolog.Nop())
	require.False(t, ok)
}

// TestEncode_MulExtraConstraint checks Result = Left * Right over small
// domains is compiled and solvable with a consistent product.
func TestEncode_MulExtraConstraint(t *testing.T) {
	norm := normcsp.NewNormCSP()
	l := norm.NewIntVar(core.NewRangeDomain(2, 3))
	r := norm.NewIntVar(core.NewRangeDomain(2, 3))
	result := norm.NewIntVar(core.NewRangeDomain(4, 9))
	norm.AddExtraConstraint(normcsp.NewExtraMul(l, r, result))

	backend := newBackend()
	mapping, ok := Encode(norm, backend, DefaultConfig(), zerolog.Nop())
	require.True(t, ok)
	require.True(t, backend.Solve())

	evalFn := func(lit sat.Lit) bool { return (backend.Value(lit.Var()) == sat.LTrue) != lit.Negated() }
	lv, _ := mapping.IntValue(l, evalFn)
	rv, _ := mapping.IntValue(r, evalFn)
	resv, _ := mapping.IntValue(result, evalFn)
	require.Equal(t, lv*rv, resv)
}

// A Binary-represented variable whose true-branch value is the smaller of
// its two values must still channel the selector correctly: cond true
// selects VTrue even though the order chain's literal means "value >= the
// larger".
func TestEncode_BinaryVarChannelsReversedValues(t *testing.T) {
	norm := normcsp.NewNormCSP()
	cond := norm.NewBoolVar()
	v := norm.NewBinaryIntVar(normcsp.Lit(cond), 5, 2) // false->5, true->2
	norm.AddConstraint(normcsp.Constraint{BoolLits: []normcsp.BoolLit{normcsp.Lit(cond)}})

	backend := newBackend()
	cfg := DefaultConfig()
	cfg.UseDirectEncoding = false
	mapping, ok := Encode(norm, backend, cfg, zerolog.Nop())
	require.True(t, ok)
	require.True(t, backend.Solve())

	value, ok := mapping.IntValue(v, func(l sat.Lit) bool {
		return (backend.Value(l.Var()) == sat.LTrue) != l.Negated()
	})
	require.True(t, ok)
	require.Equal(t, 2, value)
}
