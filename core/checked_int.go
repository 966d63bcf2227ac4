package core

import "math"

// CheckedInt wraps int32 and panics on overflow. Constant folding of Mul
// (csp/fold.go) and the Mul product-domain computation
// (normalizer/intexpr.go cornerProductDomain) go through CheckedInt; the
// rest of the arithmetic in the CSP, NormCSP and encoder layers uses plain
// int and is not overflow-checked.
type CheckedInt int32

// NewCheckedInt converts a plain int into a CheckedInt, panicking if it does
// not fit in int32. Use at the public API boundary only.
func NewCheckedInt(v int) CheckedInt {
	if v > math.MaxInt32 || v < math.MinInt32 {
		Failf("core", "NewCheckedInt", "value %d overflows int32", v)
	}
	return CheckedInt(v)
}

func (c CheckedInt) Int() int { return int(c) }

func (c CheckedInt) Add(other CheckedInt) CheckedInt {
	sum := int64(c) + int64(other)
	return checkedInt64(sum, "Add")
}

func (c CheckedInt) Sub(other CheckedInt) CheckedInt {
	diff := int64(c) - int64(other)
	return checkedInt64(diff, "Sub")
}

func (c CheckedInt) Mul(other CheckedInt) CheckedInt {
	prod := int64(c) * int64(other)
	return checkedInt64(prod, "Mul")
}

func (c CheckedInt) Neg() CheckedInt {
	if c == math.MinInt32 {
		Failf("core", "CheckedInt.Neg", "negation of MinInt32 overflows int32")
	}
	return -c
}

func (c CheckedInt) Cmp(other CheckedInt) int {
	switch {
	case c < other:
		return -1
	case c > other:
		return 1
	default:
		return 0
	}
}

func (c CheckedInt) Min(other CheckedInt) CheckedInt {
	if c < other {
		return c
	}
	return other
}

func (c CheckedInt) Max(other CheckedInt) CheckedInt {
	if c > other {
		return c
	}
	return other
}

func checkedInt64(v int64, op string) CheckedInt {
	if v > math.MaxInt32 || v < math.MinInt32 {
		Failf("core", "CheckedInt."+op, "result %d overflows int32", v)
	}
	return CheckedInt(v)
}
