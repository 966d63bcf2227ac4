package normalizer

import (
	"github.com/xDarkicex/cspcore/core"
	"github.com/xDarkicex/cspcore/csp"
	"github.com/xDarkicex/cspcore/normcsp"
)

// normalizeIntExpr is the IntExpr half of normalization. Results are
// memoized in intExprEquivalence keyed on the *csp.IntExpr pointer, so a
// sub-expression shared by pointer is normalized once; structurally equal
// expressions built separately are normalized separately.
func (nz *Normalizer) normalizeIntExpr(e *csp.IntExpr) normcsp.LinearSum {
	if cached, ok := nz.intExprEquivalence[e]; ok {
		return cached
	}
	result := nz.normalizeIntExprUncached(e)
	nz.intExprEquivalence[e] = result
	return result
}

func (nz *Normalizer) normalizeIntExprUncached(e *csp.IntExpr) normcsp.LinearSum {
	switch e.Kind {
	case csp.IntConst:
		return normcsp.SumOfConstant(e.ConstVal)
	case csp.IntVarRef:
		return nz.intVarSum(e.Var)
	case csp.IntLinear:
		sum := normcsp.NewLinearSum()
		for _, t := range e.Terms {
			sum = sum.Plus(nz.normalizeIntExpr(t.Expr).ScalarMul(t.Coef))
		}
		return sum
	case csp.IntIf:
		return nz.normalizeIf(e)
	case csp.IntAbs:
		// Abs(x) ≡ If(x >= 0, x, -x).
		return nz.normalizeIntExpr(csp.IIf(csp.BCmp(core.Ge, e.Operand, csp.IConst(0)), e.Operand, csp.ISub(csp.IConst(0), e.Operand)))
	case csp.IntMul:
		return nz.normalizeMul(e)
	default:
		core.Failf("normalizer", "normalizeIntExpr", "unknown IntExprKind %d", e.Kind)
		return normcsp.LinearSum{}
	}
}

func (nz *Normalizer) intVarSum(v csp.IntVar) normcsp.LinearSum {
	m := &nz.intMap[v]
	if !m.mapped {
		status := nz.csp.IntVarStatusOf(v)
		if val, ok := status.Domain.IsSingleton(); ok {
			*m = intVarMapping{mapped: true, removed: true, value: val}
		} else {
			nv := nz.norm.NewIntVar(status.Domain)
			*m = intVarMapping{mapped: true, nvar: nv}
		}
	}
	if m.removed {
		return normcsp.SumOfConstant(m.value)
	}
	return normcsp.SumOfVar(m.nvar)
}

// normalizeIf elaborates If(cond, then, else): when both
// arms fold to constants, it becomes a Binary-represented variable channeled
// directly by the reified condition (no clauses emitted); otherwise an
// ordinary variable v is introduced together with the two implications
// `cond -> v=then` and `!cond -> v=else`.
func (nz *Normalizer) normalizeIf(e *csp.IntExpr) normcsp.LinearSum {
	thenConst, thenOk := e.Then.ConstVal, e.Then.Kind == csp.IntConst
	elseConst, elseOk := e.Else.ConstVal, e.Else.Kind == csp.IntConst
	condLit := nz.reifyBool(e.Cond)

	if thenOk && elseOk {
		v := nz.norm.NewBinaryIntVar(condLit, elseConst, thenConst)
		return normcsp.SumOfVar(v)
	}

	thenSum := nz.normalizeIntExpr(e.Then)
	elseSum := nz.normalizeIntExpr(e.Else)
	domain := nz.inferDomain(e.Then).Union(nz.inferDomain(e.Else))
	v := nz.norm.NewIntVar(domain)
	vSum := normcsp.SumOfVar(v)

	nz.norm.AddConstraint(normcsp.Constraint{
		BoolLits:   []normcsp.BoolLit{condLit.Negate()},
		LinearLits: []normcsp.LinearLit{normcsp.NewLinearLit(vSum.Minus(thenSum), core.Eq)},
	})
	nz.norm.AddConstraint(normcsp.Constraint{
		BoolLits:   []normcsp.BoolLit{condLit},
		LinearLits: []normcsp.LinearLit{normcsp.NewLinearLit(vSum.Minus(elseSum), core.Eq)},
	})
	return vSum
}

// normalizeMul elaborates Mul(x, y): constant factors
// fold inline; otherwise each non-constant operand is materialized into a
// NormCSP variable, the product domain is derived by cornerProductDomain,
// and an ExtraConstraint::Mul is registered for the encoder.
func (nz *Normalizer) normalizeMul(e *csp.IntExpr) normcsp.LinearSum {
	lSum := nz.normalizeIntExpr(e.MulLeft)
	rSum := nz.normalizeIntExpr(e.MulRight)
	if lc, ok := lSum.IsConstant(); ok {
		return rSum.ScalarMul(lc)
	}
	if rc, ok := rSum.IsConstant(); ok {
		return lSum.ScalarMul(rc)
	}

	lDomain := nz.inferDomain(e.MulLeft)
	rDomain := nz.inferDomain(e.MulRight)
	lVar := nz.materializeIntVar(lSum, lDomain)
	rVar := nz.materializeIntVar(rSum, rDomain)

	resultDomain := cornerProductDomain(lDomain, rDomain)
	result := nz.norm.NewIntVar(resultDomain)
	nz.norm.AddExtraConstraint(normcsp.NewExtraMul(lVar, rVar, result))
	return normcsp.SumOfVar(result)
}

// materializeIntVar returns an NIntVar exactly equal to sum: sum's own
// variable if it is already a bare singleton (coefficient 1, no constant),
// otherwise a fresh auxiliary variable tied to sum by an equality
// constraint (an auxiliary variable per operand not already a singleton).
func (nz *Normalizer) materializeIntVar(sum normcsp.LinearSum, domain core.IntDomain) normcsp.NIntVar {
	if v, coef, constant, ok := sum.IsSingleton(); ok && coef == 1 && constant == 0 {
		return v
	}
	aux := nz.norm.NewIntVar(domain)
	diff := normcsp.SumOfVar(aux).Minus(sum)
	nz.norm.AddConstraint(normcsp.Constraint{LinearLits: []normcsp.LinearLit{normcsp.NewLinearLit(diff, core.Eq)}})
	return aux
}

// inferDomain conservatively estimates the IntDomain an unevaluated
// *csp.IntExpr ranges over, used to size auxiliary NormCSP variables
// introduced during If/Mul elaboration.
func (nz *Normalizer) inferDomain(e *csp.IntExpr) core.IntDomain {
	switch e.Kind {
	case csp.IntConst:
		return core.NewEnumDomain([]int{e.ConstVal})
	case csp.IntVarRef:
		return nz.csp.IntVarStatusOf(e.Var).Domain
	case csp.IntLinear:
		acc := core.NewEnumDomain([]int{0})
		for _, t := range e.Terms {
			acc = acc.Add(nz.inferDomain(t.Expr).ScalarMul(t.Coef))
		}
		return acc
	case csp.IntIf:
		return nz.inferDomain(e.Then).Union(nz.inferDomain(e.Else))
	case csp.IntAbs:
		return absDomain(nz.inferDomain(e.Operand))
	case csp.IntMul:
		return cornerProductDomain(nz.inferDomain(e.MulLeft), nz.inferDomain(e.MulRight))
	default:
		core.Failf("normalizer", "inferDomain", "unknown IntExprKind %d", e.Kind)
		return core.IntDomain{}
	}
}

func absDomain(d core.IntDomain) core.IntDomain {
	if d.IsEnumerative() {
		seen := make(map[int]bool)
		vals := make([]int, 0, d.Size())
		for _, v := range d.Enumerate() {
			a := v
			if a < 0 {
				a = -a
			}
			if !seen[a] {
				seen[a] = true
				vals = append(vals, a)
			}
		}
		return core.NewEnumDomain(vals)
	}
	lo, hi := d.Lo(), d.Hi()
	absLo, absHi := lo, hi
	if absLo < 0 {
		absLo = -absLo
	}
	if absHi < 0 {
		absHi = -absHi
	}
	maxAbs := absLo
	if absHi > maxAbs {
		maxAbs = absHi
	}
	minAbs := 0
	if lo > 0 || hi < 0 {
		if absLo < absHi {
			minAbs = absLo
		} else {
			minAbs = absHi
		}
	}
	return core.NewRangeDomain(minAbs, maxAbs)
}

// cornerProductDomain derives the product domain of two domains: the exact
// set of pairwise products if either is Enumerative, otherwise the range
// spanned by the four corner products.
func cornerProductDomain(a, b core.IntDomain) core.IntDomain {
	if a.IsEnumerative() || b.IsEnumerative() {
		seen := make(map[int]bool)
		var vals []int
		for _, av := range a.Enumerate() {
			for _, bv := range b.Enumerate() {
				p := core.CheckedInt(av).Mul(core.CheckedInt(bv)).Int()
				if !seen[p] {
					seen[p] = true
					vals = append(vals, p)
				}
			}
		}
		return core.NewEnumDomain(vals)
	}
	corners := [4]int{
		core.CheckedInt(a.Lo()).Mul(core.CheckedInt(b.Lo())).Int(),
		core.CheckedInt(a.Lo()).Mul(core.CheckedInt(b.Hi())).Int(),
		core.CheckedInt(a.Hi()).Mul(core.CheckedInt(b.Lo())).Int(),
		core.CheckedInt(a.Hi()).Mul(core.CheckedInt(b.Hi())).Int(),
	}
	lo, hi := corners[0], corners[0]
	for _, c := range corners[1:] {
		if c < lo {
			lo = c
		}
		if c > hi {
			hi = c
		}
	}
	return core.NewRangeDomain(lo, hi)
}
