package normalizer

import (
	"github.com/xDarkicex/cspcore/csp"
	"github.com/xDarkicex/cspcore/normcsp"
)

// normalizeBoolExpr computes the set of NormCSP Constraints needed to
// express `e ⊕ neg` (assert e when neg is false, assert ¬e when neg is
// true), threading polarity down the tree and flattening disjunctions
// through the combinator below.
func (nz *Normalizer) normalizeBoolExpr(e *csp.BoolExpr, neg bool) []normcsp.Constraint {
	switch e.Kind {
	case csp.BoolConst:
		if e.ConstVal != neg {
			return nil
		}
		return []normcsp.Constraint{{}}
	case csp.BoolVarRef:
		lit := nz.boolLitOf(e.Var)
		if neg {
			lit = lit.Negate()
		}
		return []normcsp.Constraint{{BoolLits: []normcsp.BoolLit{lit}}}
	case csp.BoolNot:
		return nz.normalizeBoolExpr(e.Left, !neg)
	case csp.BoolAnd:
		if !neg {
			return nz.conjoinUniform(e.List, false)
		}
		return nz.disjoinUniform(e.List, true)
	case csp.BoolOr:
		if !neg {
			return nz.disjoinUniform(e.List, false)
		}
		return nz.conjoinUniform(e.List, true)
	case csp.BoolImp:
		if !neg {
			return nz.disjoin([]exprNeg{{e.Left, true}, {e.Right, false}})
		}
		return nz.conjoin([]exprNeg{{e.Left, false}, {e.Right, true}})
	case csp.BoolXor, csp.BoolIff:
		isXor := e.Kind == csp.BoolXor
		// Both satisfying polarity pairs mention each operand twice, so a
		// nested Xor/Iff operand is first replaced by its reified NVar —
		// otherwise chained Xor/Iff would double the clause count per level.
		left, right := nz.substituteXorIff(e.Left), nz.substituteXorIff(e.Right)
		// Positive Xor ≡ (a∨b) ∧ (¬a∨¬b); positive Iff ≡ (¬a∨b) ∧ (a∨¬b).
		// Negative swaps which pattern is built.
		wantXorPattern := isXor != neg
		var c1, c2 []normcsp.Constraint
		if wantXorPattern {
			c1 = nz.disjoin([]exprNeg{{left, false}, {right, false}})
			c2 = nz.disjoin([]exprNeg{{left, true}, {right, true}})
		} else {
			c1 = nz.disjoin([]exprNeg{{left, true}, {right, false}})
			c2 = nz.disjoin([]exprNeg{{left, false}, {right, true}})
		}
		return append(c1, c2...)
	case csp.BoolCmp:
		op := e.Op
		if neg {
			op = op.Negate()
		}
		sum := nz.normalizeIntExpr(e.IntLeft).Minus(nz.normalizeIntExpr(e.IntRight))
		return []normcsp.Constraint{{LinearLits: []normcsp.LinearLit{normcsp.NewLinearLit(sum, op)}}}
	default:
		panic("normalizer: unknown BoolExprKind")
	}
}

// substituteXorIff replaces a non-root Xor/Iff subterm with a synthetic
// variable reference to its reified literal; anything else passes through
// untouched. The reification is cached, so the substituted NVar and its
// biconditional clauses exist once no matter how often the subterm recurs.
func (nz *Normalizer) substituteXorIff(e *csp.BoolExpr) *csp.BoolExpr {
	if e.Kind != csp.BoolXor && e.Kind != csp.BoolIff {
		return e
	}
	lit := nz.reifyBool(e)
	return nz.litExpr(lit)
}

// litExpr wraps an already-resolved NormCSP literal back into a BoolExpr so
// the flattening rules can treat it like any other operand. The wrapper
// variable is a synthetic csp-layer alias mapped straight onto lit.
func (nz *Normalizer) litExpr(lit normcsp.BoolLit) *csp.BoolExpr {
	v := csp.BoolVar(len(nz.boolMap))
	nz.boolMap = append(nz.boolMap, boolVarMapping{state: boolDirect, lit: lit})
	return csp.BVar(v)
}

// exprNeg pairs a BoolExpr with the polarity it should be normalized under.
type exprNeg struct {
	Expr *csp.BoolExpr
	Neg  bool
}

func (nz *Normalizer) conjoin(items []exprNeg) []normcsp.Constraint {
	var out []normcsp.Constraint
	for _, it := range items {
		out = append(out, nz.normalizeBoolExpr(it.Expr, it.Neg)...)
	}
	return out
}

func (nz *Normalizer) conjoinUniform(list []*csp.BoolExpr, neg bool) []normcsp.Constraint {
	var out []normcsp.Constraint
	for _, e := range list {
		out = append(out, nz.normalizeBoolExpr(e, neg)...)
	}
	return out
}

func (nz *Normalizer) disjoinUniform(list []*csp.BoolExpr, neg bool) []normcsp.Constraint {
	items := make([]exprNeg, len(list))
	for i, e := range list {
		items[i] = exprNeg{e, neg}
	}
	return nz.disjoin(items)
}

// disjoin implements the disjunction combinator: each
// item's clause set is classified as a bare unit literal (folded directly
// into the merged clause) or a compound clause set (channelled through a
// fresh auxiliary boolean, true only if that disjunct is false). The
// two-disjunct all-compound case reuses a single variable for both
// directions, and the single-compound case appends the accumulated unit
// literals to every one of that disjunct's clauses directly.
func (nz *Normalizer) disjoin(items []exprNeg) []normcsp.Constraint {
	var unitLits []normcsp.BoolLit
	var compounds [][]normcsp.Constraint

	for _, it := range items {
		set := nz.normalizeBoolExpr(it.Expr, it.Neg)
		if len(set) == 1 && len(set[0].LinearLits) == 0 && len(set[0].BoolLits) == 1 {
			unitLits = append(unitLits, set[0].BoolLits[0])
			continue
		}
		compounds = append(compounds, set)
	}

	switch len(compounds) {
	case 0:
		return []normcsp.Constraint{{BoolLits: unitLits}}
	case 1:
		out := make([]normcsp.Constraint, len(compounds[0]))
		for i, c := range compounds[0] {
			nc := c
			nc.BoolLits = append(append([]normcsp.BoolLit{}, c.BoolLits...), unitLits...)
			out[i] = nc
		}
		return out
	case 2:
		if len(unitLits) == 0 {
			v := nz.norm.NewBoolVar()
			auxLits := [2]normcsp.BoolLit{normcsp.Lit(v), normcsp.NotLit(v)}
			var out []normcsp.Constraint
			for i, set := range compounds {
				for _, c := range set {
					nc := c
					nc.BoolLits = append(append([]normcsp.BoolLit{}, c.BoolLits...), auxLits[i])
					out = append(out, nc)
				}
			}
			return out
		}
		fallthrough
	default:
		closing := normcsp.Constraint{BoolLits: append([]normcsp.BoolLit{}, unitLits...)}
		var out []normcsp.Constraint
		for _, set := range compounds {
			aux := nz.norm.NewBoolVar()
			auxLit := normcsp.Lit(aux)
			closing.BoolLits = append(closing.BoolLits, normcsp.NotLit(aux))
			for _, c := range set {
				nc := c
				nc.BoolLits = append(append([]normcsp.BoolLit{}, c.BoolLits...), auxLit)
				out = append(out, nc)
			}
		}
		out = append(out, closing)
		return out
	}
}
