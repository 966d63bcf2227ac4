package csp

import "github.com/xDarkicex/cspcore/core"

// ConstantFoldBool rewrites e bottom-up, substituting fixed-variable values
// from c's per-variable status and simplifying boolean algebra identities:
// And with a false conjunct collapses to false and drops true conjuncts,
// Or is dual, Xor/Iff/Imp with a constant operand collapse or become Not.
func (c *CSP) ConstantFoldBool(e *BoolExpr) *BoolExpr {
	switch e.Kind {
	case BoolConst:
		return e
	case BoolVarRef:
		st := c.boolVars[e.Var]
		if st.Fixed {
			return BConst(st.Value)
		}
		return e
	case BoolNot:
		inner := c.ConstantFoldBool(e.Left)
		if inner.Kind == BoolConst {
			return BConst(!inner.ConstVal)
		}
		if inner.Kind == BoolNot {
			return inner.Left
		}
		return BNot(inner)
	case BoolAnd:
		return c.foldConjunctive(e.List, true)
	case BoolOr:
		return c.foldConjunctive(e.List, false)
	case BoolXor:
		return c.foldXorIff(e.Left, e.Right, true)
	case BoolIff:
		return c.foldXorIff(e.Left, e.Right, false)
	case BoolImp:
		l := c.ConstantFoldBool(e.Left)
		r := c.ConstantFoldBool(e.Right)
		if l.Kind == BoolConst {
			if l.ConstVal {
				return r
			}
			return BConst(true)
		}
		if r.Kind == BoolConst {
			if r.ConstVal {
				return BConst(true)
			}
			return c.ConstantFoldBool(BNot(l))
		}
		return BImp(l, r)
	case BoolCmp:
		lhs := c.ConstantFoldInt(e.IntLeft)
		rhs := c.ConstantFoldInt(e.IntRight)
		if lhs.Kind == IntConst && rhs.Kind == IntConst {
			return BConst(e.Op.Holds(lhs.ConstVal - rhs.ConstVal))
		}
		return BCmp(e.Op, lhs, rhs)
	default:
		core.Failf("csp", "ConstantFoldBool", "unknown BoolExprKind %d", e.Kind)
		return nil
	}
}

// foldConjunctive folds And (isAnd=true) / Or (isAnd=false).
func (c *CSP) foldConjunctive(list []*BoolExpr, isAnd bool) *BoolExpr {
	annihilator, identity := !isAnd, isAnd // And: annihilator=false identity=true; Or: annihilator=true identity=false
	out := make([]*BoolExpr, 0, len(list))
	for _, child := range list {
		folded := c.ConstantFoldBool(child)
		if folded.Kind == BoolConst {
			if folded.ConstVal == annihilator {
				return BConst(annihilator)
			}
			// folded.ConstVal == identity: drop it
			continue
		}
		if folded.Kind == BoolAnd && isAnd {
			out = append(out, folded.List...)
			continue
		}
		if folded.Kind == BoolOr && !isAnd {
			out = append(out, folded.List...)
			continue
		}
		out = append(out, folded)
	}
	switch len(out) {
	case 0:
		return BConst(identity)
	case 1:
		return out[0]
	default:
		if isAnd {
			return BAnd(out...)
		}
		return BOr(out...)
	}
}

// foldXorIff folds Xor (isXor=true) and Iff (isXor=false). Both collapse to
// Not or to a constant once either side is constant.
func (c *CSP) foldXorIff(left, right *BoolExpr, isXor bool) *BoolExpr {
	l := c.ConstantFoldBool(left)
	r := c.ConstantFoldBool(right)
	if l.Kind == BoolConst && r.Kind == BoolConst {
		return BConst((l.ConstVal != r.ConstVal) == isXor)
	}
	if l.Kind == BoolConst {
		if l.ConstVal == isXor {
			return c.ConstantFoldBool(BNot(r))
		}
		return r
	}
	if r.Kind == BoolConst {
		if r.ConstVal == isXor {
			return c.ConstantFoldBool(BNot(l))
		}
		return l
	}
	if isXor {
		return BXor(l, r)
	}
	return BIff(l, r)
}

// ConstantFoldInt rewrites e bottom-up: constant multiplication folds
// (including const*const and times-zero), empty Linear sums fold to 0, and
// a single-term Linear with coefficient 1 collapses to that term.
func (c *CSP) ConstantFoldInt(e *IntExpr) *IntExpr {
	switch e.Kind {
	case IntConst:
		return e
	case IntVarRef:
		st := c.intVars[e.Var]
		if v, ok := st.Domain.IsSingleton(); ok {
			return IConst(v)
		}
		return e
	case IntLinear:
		return c.foldLinear(e.Terms)
	case IntIf:
		cond := c.ConstantFoldBool(e.Cond)
		then := c.ConstantFoldInt(e.Then)
		els := c.ConstantFoldInt(e.Else)
		if cond.Kind == BoolConst {
			if cond.ConstVal {
				return then
			}
			return els
		}
		return IIf(cond, then, els)
	case IntAbs:
		inner := c.ConstantFoldInt(e.Operand)
		if inner.Kind == IntConst {
			v := inner.ConstVal
			if v < 0 {
				v = -v
			}
			return IConst(v)
		}
		return IAbs(inner)
	case IntMul:
		l := c.ConstantFoldInt(e.MulLeft)
		r := c.ConstantFoldInt(e.MulRight)
		// Fold const*const, and multiplication by zero on either side, before
		// falling back to a Linear rewrite by a constant coefficient.
		if l.Kind == IntConst && r.Kind == IntConst {
			return IConst(core.CheckedInt(l.ConstVal).Mul(core.CheckedInt(r.ConstVal)).Int())
		}
		if (l.Kind == IntConst && l.ConstVal == 0) || (r.Kind == IntConst && r.ConstVal == 0) {
			return IConst(0)
		}
		if l.Kind == IntConst {
			return c.foldLinear([]LinearTerm{Term(r, l.ConstVal)})
		}
		if r.Kind == IntConst {
			return c.foldLinear([]LinearTerm{Term(l, r.ConstVal)})
		}
		return IMul(l, r)
	default:
		core.Failf("csp", "ConstantFoldInt", "unknown IntExprKind %d", e.Kind)
		return nil
	}
}

// foldLinear folds every term, merges constant terms, and drops zero
// coefficients. A single surviving term with coefficient 1 collapses to
// that term; an empty sum folds to 0.
func (c *CSP) foldLinear(terms []LinearTerm) *IntExpr {
	constant := 0
	out := make([]LinearTerm, 0, len(terms))
	for _, t := range terms {
		if t.Coef == 0 {
			continue
		}
		folded := c.ConstantFoldInt(t.Expr)
		if folded.Kind == IntConst {
			constant += folded.ConstVal * t.Coef
			continue
		}
		if folded.Kind == IntLinear {
			// Flatten nested Linear: scale and splice in its terms plus
			// constant contribution.
			for _, inner := range folded.Terms {
				out = append(out, Term(inner.Expr, inner.Coef*t.Coef))
			}
			continue
		}
		out = append(out, Term(folded, t.Coef))
	}
	if constant != 0 {
		out = append(out, Term(IConst(constant), 1))
	}
	switch len(out) {
	case 0:
		return IConst(0)
	case 1:
		if out[0].Coef == 1 {
			return out[0].Expr
		}
		return ILinear(out...)
	default:
		return ILinear(out...)
	}
}
