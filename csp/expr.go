package csp

import "github.com/xDarkicex/cspcore/core"

// BoolExprKind tags the variant of a BoolExpr node.
type BoolExprKind int

const (
	BoolConst BoolExprKind = iota
	BoolVarRef
	BoolAnd
	BoolOr
	BoolNot
	BoolXor
	BoolIff
	BoolImp
	BoolCmp
)

// BoolExpr is a boolean expression tree node. It is a tagged union rather
// than an interface hierarchy — the natural representation for a rewrite
// pass that needs in-place child replacement. Exactly the fields relevant
// to Kind are populated.
type BoolExpr struct {
	Kind BoolExprKind

	ConstVal bool
	Var      BoolVar

	// And/Or take a variadic list; Not/Xor/Iff/Imp use Left/Right (Not uses
	// only Left).
	List  []*BoolExpr
	Left  *BoolExpr
	Right *BoolExpr

	// Cmp
	Op       core.CmpOp
	IntLeft  *IntExpr
	IntRight *IntExpr
}

func BConst(b bool) *BoolExpr  { return &BoolExpr{Kind: BoolConst, ConstVal: b} }
func BVar(v BoolVar) *BoolExpr { return &BoolExpr{Kind: BoolVarRef, Var: v} }

func BAnd(es ...*BoolExpr) *BoolExpr { return &BoolExpr{Kind: BoolAnd, List: es} }
func BOr(es ...*BoolExpr) *BoolExpr  { return &BoolExpr{Kind: BoolOr, List: es} }
func BNot(e *BoolExpr) *BoolExpr     { return &BoolExpr{Kind: BoolNot, Left: e} }
func BXor(a, b *BoolExpr) *BoolExpr  { return &BoolExpr{Kind: BoolXor, Left: a, Right: b} }
func BIff(a, b *BoolExpr) *BoolExpr  { return &BoolExpr{Kind: BoolIff, Left: a, Right: b} }
func BImp(a, b *BoolExpr) *BoolExpr  { return &BoolExpr{Kind: BoolImp, Left: a, Right: b} }

func BCmp(op core.CmpOp, lhs, rhs *IntExpr) *BoolExpr {
	return &BoolExpr{Kind: BoolCmp, Op: op, IntLeft: lhs, IntRight: rhs}
}

// IntExprKind tags the variant of an IntExpr node.
type IntExprKind int

const (
	IntConst IntExprKind = iota
	IntVarRef
	IntLinear
	IntIf
	IntAbs
	IntMul
)

// LinearTerm is one (expr, coefficient) pair in an IntLinear node.
type LinearTerm struct {
	Expr *IntExpr
	Coef int
}

// IntExpr is an integer expression tree node, mirroring BoolExpr's
// tagged-union design.
type IntExpr struct {
	Kind IntExprKind

	ConstVal int
	Var      IntVar

	Terms []LinearTerm // IntLinear

	Cond *BoolExpr // IntIf
	Then *IntExpr  // IntIf
	Else *IntExpr  // IntIf

	Operand *IntExpr // IntAbs

	MulLeft  *IntExpr // IntMul
	MulRight *IntExpr // IntMul
}

func IConst(v int) *IntExpr  { return &IntExpr{Kind: IntConst, ConstVal: v} }
func IVar(v IntVar) *IntExpr { return &IntExpr{Kind: IntVarRef, Var: v} }

func ILinear(terms ...LinearTerm) *IntExpr { return &IntExpr{Kind: IntLinear, Terms: terms} }

func Term(e *IntExpr, coef int) LinearTerm { return LinearTerm{Expr: e, Coef: coef} }

func IIf(cond *BoolExpr, then, els *IntExpr) *IntExpr {
	return &IntExpr{Kind: IntIf, Cond: cond, Then: then, Else: els}
}

func IAbs(e *IntExpr) *IntExpr { return &IntExpr{Kind: IntAbs, Operand: e} }

func IMul(a, b *IntExpr) *IntExpr { return &IntExpr{Kind: IntMul, MulLeft: a, MulRight: b} }

// IAdd is sugar for a two-term Linear sum with unit coefficients.
func IAdd(a, b *IntExpr) *IntExpr {
	return ILinear(Term(a, 1), Term(b, 1))
}

// ISub is sugar for a <op> b encoded as a Linear sum a - b.
func ISub(a, b *IntExpr) *IntExpr {
	return ILinear(Term(a, 1), Term(b, -1))
}
