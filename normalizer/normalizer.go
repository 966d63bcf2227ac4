// Package normalizer implements Component E: converting a csp.CSP into a
// normcsp.NormCSP via Tseitin transformation, equivalence-variable merging,
// and If/Abs/Mul elaboration.
package normalizer

import (
	"github.com/xDarkicex/cspcore/core"
	"github.com/xDarkicex/cspcore/csp"
	"github.com/xDarkicex/cspcore/normcsp"
)

// Options configures the normalizer, mirroring the relevant subset of the
// facade's Configuration surface (the facade owns the full Config and
// projects it down to this struct).
type Options struct {
	MergeEquivalentVariables         bool
	AllDifferentBijectionConstraints bool
	UseNativeExtensionSupports       bool
	GraphDivisionMode                normcsp.GraphDivisionMode
}

func DefaultOptions() Options {
	return Options{
		MergeEquivalentVariables:         true,
		AllDifferentBijectionConstraints: true,
		UseNativeExtensionSupports:       true,
		GraphDivisionMode:                normcsp.RegionSizeMode,
	}
}

// boolVarState tags how a csp.BoolVar's NormCSP mapping was resolved.
type boolVarState int

const (
	boolUnmapped boolVarState = iota
	boolRemoved               // fixed to a constant during CSP optimization
	boolAlias                 // equivalence-merged onto another csp.BoolVar
	boolDirect                // has its own NormCSP bool var
)

type boolVarMapping struct {
	state        boolVarState
	value        bool        // boolRemoved
	aliasOf      csp.BoolVar // boolAlias
	aliasNegated bool        // boolAlias
	lit          normcsp.BoolLit
}

type intVarMapping struct {
	removed bool
	value   int
	mapped  bool
	nvar    normcsp.NIntVar
}

// Normalizer holds the working state of one CSP→NormCSP conversion.
type Normalizer struct {
	csp  *csp.CSP
	norm *normcsp.NormCSP
	opts Options

	boolMap []boolVarMapping
	intMap  []intVarMapping

	consumedStatements []bool

	intExprEquivalence map[*csp.IntExpr]normcsp.LinearSum
	boolExprReify      map[*csp.BoolExpr]normcsp.BoolLit

	trueVar     normcsp.NBoolVar
	trueCreated bool
}

// Normalize converts c into a fresh NormCSP in order: equivalence merging,
// then per-statement bool-flattening/global lowering.
func Normalize(c *csp.CSP, opts Options) *normcsp.NormCSP {
	norm, _ := NormalizeWithMapping(c, opts)
	return norm
}

func (nz *Normalizer) initRemovedBoolVars() {
	for v := 0; v < nz.csp.NumBoolVars(); v++ {
		st := nz.csp.BoolVarStatusOf(csp.BoolVar(v))
		if st.Fixed {
			nz.boolMap[v] = boolVarMapping{state: boolRemoved, value: st.Value}
		}
	}
}

// boolLitOf resolves v's NormCSP literal, lazily allocating a NormCSP bool
// var on first reference and resolving alias chains. It
// is a misuse to request the literal of a Removed (constant-folded) var —
// callers must check constant-foldedness at the csp layer first.
func (nz *Normalizer) boolLitOf(v csp.BoolVar) normcsp.BoolLit {
	m := &nz.boolMap[v]
	switch m.state {
	case boolRemoved:
		core.Fail("normalizer", "boolLitOf", "variable was removed by constant folding")
	case boolAlias:
		lit := nz.boolLitOf(m.aliasOf)
		if m.aliasNegated {
			lit = lit.Negate()
		}
		return lit
	case boolDirect:
		return m.lit
	}
	nv := nz.norm.NewBoolVar()
	lit := normcsp.Lit(nv)
	*m = boolVarMapping{state: boolDirect, lit: lit}
	return lit
}

// trueLit returns a NormCSP literal that is forced true by a standing unit
// clause, lazily created once per Normalizer.
func (nz *Normalizer) trueLit() normcsp.BoolLit {
	if !nz.trueCreated {
		nz.trueVar = nz.norm.NewBoolVar()
		nz.trueCreated = true
		nz.norm.AddConstraint(normcsp.Constraint{BoolLits: []normcsp.BoolLit{normcsp.Lit(nz.trueVar)}})
	}
	return normcsp.Lit(nz.trueVar)
}

// reifyBool returns a BoolLit equivalent to e, introducing a fresh NormCSP
// variable and a full biconditional Tseitin encoding (both directions) when
// e is not already a bare (possibly negated) variable reference. This is
// the general "NVar ↔ sub-expression" biconditional mechanism, reused
// wherever a compound condition needs a single literal (If conditions,
// Circuit selectors, nested Xor/Iff subterms). Compound reifications are
// memoized by node pointer so a shared subterm — in particular a chain of
// nested Xor/Iff — is encoded once, keeping the clause count linear in
// expression size.
func (nz *Normalizer) reifyBool(e *csp.BoolExpr) normcsp.BoolLit {
	switch e.Kind {
	case csp.BoolConst:
		if e.ConstVal {
			return nz.trueLit()
		}
		return nz.trueLit().Negate()
	case csp.BoolVarRef:
		return nz.boolLitOf(e.Var)
	case csp.BoolNot:
		return nz.reifyBool(e.Left).Negate()
	}
	if lit, ok := nz.boolExprReify[e]; ok {
		return lit
	}
	v := nz.norm.NewBoolVar()
	lit := normcsp.Lit(v)
	nz.boolExprReify[e] = lit
	for _, c := range nz.normalizeBoolExpr(e, false) {
		c.BoolLits = append(append([]normcsp.BoolLit{}, c.BoolLits...), lit.Negate())
		nz.norm.AddConstraint(c)
	}
	for _, c := range nz.normalizeBoolExpr(e, true) {
		c.BoolLits = append(append([]normcsp.BoolLit{}, c.BoolLits...), lit)
		nz.norm.AddConstraint(c)
	}
	return lit
}

func (nz *Normalizer) normalizeStatement(st csp.Statement) {
	switch st.Kind {
	case csp.StmtExpr:
		for _, c := range nz.normalizeBoolExpr(st.Expr, false) {
			nz.norm.AddConstraint(c)
		}
	case csp.StmtAllDifferent:
		nz.normalizeAllDifferent(st)
	case csp.StmtActiveVerticesConnected:
		nz.normalizeActiveVerticesConnected(st)
	case csp.StmtCircuit:
		nz.normalizeCircuit(st)
	case csp.StmtExtensionSupports:
		nz.normalizeExtensionSupports(st)
	case csp.StmtGraphDivision:
		nz.normalizeGraphDivision(st)
	case csp.StmtCustomConstraint:
		nz.normalizeCustomConstraint(st)
	default:
		core.Failf("normalizer", "normalizeStatement", "unknown StatementKind %d", st.Kind)
	}
}
