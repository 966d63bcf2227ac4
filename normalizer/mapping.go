package normalizer

import (
	"github.com/xDarkicex/cspcore/csp"
	"github.com/xDarkicex/cspcore/normcsp"
)

// VarMapping exposes the csp-layer → NormCSP-layer variable correspondence
// built up while normalizing, so the facade can project a NormCSP/SAT-level
// model back onto csp.BoolVar/csp.IntVar.
type VarMapping struct {
	nz *Normalizer
}

// BoolLit resolves v to its NormCSP literal. ok is false when v was fixed
// to a constant during CSP optimization and so never reached the NormCSP
// layer; value then holds the constant it was fixed to.
func (m *VarMapping) BoolLit(v csp.BoolVar) (lit normcsp.BoolLit, value bool, ok bool) {
	st := m.nz.boolMap[v]
	if st.state == boolRemoved {
		return normcsp.BoolLit{}, st.value, false
	}
	return m.nz.boolLitOf(v), false, true
}

// IntVar resolves v to its NormCSP integer variable. ok is false when v was
// fixed to a single value (its domain collapsed to a singleton); value then
// holds that constant. A csp integer variable always maps to a bare NormCSP
// variable (intVarSum never scales or offsets it), so the singleton
// decomposition here is just an unwrap.
func (m *VarMapping) IntVar(v csp.IntVar) (nv normcsp.NIntVar, value int, ok bool) {
	sum := m.nz.intVarSum(v)
	if c, isConst := sum.IsConstant(); isConst {
		return 0, c, false
	}
	vv, _, _, _ := sum.IsSingleton()
	return vv, 0, true
}

// NormalizeWithMapping runs Normalize and additionally returns the
// VarMapping the facade needs to decode answer-key assignments.
func NormalizeWithMapping(c *csp.CSP, opts Options) (*normcsp.NormCSP, *VarMapping) {
	nz := &Normalizer{
		csp:                c,
		norm:               normcsp.NewNormCSP(),
		opts:               opts,
		boolMap:            make([]boolVarMapping, c.NumBoolVars()),
		intMap:             make([]intVarMapping, c.NumIntVars()),
		intExprEquivalence: make(map[*csp.IntExpr]normcsp.LinearSum),
		boolExprReify:      make(map[*csp.BoolExpr]normcsp.BoolLit),
	}
	nz.initRemovedBoolVars()
	if opts.MergeEquivalentVariables {
		nz.mergeEquivalentVariables()
	} else {
		nz.consumedStatements = make([]bool, len(c.Statements()))
	}
	for i, st := range c.Statements() {
		if nz.consumedStatements[i] {
			continue
		}
		nz.normalizeStatement(st)
	}
	return nz.norm, &VarMapping{nz: nz}
}
