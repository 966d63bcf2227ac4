package csp

import "github.com/xDarkicex/cspcore/core"

// ConstantPropBool attempts to strengthen per-variable fixed-status
// whenever a conjunctive context forces a literal: under an
// And with expected=true every conjunct is itself expected true; under an
// Or with expected=false every disjunct is expected false; Not flips the
// expected polarity; Imp under expected=false forces the antecedent true
// and the consequent false. Other shapes (And under false, Or under true,
// Imp under true, Xor/Iff, Cmp) do not force a single child and are a
// no-op here — they rely on ConstantFoldBool/iteration to fixed point
// instead.
func (c *CSP) ConstantPropBool(e *BoolExpr, expected bool) core.UpdateStatus {
	switch e.Kind {
	case BoolConst:
		if e.ConstVal != expected {
			return core.Unsatisfiable
		}
		return core.NotUpdated
	case BoolVarRef:
		return c.fixBoolVar(e.Var, expected)
	case BoolNot:
		return c.ConstantPropBool(e.Left, !expected)
	case BoolAnd:
		if !expected {
			return core.NotUpdated
		}
		return c.propAll(e.List, true)
	case BoolOr:
		if expected {
			return core.NotUpdated
		}
		return c.propAll(e.List, false)
	case BoolImp:
		if expected {
			return core.NotUpdated
		}
		status := c.ConstantPropBool(e.Left, true)
		if status == core.Unsatisfiable {
			return core.Unsatisfiable
		}
		status2 := c.ConstantPropBool(e.Right, false)
		if status2 == core.Unsatisfiable {
			return core.Unsatisfiable
		}
		if status == core.Updated || status2 == core.Updated {
			return core.Updated
		}
		return core.NotUpdated
	default:
		return core.NotUpdated
	}
}

func (c *CSP) propAll(list []*BoolExpr, expected bool) core.UpdateStatus {
	result := core.NotUpdated
	for _, child := range list {
		status := c.ConstantPropBool(child, expected)
		if status == core.Unsatisfiable {
			return core.Unsatisfiable
		}
		if status == core.Updated {
			result = core.Updated
		}
	}
	return result
}

func (c *CSP) fixBoolVar(v BoolVar, value bool) core.UpdateStatus {
	st := c.boolVars[v]
	if st.Fixed {
		if st.Value != value {
			return core.Unsatisfiable
		}
		return core.NotUpdated
	}
	c.boolVars[v] = BoolVarStatus{Fixed: true, Value: value}
	return core.Updated
}
