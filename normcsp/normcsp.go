package normcsp

import "github.com/xDarkicex/cspcore/core"

// NormCSP owns every NormCSP-level boolean/integer variable, every
// Constraint, and every ExtraConstraint produced by the normalizer. Like
// csp.CSP its variable tables are dense and append-only.
type NormCSP struct {
	numBoolVars int
	intVars     []IntVarRepresentation

	constraints      []Constraint
	extraConstraints []ExtraConstraint
}

// NewNormCSP creates an empty NormCSP.
func NewNormCSP() *NormCSP {
	return &NormCSP{}
}

// NewBoolVar allocates a fresh NormCSP boolean variable.
func (n *NormCSP) NewBoolVar() NBoolVar {
	v := NBoolVar(n.numBoolVars)
	n.numBoolVars++
	return v
}

// NewIntVar allocates a fresh NormCSP integer variable with an ordinary
// domain representation.
func (n *NormCSP) NewIntVar(d core.IntDomain) NIntVar {
	if d.IsEmpty() {
		core.Fail("normcsp", "NewIntVar", "domain is empty")
	}
	n.intVars = append(n.intVars, RepOfDomain(d))
	return NIntVar(len(n.intVars) - 1)
}

// NewBinaryIntVar allocates a fresh NormCSP integer variable represented as
// a selector-controlled two-valued integer.
func (n *NormCSP) NewBinaryIntVar(cond BoolLit, vFalse, vTrue int) NIntVar {
	n.intVars = append(n.intVars, RepOfBinary(cond, vFalse, vTrue))
	return NIntVar(len(n.intVars) - 1)
}

func (n *NormCSP) NumBoolVars() int { return n.numBoolVars }
func (n *NormCSP) NumIntVars() int  { return len(n.intVars) }

func (n *NormCSP) IntVarRepresentationOf(v NIntVar) IntVarRepresentation { return n.intVars[v] }

// RefineIntVarDomain narrows a RepDomain variable's domain in place. It is a
// misuse to call this on a RepBinary variable (fatal).
func (n *NormCSP) RefineIntVarDomain(v NIntVar, d core.IntDomain) {
	if n.intVars[v].Kind != RepDomain {
		core.Fail("normcsp", "RefineIntVarDomain", "variable is not RepDomain")
	}
	n.intVars[v].Domain = d
}

// AddConstraint appends a NormCSP clause.
func (n *NormCSP) AddConstraint(c Constraint) { n.constraints = append(n.constraints, c) }

// AddExtraConstraint appends a global constraint for the encoder to
// dispatch to a custom propagator.
func (n *NormCSP) AddExtraConstraint(c ExtraConstraint) {
	n.extraConstraints = append(n.extraConstraints, c)
}

func (n *NormCSP) Constraints() []Constraint           { return n.constraints }
func (n *NormCSP) ExtraConstraints() []ExtraConstraint { return n.extraConstraints }

// RefineDomains narrows RepDomain variable domains from forced unit
// constraints — a clause whose only disjunct is a single-variable linear
// literal must hold, so the variable's domain can be cut to the values
// satisfying it — looping to a fixed point since one refinement can
// collapse another constraint's sum to a singleton. Returns false when a
// domain empties (the NormCSP is infeasible before any clause reaches the
// encoder).
func (n *NormCSP) RefineDomains() bool {
	for {
		changed := false
		for _, c := range n.constraints {
			if len(c.BoolLits) != 0 || len(c.LinearLits) != 1 {
				continue
			}
			ll := c.LinearLits[0]
			v, coef, constant, ok := ll.Sum.IsSingleton()
			if !ok || n.intVars[v].Kind != RepDomain {
				continue
			}
			status := n.refineSingleton(v, coef, constant, ll.Op)
			switch status {
			case core.Unsatisfiable:
				return false
			case core.Updated:
				changed = true
			}
		}
		if !changed {
			return true
		}
	}
}

// refineSingleton cuts v's domain by `coef*v + constant <op> 0`.
func (n *NormCSP) refineSingleton(v NIntVar, coef, constant int, op core.CmpOp) core.UpdateStatus {
	d := &n.intVars[v].Domain
	if coef < 0 {
		coef, constant, op = -coef, -constant, op.Flip()
	}
	switch op {
	case core.Ge, core.Gt:
		// coef*v + constant >= 0 (or > 0): v >= ceil(-constant / coef).
		bound := -constant
		if op == core.Gt {
			bound++
		}
		return d.RefineLowerBound(ceilDivInt(bound, coef))
	case core.Le, core.Lt:
		bound := -constant
		if op == core.Lt {
			bound--
		}
		return d.RefineUpperBound(floorDivInt(bound, coef))
	case core.Eq:
		if (-constant)%coef != 0 {
			return core.Unsatisfiable
		}
		val := -constant / coef
		if !d.Contains(val) {
			return core.Unsatisfiable
		}
		first := d.RefineLowerBound(val)
		if first == core.Unsatisfiable {
			return first
		}
		second := d.RefineUpperBound(val)
		if second == core.Unsatisfiable {
			return second
		}
		if first == core.Updated || second == core.Updated {
			return core.Updated
		}
		return core.NotUpdated
	case core.Ne:
		if (-constant)%coef != 0 {
			return core.NotUpdated
		}
		return d.RefineExclude(-constant / coef)
	default:
		return core.NotUpdated
	}
}

func ceilDivInt(a, b int) int {
	q := a / b
	if a%b != 0 && a > 0 {
		q++
	}
	return q
}

func floorDivInt(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}
