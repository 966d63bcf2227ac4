// Package csp implements Component C: the high-level CSP representation —
// boolean and integer expression trees, statements (including global
// constraints), and the constant-folding/propagation rewrites that simplify
// a CSP before normalization.
package csp

import "github.com/xDarkicex/cspcore/core"

// BoolVar is a dense, append-only index into the CSP's boolean variable
// table. Indices are stable for the facade's lifetime; variables are never
// deleted.
type BoolVar int

// IntVar is a dense, append-only index into the CSP's integer variable
// table.
type IntVar int

// BoolVarStatus tracks whether a boolean variable has been fixed to a
// constant by constant folding/propagation, in which case it never reaches
// the normalizer.
type BoolVarStatus struct {
	Fixed bool // true if the variable's value is known
	Value bool
}

// IntVarStatus tracks the current domain of an integer variable, refined in
// place by constant propagation.
type IntVarStatus struct {
	Domain core.IntDomain
}

// CSP owns every boolean/integer variable, every top-level statement, and
// the answer-key designations used by irrefutable-facts/answer-iteration
// queries.
type CSP struct {
	boolVars []BoolVarStatus
	intVars  []IntVarStatus

	statements []Statement

	answerKeyBool map[BoolVar]bool
	answerKeyInt  map[IntVar]bool
}

// NewCSP creates an empty CSP.
func NewCSP() *CSP {
	return &CSP{
		answerKeyBool: make(map[BoolVar]bool),
		answerKeyInt:  make(map[IntVar]bool),
	}
}

// NewBoolVar allocates a fresh boolean variable.
func (c *CSP) NewBoolVar() BoolVar {
	c.boolVars = append(c.boolVars, BoolVarStatus{})
	return BoolVar(len(c.boolVars) - 1)
}

// NewIntVarRange allocates a fresh integer variable ranging over [lo, hi].
func (c *CSP) NewIntVarRange(lo, hi int) IntVar {
	return c.newIntVar(core.NewRangeDomain(lo, hi))
}

// NewIntVarEnum allocates a fresh integer variable ranging over an explicit
// set of values.
func (c *CSP) NewIntVarEnum(values []int) IntVar {
	return c.newIntVar(core.NewEnumDomain(values))
}

func (c *CSP) newIntVar(d core.IntDomain) IntVar {
	if d.IsEmpty() {
		core.Fail("csp", "NewIntVar", "domain is empty")
	}
	c.intVars = append(c.intVars, IntVarStatus{Domain: d})
	return IntVar(len(c.intVars) - 1)
}

func (c *CSP) NumBoolVars() int { return len(c.boolVars) }
func (c *CSP) NumIntVars() int  { return len(c.intVars) }

func (c *CSP) BoolVarStatusOf(v BoolVar) BoolVarStatus { return c.boolVars[v] }
func (c *CSP) IntVarStatusOf(v IntVar) IntVarStatus    { return c.intVars[v] }

func (c *CSP) SetBoolVarStatus(v BoolVar, s BoolVarStatus) { c.boolVars[v] = s }
func (c *CSP) SetIntVarDomain(v IntVar, d core.IntDomain)  { c.intVars[v].Domain = d }

// AddConstraint appends a top-level statement to the CSP.
func (c *CSP) AddConstraint(s Statement) {
	c.statements = append(c.statements, s)
}

// Statements returns the CSP's top-level statements.
func (c *CSP) Statements() []Statement { return c.statements }

// SetStatements replaces the top-level statement list.
func (c *CSP) SetStatements(stmts []Statement) { c.statements = stmts }

// AddAnswerKeyBool designates boolean variables as relevant to
// irrefutable-facts/answer-iteration queries.
func (c *CSP) AddAnswerKeyBool(vars ...BoolVar) {
	for _, v := range vars {
		c.answerKeyBool[v] = true
	}
}

// AddAnswerKeyInt designates integer variables as relevant to
// irrefutable-facts/answer-iteration queries.
func (c *CSP) AddAnswerKeyInt(vars ...IntVar) {
	for _, v := range vars {
		c.answerKeyInt[v] = true
	}
}

// AnswerKeyBools returns the set of boolean answer-key variables.
func (c *CSP) AnswerKeyBools() []BoolVar {
	out := make([]BoolVar, 0, len(c.answerKeyBool))
	for v := range c.answerKeyBool {
		out = append(out, v)
	}
	return out
}

// AnswerKeyInts returns the set of integer answer-key variables.
func (c *CSP) AnswerKeyInts() []IntVar {
	out := make([]IntVar, 0, len(c.answerKeyInt))
	for v := range c.answerKeyInt {
		out = append(out, v)
	}
	return out
}
