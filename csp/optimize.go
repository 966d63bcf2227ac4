package csp

import "github.com/xDarkicex/cspcore/core"

// Optimize runs constant folding and (optionally) constant propagation to a
// fixed point: it loops folding+propagation until no further simplification
// occurs or a contradiction is found. It reports false exactly when the CSP
// was proven unsatisfiable by folding/propagation alone (a SAT solve may
// still be needed to confirm satisfiability when it returns true).
func (c *CSP) Optimize(useConstantFolding, useConstantPropagation bool) bool {
	if !useConstantFolding && !useConstantPropagation {
		return true
	}
	for {
		fixedBefore := c.countFixedBoolVars()
		stmtCountBefore := len(c.statements)

		kept := make([]Statement, 0, len(c.statements))
		for _, st := range c.statements {
			newStmt, keep, unsat := c.optimizeStatement(st, useConstantFolding, useConstantPropagation)
			if unsat {
				c.statements = []Statement{StmtFromExpr(BConst(false))}
				return false
			}
			if keep {
				kept = append(kept, newStmt)
			}
		}
		c.statements = kept

		if c.countFixedBoolVars() == fixedBefore && len(c.statements) == stmtCountBefore {
			return true
		}
	}
}

func (c *CSP) countFixedBoolVars() int {
	n := 0
	for _, st := range c.boolVars {
		if st.Fixed {
			n++
		}
	}
	return n
}

// optimizeStatement folds (and, for StmtExpr, propagates) a single
// statement. keep=false means the statement folded away to a trivial true
// and can be dropped; unsat=true means it folded to false.
func (c *CSP) optimizeStatement(st Statement, useFolding, usePropagation bool) (out Statement, keep bool, unsat bool) {
	switch st.Kind {
	case StmtExpr:
		e := st.Expr
		if useFolding {
			e = c.ConstantFoldBool(e)
		}
		if usePropagation {
			status := c.ConstantPropBool(e, true)
			if status == core.Unsatisfiable {
				return Statement{}, false, true
			}
			if useFolding {
				e = c.ConstantFoldBool(e)
			}
		}
		if e.Kind == BoolConst {
			if !e.ConstVal {
				return Statement{}, false, true
			}
			return Statement{}, false, false
		}
		return StmtFromExpr(e), true, false
	case StmtAllDifferent:
		if useFolding {
			terms := make([]*IntExpr, len(st.AllDifferentTerms))
			for i, t := range st.AllDifferentTerms {
				terms[i] = c.ConstantFoldInt(t)
			}
			st.AllDifferentTerms = terms
		}
		return st, true, false
	case StmtActiveVerticesConnected:
		if useFolding {
			active := make([]*BoolExpr, len(st.VertexActive))
			for i, a := range st.VertexActive {
				active[i] = c.ConstantFoldBool(a)
			}
			st.VertexActive = active
		}
		return st, true, false
	case StmtCircuit:
		if useFolding {
			next := make([]*IntExpr, len(st.CircuitNext))
			for i, n := range st.CircuitNext {
				next[i] = c.ConstantFoldInt(n)
			}
			st.CircuitNext = next
		}
		return st, true, false
	case StmtExtensionSupports:
		if useFolding {
			vars := make([]*IntExpr, len(st.ExtVars))
			for i, v := range st.ExtVars {
				vars[i] = c.ConstantFoldInt(v)
			}
			st.ExtVars = vars
		}
		return st, true, false
	case StmtGraphDivision:
		if useFolding {
			sizes := make([]*IntExpr, len(st.RegionSizeVars))
			for i, s := range st.RegionSizeVars {
				if s != nil {
					sizes[i] = c.ConstantFoldInt(s)
				}
			}
			st.RegionSizeVars = sizes
			lits := make([]*BoolExpr, len(st.EdgeLits))
			for i, l := range st.EdgeLits {
				if l != nil {
					lits[i] = c.ConstantFoldBool(l)
				}
			}
			st.EdgeLits = lits
		}
		return st, true, false
	case StmtCustomConstraint:
		if useFolding {
			inputs := make([]*BoolExpr, len(st.CustomInputs))
			for i, in := range st.CustomInputs {
				inputs[i] = c.ConstantFoldBool(in)
			}
			st.CustomInputs = inputs
		}
		return st, true, false
	default:
		core.Failf("csp", "optimizeStatement", "unknown StatementKind %d", st.Kind)
		return Statement{}, false, false
	}
}
