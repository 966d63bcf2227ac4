package normalizer

import "github.com/xDarkicex/cspcore/csp"

// mergeEquivalentVariables runs a single pass over top-level
// Iff(Var x, Var y) / Xor(Var x, Var y) statements. If neither x
// nor y has a mapping yet, y's mapping becomes an alias of x (negated for
// Xor), and the statement itself is consumed — the equivalence is captured
// structurally by the alias rather than emitted as a clause.
func (nz *Normalizer) mergeEquivalentVariables() {
	stmts := nz.csp.Statements()
	consumed := make([]bool, len(stmts))

	for i, st := range stmts {
		if st.Kind != csp.StmtExpr {
			continue
		}
		e := st.Expr

		var negated bool
		switch e.Kind {
		case csp.BoolIff:
			negated = false
		case csp.BoolXor:
			negated = true
		default:
			continue
		}
		if e.Left.Kind != csp.BoolVarRef || e.Right.Kind != csp.BoolVarRef {
			continue
		}
		x, y := e.Left.Var, e.Right.Var
		if x == y {
			continue
		}
		if nz.boolMap[x].state != boolUnmapped || nz.boolMap[y].state != boolUnmapped {
			continue
		}
		nz.boolMap[y] = boolVarMapping{state: boolAlias, aliasOf: x, aliasNegated: negated}
		consumed[i] = true
	}

	nz.consumedStatements = consumed
}
