package encoder

import "github.com/xDarkicex/cspcore/sat"

// newFixedTrue allocates a SAT variable forced true by a standing unit
// clause, the same "always-true helper literal" pattern the normalizer
// uses at the NormCSP layer (normalizer.trueLit), needed here because the
// encoder must represent constant true/false operands when reifying
// comparisons and disjunctions.
func (e *Encoder) newFixedTrue() sat.Lit {
	v := e.backend.NewVar()
	lit := e.backend.NewLit(v, false)
	e.backend.AddClause(lit)
	return lit
}

func (e *Encoder) falseLit() sat.Lit { return e.trueLit.Not() }

// andReify returns a fresh literal biconditional with a AND b (Tseitin,
// both directions): one auxiliary variable per logical gate.
func (e *Encoder) andReify(a, b sat.Lit) sat.Lit {
	v := e.backend.NewVar()
	nv := e.backend.NewLit(v, false)
	e.backend.AddClause(nv.Not(), a)
	e.backend.AddClause(nv.Not(), b)
	e.backend.AddClause(nv, a.Not(), b.Not())
	return nv
}

// orReify returns a fresh literal biconditional with the disjunction of
// lits. Degenerate inputs short-circuit without allocating.
func (e *Encoder) orReify(lits []sat.Lit) sat.Lit {
	if len(lits) == 0 {
		return e.falseLit()
	}
	if len(lits) == 1 {
		return lits[0]
	}
	v := e.backend.NewVar()
	nv := e.backend.NewLit(v, false)
	for _, l := range lits {
		e.backend.AddClause(l.Not(), nv)
	}
	forward := append([]sat.Lit{nv.Not()}, lits...)
	e.backend.AddClause(forward...)
	return nv
}
