package sat

// analyzeConflict implements First-UIP conflict-driven clause learning:
// resolution along the trail until a single current-level literal remains,
// LBD tagging of the learned clause, and backtrack-level computation. A
// literal asserted by a custom propagator resolves through that
// propagator's CalcReason instead of a stored *Clause reason.
//
// Returns the learned clause and the decision level to backtrack to.
func (c *CDCLSolver) analyzeConflict(conflict *Clause, conflictProp Propagator) (*Clause, int) {
	seen := make([]bool, len(c.trail.info))
	var learned []Lit
	counter := 0
	level := c.trail.CurrentLevel()

	reasonLits := c.reasonOf(conflict, conflictProp, LitUndef)
	trailIdx := c.trail.Len() - 1
	p := LitUndef

	for {
		for _, q := range reasonLits {
			v := q.Var()
			if seen[v] {
				continue
			}
			seen[v] = true
			c.vsids.bump(v)
			if c.trail.Level(v) == level {
				counter++
			} else if c.trail.Level(v) > 0 {
				learned = append(learned, q.Not())
			}
		}

		// Walk the trail backward to the next literal that is "seen" —
		// that is the next clause to resolve against.
		for !seen[c.trail.lits[trailIdx].Var()] {
			trailIdx--
		}
		p = c.trail.lits[trailIdx]
		v := p.Var()
		seen[v] = false
		counter--
		if counter == 0 {
			break
		}
		reason := c.trail.Reason(v)
		prop := c.trail.PropagatorReason(v)
		reasonLits = c.reasonOf(reason, prop, p)
		trailIdx--
	}

	// p is the first UIP; the learned clause asserts its negation.
	learned = append([]Lit{p.Not()}, learned...)

	backtrackLevel := 0
	if len(learned) > 1 {
		maxIdx := 1
		maxLevel := c.trail.Level(learned[1].Var())
		for i := 2; i < len(learned); i++ {
			lv := c.trail.Level(learned[i].Var())
			if lv > maxLevel {
				maxLevel, maxIdx = lv, i
			}
		}
		learned[1], learned[maxIdx] = learned[maxIdx], learned[1]
		backtrackLevel = maxLevel
	}

	clause := &Clause{Lits: learned, Learned: true}
	clause.SetLBD(c.computeLBD(learned))
	return clause, backtrackLevel
}

// reasonOf resolves the reason for lit's assertion, normalized so that every
// returned literal is currently TRUE: clause antecedents are stored as the
// (false) clause literals and get negated here, while propagator CalcReason
// already returns the true premise literals directly. The analysis loop
// above relies on this normal form — it negates each reason literal exactly
// once when building the learned clause. For a conflict (lit == LitUndef),
// clause/prop come from the conflicting clause or the propagator reporting
// false.
func (c *CDCLSolver) reasonOf(reason *Clause, prop Propagator, lit Lit) []Lit {
	if prop != nil {
		return prop.CalcReason(c, lit)
	}
	if reason == nil {
		return nil
	}
	out := make([]Lit, 0, len(reason.Lits))
	for _, l := range reason.Lits {
		if l != lit {
			out = append(out, l.Not())
		}
	}
	return out
}

// computeLBD counts the number of distinct decision levels represented in
// a clause's literals — the "glue" metric a clause database tiers learned
// clauses by (sat/types.go Clause.SetLBD).
func (c *CDCLSolver) computeLBD(lits []Lit) int {
	seen := make(map[int]bool, len(lits))
	for _, l := range lits {
		seen[c.trail.Level(l.Var())] = true
	}
	return len(seen)
}
