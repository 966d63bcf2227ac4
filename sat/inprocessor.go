package sat

// Inprocessor periodically simplifies the learned-clause database between
// solving cycles. Only vivification and subsumption run here: both only
// ever shrink or drop clauses, so they stay safe between restarts, whereas
// bounded variable elimination and failed-literal probing would need
// resolvent re-derivation or probing hooks outside decision level 0 that
// CDCLSolver does not expose.
type Inprocessor struct {
	stats InprocessStatistics
}

// InprocessStatistics aggregates counters for the two retained
// techniques.
type InprocessStatistics struct {
	ClausesVivified int64
	LiteralsRemoved int64
	ClausesSubsumed int64
	Runs            int64
}

func NewInprocessor() *Inprocessor {
	return &Inprocessor{}
}

func (p *Inprocessor) Stats() InprocessStatistics { return p.stats }

// ShouldRun reports whether enough conflicts have accumulated to justify
// another pass, following a conflict-frequency gate.
func (p *Inprocessor) ShouldRun(conflictsSinceLast int64) bool {
	return conflictsSinceLast >= 2000
}

// Run vivifies and subsumes s's learned clauses. Only safe to call at
// decision level 0, between solving cycles (e.g. right after a restart).
func (p *Inprocessor) Run(s *CDCLSolver) {
	p.stats.Runs++
	p.vivify(s)
	p.subsumeLearned(s)
}

// vivify drops any literal beyond a clause's two watched slots that is
// already false at decision level 0 — such a literal can never again
// satisfy the clause, so removing it only strengthens it. Restricted to
// indices >= 2 so the two-watched-literal invariant on indices 0 and 1
// never needs re-establishing.
func (p *Inprocessor) vivify(s *CDCLSolver) {
	for _, cl := range s.learned {
		if len(cl.Lits) <= 2 {
			continue
		}
		kept := cl.Lits[:2:2]
		shrank := false
		for _, l := range cl.Lits[2:] {
			if s.trail.IsAssigned(l.Var()) && s.trail.Level(l.Var()) == 0 && s.litValue(l) == LFalse {
				p.stats.LiteralsRemoved++
				shrank = true
				continue
			}
			kept = append(kept, l)
		}
		if shrank {
			cl.Lits = kept
			p.stats.ClausesVivified++
		}
	}
}

// subsumeLearned drops any learned clause that is a syntactic superset of
// another learned or input clause, reusing the preprocessor's subsumption
// primitives over the combined clause set.
func (p *Inprocessor) subsumeLearned(s *CDCLSolver) {
	all := make([]*Clause, 0, len(s.clauses)+len(s.learned))
	all = append(all, s.clauses...)
	all = append(all, s.learned...)
	removed := make(map[*Clause]bool)
	for i, a := range all {
		if removed[a] {
			continue
		}
		small := litSet(a.Lits)
		for j, b := range all {
			if i == j || removed[b] || !b.Learned {
				continue
			}
			if len(b.Lits) >= len(a.Lits) && subsetOf(small, b.Lits) {
				removed[b] = true
			}
		}
	}
	if len(removed) == 0 {
		return
	}
	kept := make([]*Clause, 0, len(s.learned))
	for _, cl := range s.learned {
		if removed[cl] {
			s.unwatchClause(cl)
			p.stats.ClausesSubsumed++
			continue
		}
		kept = append(kept, cl)
	}
	s.learned = kept
}
