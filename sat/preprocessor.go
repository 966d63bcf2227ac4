package sat

// Preprocess runs a Preprocessor to a fixed point over c's level-0 clauses.
// Must be called before the first Solve() and after all AddClause calls
// feeding the initial encoder output; propagator-added clauses arrive later
// via AddWatch/Enqueue and are untouched by this pass.
// Returns false if unit propagation or the recovered parity (XOR) system
// shows the input unsatisfiable.
func (c *CDCLSolver) Preprocess() bool {
	return (&Preprocessor{}).Run(c, 10)
}

// Preprocessor simplifies the input clause set before search begins: unit
// propagation, XOR recovery, pure-literal elimination, and subsumption. It
// works directly over *CDCLSolver's own clause list rather than a CNF
// copy, since the clauses already live watch-indexed inside the solver.
type Preprocessor struct {
	roundsRun      int
	fixed          int64
	eliminatedPure int64
	subsumed       int64
}

// Run simplifies solver's level-0 input clauses to a fixed point (bounded
// at maxRounds), returning false if it discovers an empty clause
// (unsatisfiable by unit propagation alone) or an inconsistent recovered
// parity system. Must be called before the first Solve(), while the solver
// is at decision level 0 with no decisions made.
func (p *Preprocessor) Run(s *CDCLSolver, maxRounds int) bool {
	if maxRounds <= 0 {
		maxRounds = 10
	}
	for round := 0; round < maxRounds; round++ {
		p.roundsRun++
		changedUnit := p.unitPropagate(s)
		if !changedUnit.ok {
			return false
		}
		changedXOR, ok := p.recoverXORs(s)
		if !ok {
			return false
		}
		changedPure := p.eliminatePureLiterals(s)
		changedSub := p.subsume(s)
		if !changedUnit.changed && !changedXOR && !changedPure && !changedSub {
			break
		}
	}
	return true
}

type unitResult struct {
	changed bool
	ok      bool
}

// unitPropagate scans for unit clauses among s.clauses and asserts them at
// level 0, drops any clause already satisfied by a level-0 assignment, and
// strengthens clauses containing a falsified literal.
func (p *Preprocessor) unitPropagate(s *CDCLSolver) unitResult {
	changed := false
	kept := s.clauses[:0]
	for _, cl := range s.clauses {
		satisfied := false
		lits := cl.Lits[:0:0]
		for _, l := range cl.Lits {
			v := s.litValue(l)
			switch v {
			case LTrue:
				satisfied = true
			case LFalse:
				changed = true
			default:
				lits = append(lits, l)
			}
		}
		if satisfied {
			changed = true
			continue
		}
		if len(lits) == 0 {
			return unitResult{changed: true, ok: false}
		}
		cl.Lits = lits
		if len(lits) == 1 {
			p.fixed++
			changed = true
			if s.litValue(lits[0]) == LUnknown {
				s.trail.Push(lits[0], nil, nil)
				s.pending = append(s.pending, lits[0])
			}
			continue // unit clauses are asserted, not kept as clauses
		}
		kept = append(kept, cl)
	}
	s.clauses = kept
	rewatchAll(s)
	return unitResult{changed: changed, ok: true}
}

// rewatchAll rebuilds the two-watched-literal index from scratch, used
// after the preprocessor rewrites or drops clauses out from under it.
// Learned clauses are re-indexed too, so the rebuild stays safe even if a
// caller runs preprocessing between solving cycles.
func rewatchAll(s *CDCLSolver) {
	for i := range s.clauseWatches {
		s.clauseWatches[i] = nil
	}
	for _, cl := range s.clauses {
		s.watchClause(cl)
	}
	for _, cl := range s.learned {
		s.watchClause(cl)
	}
}

// eliminatePureLiterals fixes any variable that appears in only one
// polarity across the remaining input clauses — such a variable can always
// be satisfied by choosing that polarity, so it is asserted at level 0 and
// its clauses dropped. Fixing a pure variable preserves the model set
// projected onto every OTHER variable, but not onto the variable itself, so
// frozen variables (the ones a caller can observe) are skipped; and it
// reasons over clauses only, so the pass is skipped entirely once custom
// propagators constrain variables the clause set never mentions.
func (p *Preprocessor) eliminatePureLiterals(s *CDCLSolver) bool {
	if len(s.propagators) > 0 {
		return false
	}
	seenPos := make([]bool, s.numVars)
	seenNeg := make([]bool, s.numVars)
	for _, cl := range s.clauses {
		for _, l := range cl.Lits {
			if l.Negated() {
				seenNeg[l.Var()] = true
			} else {
				seenPos[l.Var()] = true
			}
		}
	}
	changed := false
	for v := 0; v < s.numVars; v++ {
		if s.trail.IsAssigned(Var(v)) || s.isFrozen(Var(v)) {
			continue
		}
		if seenPos[v] && !seenNeg[v] {
			s.trail.Push(MkLit(Var(v), false), nil, nil)
			s.pending = append(s.pending, MkLit(Var(v), false))
			p.eliminatedPure++
			changed = true
		} else if seenNeg[v] && !seenPos[v] {
			s.trail.Push(MkLit(Var(v), true), nil, nil)
			s.pending = append(s.pending, MkLit(Var(v), true))
			p.eliminatedPure++
			changed = true
		}
	}
	// Satisfied clauses are swept up by the next round's unitPropagate;
	// asserting a pure literal can never falsify a clause, so no conflict
	// can arise from this pass.
	return changed
}

// subsume drops any clause that is a superset of another (syntactic
// subsumption only — no self-subsuming resolution). A length check
// before the set comparison skips candidates that can't possibly be
// supersets.
func (p *Preprocessor) subsume(s *CDCLSolver) bool {
	n := len(s.clauses)
	if n < 2 {
		return false
	}
	removed := make([]bool, n)
	changed := false
	for i := 0; i < n; i++ {
		if removed[i] {
			continue
		}
		small := litSet(s.clauses[i].Lits)
		for j := 0; j < n; j++ {
			if i == j || removed[j] {
				continue
			}
			if len(s.clauses[j].Lits) < len(s.clauses[i].Lits) {
				continue
			}
			if subsetOf(small, s.clauses[j].Lits) {
				removed[j] = true
				changed = true
			}
		}
	}
	if !changed {
		return false
	}
	kept := make([]*Clause, 0, n)
	for i, cl := range s.clauses {
		if !removed[i] {
			kept = append(kept, cl)
		}
	}
	s.clauses = kept
	rewatchAll(s)
	p.subsumed += int64(n - len(kept))
	return true
}

// recoverXORs scans the binary clauses for complementary pairs encoding a
// two-variable parity — (x∨y)∧(¬x∨¬y) is x⊕y=1, (x∨¬y)∧(¬x∨y) is x⊕y=0 —
// feeds the recovered system through GaussianEliminator together with the
// current level-0 assignments, and asserts every variable the elimination
// forces. Equivalence chains that unit propagation alone cannot collapse
// (x⊕y=1, y⊕z=1, x⊕z=1) fall out here as root-level conflicts or facts.
func (p *Preprocessor) recoverXORs(s *CDCLSolver) (changed bool, ok bool) {
	type pair struct{ a, b Var }
	parity := make(map[pair]map[[2]bool]bool)
	for _, cl := range s.clauses {
		if len(cl.Lits) != 2 {
			continue
		}
		l0, l1 := cl.Lits[0], cl.Lits[1]
		if l0.Var() == l1.Var() {
			continue
		}
		if l0.Var() > l1.Var() {
			l0, l1 = l1, l0
		}
		key := pair{l0.Var(), l1.Var()}
		if parity[key] == nil {
			parity[key] = make(map[[2]bool]bool)
		}
		parity[key][[2]bool{l0.Negated(), l1.Negated()}] = true
	}

	var system []XORClause
	for key, signs := range parity {
		if signs[[2]bool{false, false}] && signs[[2]bool{true, true}] {
			system = append(system, XORClause{Vars: []Var{key.a, key.b}, RHS: true})
		}
		if signs[[2]bool{false, true}] && signs[[2]bool{true, false}] {
			system = append(system, XORClause{Vars: []Var{key.a, key.b}, RHS: false})
		}
	}
	if len(system) == 0 {
		return false, true
	}

	fixed := make(map[Var]bool)
	for v := 0; v < s.numVars; v++ {
		switch s.trail.Value(Var(v)) {
		case LTrue:
			fixed[Var(v)] = true
		case LFalse:
			fixed[Var(v)] = false
		}
	}

	forced, consistent := NewGaussianEliminator().Eliminate(system, fixed)
	if !consistent {
		return true, false
	}
	for v, val := range forced {
		lit := MkLit(v, !val)
		if s.litValue(lit) == LUnknown {
			s.trail.Push(lit, nil, nil)
			s.pending = append(s.pending, lit)
			changed = true
		}
	}
	if changed {
		if res := p.unitPropagate(s); !res.ok {
			return true, false
		}
	}
	return changed, true
}

func litSet(lits []Lit) map[Lit]bool {
	m := make(map[Lit]bool, len(lits))
	for _, l := range lits {
		m[l] = true
	}
	return m
}

func subsetOf(small map[Lit]bool, big []Lit) bool {
	bigSet := litSet(big)
	for l := range small {
		if !bigSet[l] {
			return false
		}
	}
	return true
}
