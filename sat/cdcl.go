package sat

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/rs/zerolog"
)

// watcher binds a clause to one of its two watched literals' watch list
// entries.
type watcher struct {
	clause  *Clause
	blocker Lit // a literal that, when true, satisfies the clause; skips a lookup
}

// CDCLSolver implements the Backend contract: two-watched-literal Boolean
// constraint propagation, VSIDS decisions with phase saving, First-UIP
// conflict-driven clause learning with LBD-based clause tiering, Luby
// restarts, and custom-propagator watches/enqueue/undo threaded through
// the main propagate / analyze / backtrack / restart / delete loop.
type CDCLSolver struct {
	numVars int
	clauses []*Clause
	learned []*Clause
	nextID  int64

	clauseWatches [][]watcher // indexed by Lit (2*numVars entries)
	propWatches   [][]Propagator

	trail    *DecisionTrail
	vsids    *VSIDSHeuristic
	restarts *RestartSchedule
	inproc   *Inprocessor

	propagators  []Propagator
	polarityHint []LBool
	frozen       *bitset.BitSet

	// pending holds literals asserted since the last propagate() call
	// drained the trail.
	pending []Lit

	conflictsThisCycle     int64
	conflictsSinceSimplify int64
	stats                  SolverStatistics

	logger zerolog.Logger
}

// NewCDCLSolver constructs an empty solver.
func NewCDCLSolver(logger zerolog.Logger) *CDCLSolver {
	return &CDCLSolver{
		trail:    NewDecisionTrail(0),
		vsids:    newVSIDSHeuristic(0),
		restarts: NewRestartSchedule(100),
		inproc:   NewInprocessor(),
		frozen:   bitset.New(0),
		logger:   logger,
	}
}

// SeedActivities perturbs the initial VSIDS activities from seed so that
// otherwise-tied decision variables break ties differently run to run.
// Call before the first Solve; a zero seed is a no-op (the default
// all-zero-activity order).
func (c *CDCLSolver) SeedActivities(seed int64) {
	if seed == 0 {
		return
	}
	c.vsids.seedActivities(seed)
}

// FreezeVar excludes v from preprocessing steps that preserve
// satisfiability but not the model set projected onto v (pure-literal
// elimination). The facade freezes every variable a caller can observe
// through the mapping tables.
func (c *CDCLSolver) FreezeVar(v Var) {
	c.frozen.Set(uint(v))
}

func (c *CDCLSolver) isFrozen(v Var) bool { return c.frozen.Test(uint(v)) }

func (c *CDCLSolver) NewVar() Var {
	v := Var(c.numVars)
	c.numVars++
	c.trail.Grow()
	c.vsids.grow()
	c.clauseWatches = append(c.clauseWatches, nil, nil)
	c.propWatches = append(c.propWatches, nil, nil)
	c.polarityHint = append(c.polarityHint, LUnknown)
	return v
}

func (c *CDCLSolver) NewLit(v Var, negated bool) Lit { return MkLit(v, negated) }

func (c *CDCLSolver) Stats() SolverStatistics { return c.stats }

func (c *CDCLSolver) Value(v Var) LBool { return c.trail.Value(v) }

func (c *CDCLSolver) litValue(l Lit) LBool {
	v := c.trail.Value(l.Var())
	if v == LUnknown {
		return LUnknown
	}
	if l.Negated() {
		if v == LTrue {
			return LFalse
		}
		return LTrue
	}
	return v
}

func (c *CDCLSolver) IsCurrentLevel(v Var) bool {
	return c.trail.IsAssigned(v) && c.trail.Level(v) == c.trail.CurrentLevel()
}

func (c *CDCLSolver) SetPolarityHint(lit Lit) {
	if lit.Negated() {
		c.polarityHint[lit.Var()] = LFalse
	} else {
		c.polarityHint[lit.Var()] = LTrue
	}
}

// AddClause adds an input clause. The clause is first simplified against
// decision-level-0 assignments: a literal true at level 0 satisfies the
// whole clause, a literal false at level 0 is dropped. Surviving unit
// clauses are asserted at level 0 — backtracking there first if the caller
// adds clauses between Solve calls while a model's trail is still standing.
// An empty clause, or one already falsified at level 0, reports
// unsatisfiability by returning false.
func (c *CDCLSolver) AddClause(lits ...Lit) bool {
	if len(lits) == 0 {
		return false
	}
	uniq := dedupeLits(lits)
	if uniq == nil {
		return true // tautology (p and -p both present)
	}
	kept := uniq[:0]
	for _, l := range uniq {
		switch c.litValue(l) {
		case LTrue:
			if c.trail.Level(l.Var()) == 0 {
				return true // already satisfied forever
			}
			kept = append(kept, l)
		case LFalse:
			if c.trail.Level(l.Var()) == 0 {
				continue // can never satisfy the clause
			}
			kept = append(kept, l)
		default:
			kept = append(kept, l)
		}
	}
	if len(kept) == 0 {
		return false
	}
	if len(kept) == 1 {
		c.backtrackTo(0)
		switch c.litValue(kept[0]) {
		case LFalse:
			return false
		case LUnknown:
			c.trail.Push(kept[0], nil, nil)
			c.enqueueUnit(kept[0])
		}
		return true
	}
	cl := NewClause(kept...)
	cl.ID = c.nextID
	c.nextID++
	c.clauses = append(c.clauses, cl)
	c.watchClause(cl)
	return true
}

func dedupeLits(lits []Lit) []Lit {
	seen := make(map[Lit]bool, len(lits))
	out := make([]Lit, 0, len(lits))
	for _, l := range lits {
		if seen[l.Not()] {
			return nil
		}
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}

func (c *CDCLSolver) watchClause(cl *Clause) {
	if len(cl.Lits) < 2 {
		return
	}
	w0 := watcher{clause: cl, blocker: cl.Lits[1]}
	w1 := watcher{clause: cl, blocker: cl.Lits[0]}
	c.clauseWatches[cl.Lits[0].Not()] = append(c.clauseWatches[cl.Lits[0].Not()], w0)
	c.clauseWatches[cl.Lits[1].Not()] = append(c.clauseWatches[cl.Lits[1].Not()], w1)
}

// enqueueUnit queues a unit assertion made outside the main propagate loop
// (e.g. by AddClause at level 0) for the next propagate() call.
func (c *CDCLSolver) enqueueUnit(lit Lit) {
	c.pending = append(c.pending, lit)
}

func (c *CDCLSolver) AddWatch(p Propagator, lit Lit) {
	c.propWatches[lit] = append(c.propWatches[lit], p)
}

func (c *CDCLSolver) Enqueue(lit Lit, p Propagator) bool {
	v := c.litValue(lit)
	if v == LTrue {
		return true
	}
	if v == LFalse {
		return false
	}
	c.trail.Push(lit, nil, p)
	c.pending = append(c.pending, lit)
	return true
}

func (c *CDCLSolver) AddPropagator(p Propagator) bool {
	c.propagators = append(c.propagators, p)
	return p.Initialize(c)
}

// Solve runs the CDCL main loop to completion, blocking until the SAT
// engine terminates. Repeated calls are incremental: each one starts by
// backtracking to level 0 (keeping root-level facts and every clause,
// including ones added since the last call) and searches again.
func (c *CDCLSolver) Solve() bool {
	c.backtrackTo(0)
	c.logger.Debug().Int("vars", c.numVars).Int("clauses", len(c.clauses)).Msg("sat: solve start")
	for {
		conflict, _, confProp := c.propagate()
		if conflict != nil || confProp != nil {
			if !c.handleConflict(conflict, confProp) {
				return false
			}
			continue
		}
		branch, ok := c.pickBranchVar()
		if !ok {
			// Every variable is assigned; a lazy propagator whose batched
			// analysis was cut short by an unrelated conflict may still
			// hold an undetected theory violation, so the candidate model
			// is checked once more before being accepted.
			if p := c.finalTheoryCheck(); p != nil {
				// The violation may predate the current decision level
				// entirely; conflict analysis needs the premise's newest
				// literal to sit at the current level, so first backjump
				// to where the conflict actually formed.
				level := c.reasonLevel(p.CalcReason(c, LitUndef))
				if level == 0 {
					c.logger.Debug().Msg("sat: unsat at level 0")
					return false
				}
				if level < c.trail.CurrentLevel() {
					c.backtrackTo(level)
				}
				if !c.handleConflict(nil, p) {
					return false
				}
				continue
			}
			c.logger.Debug().Msg("sat: sat")
			return true
		}
		c.trail.NewDecisionLevel()
		polarity := c.decidePolarity(branch)
		c.stats.Decisions++
		lit := MkLit(branch, polarity)
		c.trail.Push(lit, nil, nil)
		c.pending = append(c.pending, lit)
	}
}

// handleConflict runs conflict analysis, backtracking, clause learning, and
// the restart/simplify/deletion schedule for one conflict. Returns false
// when the conflict proves the instance unsatisfiable (conflict at level 0).
func (c *CDCLSolver) handleConflict(conflict *Clause, confProp Propagator) bool {
	c.stats.Conflicts++
	c.conflictsThisCycle++
	c.conflictsSinceSimplify++
	if c.trail.CurrentLevel() == 0 {
		c.logger.Debug().Msg("sat: unsat at level 0")
		return false
	}
	learned, backLevel := c.analyzeConflict(conflict, confProp)
	c.backtrackTo(backLevel)
	c.recordLearned(learned)
	c.vsids.decayActivity()
	if c.restarts.ShouldRestart(c.conflictsThisCycle) {
		c.backtrackTo(0)
		c.restarts.OnRestart()
		c.conflictsThisCycle = 0
		c.stats.Restarts++
		c.logger.Debug().Int64("restarts", c.stats.Restarts).Msg("sat: restart")
		if c.inproc.ShouldRun(c.conflictsSinceSimplify) {
			c.inproc.Run(c)
			c.conflictsSinceSimplify = 0
		}
	}
	if len(c.learned) > 2000+len(c.clauses) {
		c.reduceLearned()
	}
	return true
}

// reasonLevel returns the highest decision level among the reason's
// literals — the level a theory conflict actually formed at.
func (c *CDCLSolver) reasonLevel(reason []Lit) int {
	level := 0
	for _, l := range reason {
		if lv := c.trail.Level(l.Var()); lv > level {
			level = lv
		}
	}
	return level
}

// finalTheoryCheck re-runs every propagator's analysis against the full
// assignment, returning the first one reporting a violation (its conflict
// reason becomes the premise for the learned clause), or nil when the
// model stands.
func (c *CDCLSolver) finalTheoryCheck() Propagator {
	for _, p := range c.propagators {
		c.stats.PropagatorCalls++
		if !p.Propagate(c, LitUndef, 0) {
			return p
		}
	}
	return nil
}

func (c *CDCLSolver) decidePolarity(v Var) bool {
	switch c.polarityHint[v] {
	case LTrue:
		return false
	case LFalse:
		return true
	}
	switch c.vsids.phase[v] {
	case LFalse:
		return true
	default:
		return false
	}
}

func (c *CDCLSolver) pickBranchVar() (Var, bool) {
	return c.vsids.pickBranchVar(func(v Var) bool { return c.trail.IsAssigned(v) })
}

// propagate drains pending assignments through both clause BCP (two-
// watched-literal scheme) and registered propagators' watch lists, running
// theory callbacks synchronously inside the SAT engine's propagate loop.
// Returns the conflicting clause and/or propagator when one fires.
func (c *CDCLSolver) propagate() (*Clause, Lit, Propagator) {
	head := 0
	for head < len(c.pending) {
		lit := c.pending[head]
		head++
		if c.litValue(lit) != LTrue {
			continue // stale entry, unassigned by a backtrack before this drain
		}
		c.vsids.setPhase(lit.Var(), lit.Negated())

		// Clause watches: clauses that watch ¬lit.
		ws := c.clauseWatches[lit]
		kept := ws[:0]
		for i := 0; i < len(ws); i++ {
			w := ws[i]
			if c.litValue(w.blocker) == LTrue {
				kept = append(kept, w)
				continue
			}
			newWatch, unit, conflict := c.reviseWatch(w.clause, lit)
			if conflict {
				kept = append(kept, ws[i:]...)
				c.clauseWatches[lit] = kept
				c.pending = c.pending[:0]
				return w.clause, LitUndef, nil
			}
			if newWatch != LitUndef {
				c.clauseWatches[newWatch] = append(c.clauseWatches[newWatch], watcher{clause: w.clause, blocker: w.clause.Lits[0]})
				continue
			}
			kept = append(kept, w)
			if unit != LitUndef {
				c.trail.Push(unit, w.clause, nil)
				c.pending = append(c.pending, unit)
				c.stats.Propagations++
			}
		}
		c.clauseWatches[lit] = kept

		// Propagator watches.
		watchers := c.propWatches[lit]
		for _, p := range watchers {
			numPending := 0
			if lp, ok := p.(LazyPropagator); ok && lp.LazyPropagation() {
				numPending = c.pendingDeliveries(p, head)
			}
			c.stats.PropagatorCalls++
			if !p.Propagate(c, lit, numPending) {
				c.pending = c.pending[:0]
				return nil, lit, p
			}
		}
	}
	c.pending = c.pending[:0]
	return nil, LitUndef, nil
}

// pendingDeliveries counts how many not-yet-drained queue entries will also
// be delivered to p — the batching signal a lazy propagator uses to defer
// its analysis until the last notification of the round. The count can only
// grow while the queue drains (enqueues append), so a zero here is a safe
// "you are last for now".
func (c *CDCLSolver) pendingDeliveries(p Propagator, head int) int {
	n := 0
	for _, lit := range c.pending[head:] {
		if c.litValue(lit) != LTrue {
			continue
		}
		for _, q := range c.propWatches[lit] {
			if q == p {
				n++
				break
			}
		}
	}
	return n
}

// reviseWatch looks for a replacement for the watched clause literal
// falseLit.Not(), which just became false (falseLit is the literal that was
// assigned true and whose watch list is being processed). Returns
// (newWatch, unitLit, conflict); newWatch == LitUndef and unitLit ==
// LitUndef together mean the clause remains satisfied/non-unit under its
// current watches.
func (c *CDCLSolver) reviseWatch(cl *Clause, falseLit Lit) (Lit, Lit, bool) {
	if cl.Lits[0] == falseLit.Not() {
		cl.Lits[0], cl.Lits[1] = cl.Lits[1], cl.Lits[0]
	}
	if c.litValue(cl.Lits[0]) == LTrue {
		return LitUndef, LitUndef, false
	}
	for i := 2; i < len(cl.Lits); i++ {
		if c.litValue(cl.Lits[i]) != LFalse {
			cl.Lits[1], cl.Lits[i] = cl.Lits[i], cl.Lits[1]
			return cl.Lits[1].Not(), LitUndef, false
		}
	}
	if c.litValue(cl.Lits[0]) == LFalse {
		return LitUndef, LitUndef, true
	}
	return LitUndef, cl.Lits[0], false
}

// backtrackTo undoes assignments down to level, most recent first, calling
// Undo on every propagator that watches each undone literal. The pending queue is left alone: entries whose literal got
// unassigned are skipped by propagate(), and root-level units enqueued by
// AddClause between Solve calls must survive the backtrack that starts the
// next search.
func (c *CDCLSolver) backtrackTo(level int) {
	undone := c.trail.Backtrack(level)
	for _, lit := range undone {
		c.vsids.reinsert(lit.Var())
		for _, p := range c.propWatches[lit] {
			p.Undo(c, lit)
		}
	}
}

func (c *CDCLSolver) recordLearned(cl *Clause) {
	cl.ID = c.nextID
	c.nextID++
	c.learned = append(c.learned, cl)
	c.stats.LearnedClauses++
	if len(cl.Lits) == 1 {
		if c.litValue(cl.Lits[0]) == LUnknown {
			c.trail.Push(cl.Lits[0], cl, nil)
			c.pending = append(c.pending, cl.Lits[0])
		}
		return
	}
	c.watchClause(cl)
	// The asserting literal (index 0 after analyzeConflict's swap) is
	// implied at the new decision level; assert it immediately.
	if c.litValue(cl.Lits[0]) == LUnknown {
		c.trail.Push(cl.Lits[0], cl, nil)
		c.pending = append(c.pending, cl.Lits[0])
	}
}

// reduceLearned drops half of the local/mid-tier learned clauses, never
// touching TierCore (LBD<=2, "glue") clauses, which the deletion policy
// treats as permanent.
func (c *CDCLSolver) reduceLearned() {
	keep := make([]*Clause, 0, len(c.learned))
	drop := make([]*Clause, 0)
	for _, cl := range c.learned {
		if cl.Tier == TierCore {
			keep = append(keep, cl)
		} else {
			drop = append(drop, cl)
		}
	}
	half := len(drop) / 2
	for i := 0; i < half; i++ {
		c.unwatchClause(drop[i])
	}
	keep = append(keep, drop[half:]...)
	c.learned = keep
	c.stats.DeletedClauses += int64(half)
	if half > 0 {
		c.logger.Debug().Int("deleted", half).Msg("sat: clause reduction")
	}
}

func (c *CDCLSolver) unwatchClause(cl *Clause) {
	if len(cl.Lits) < 2 {
		return
	}
	for _, base := range []Lit{cl.Lits[0].Not(), cl.Lits[1].Not()} {
		ws := c.clauseWatches[base]
		for i, w := range ws {
			if w.clause == cl {
				c.clauseWatches[base] = append(ws[:i], ws[i+1:]...)
				break
			}
		}
	}
}

