package sat

import "github.com/bits-and-blooms/bitset"

// varInfo is the per-variable bookkeeping the trail maintains: current
// value, decision level, and the reason clause (nil for decisions and for
// literals asserted by a custom propagator).
type varInfo struct {
	value  LBool
	level  int32
	reason *Clause
	// propReason, when reason is nil and value != LUnknown, names the
	// propagator that asserted this literal (for CalcReason dispatch);
	// nil for ordinary decisions and clause-driven propagations.
	propReason Propagator
}

// DecisionTrail records the chronological order of assignments and
// per-variable level/reason, keyed by dense Var and backed by a
// bitset.BitSet for "is assigned" queries instead of a map.
type DecisionTrail struct {
	lits        []Lit
	info        []varInfo
	levelStarts []int // index into lits where each decision level begins
	assigned    *bitset.BitSet
}

// NewDecisionTrail allocates a trail sized for numVars variables.
func NewDecisionTrail(numVars int) *DecisionTrail {
	info := make([]varInfo, numVars)
	for i := range info {
		info[i].value = LUnknown
	}
	return &DecisionTrail{
		info:        info,
		levelStarts: []int{0},
		assigned:    bitset.New(uint(numVars)),
	}
}

// Grow extends the trail to cover a newly allocated variable.
func (t *DecisionTrail) Grow() {
	t.info = append(t.info, varInfo{value: LUnknown})
	if uint(len(t.info)) > t.assigned.Len() {
		nb := bitset.New(uint(len(t.info)))
		nb.InPlaceUnion(t.assigned)
		t.assigned = nb
	}
}

func (t *DecisionTrail) Value(v Var) LBool { return t.info[v].value }

func (t *DecisionTrail) IsAssigned(v Var) bool { return t.assigned.Test(uint(v)) }

func (t *DecisionTrail) Level(v Var) int { return int(t.info[v].level) }

func (t *DecisionTrail) Reason(v Var) *Clause { return t.info[v].reason }

func (t *DecisionTrail) PropagatorReason(v Var) Propagator { return t.info[v].propReason }

// CurrentLevel returns the active decision level (0 = root).
func (t *DecisionTrail) CurrentLevel() int { return len(t.levelStarts) - 1 }

// NewDecisionLevel opens a fresh decision level.
func (t *DecisionTrail) NewDecisionLevel() {
	t.levelStarts = append(t.levelStarts, len(t.lits))
}

// Push records lit as newly assigned true at the current decision level.
func (t *DecisionTrail) Push(lit Lit, reason *Clause, prop Propagator) {
	v := lit.Var()
	value := LTrue
	if lit.Negated() {
		value = LFalse
	}
	t.info[v] = varInfo{value: value, level: int32(t.CurrentLevel()), reason: reason, propReason: prop}
	t.assigned.Set(uint(v))
	t.lits = append(t.lits, lit)
}

// Lits returns the trail's literals in assignment order.
func (t *DecisionTrail) Lits() []Lit { return t.lits }

// Len returns the number of assigned literals.
func (t *DecisionTrail) Len() int { return len(t.lits) }

// Backtrack undoes every assignment made at a decision level above level,
// returning the undone literals in reverse (most-recent-first) order so
// callers (propagator Undo, in LIFO order) can replay them directly.
func (t *DecisionTrail) Backtrack(level int) []Lit {
	if level >= t.CurrentLevel() {
		return nil
	}
	start := t.levelStarts[level+1]
	undone := make([]Lit, 0, len(t.lits)-start)
	for i := len(t.lits) - 1; i >= start; i-- {
		lit := t.lits[i]
		undone = append(undone, lit)
		t.info[lit.Var()] = varInfo{value: LUnknown}
		t.assigned.Clear(uint(lit.Var()))
	}
	t.lits = t.lits[:start]
	t.levelStarts = t.levelStarts[:level+1]
	return undone
}
