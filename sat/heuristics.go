package sat

import "container/heap"

// varHeap is a max-heap over variable activity, an index-keyed binary heap
// over the dense Var space — scanning every variable's activity on each
// decision is a cost this structure avoids for puzzle instances with
// hundreds of thousands of variables.
type varHeap struct {
	heap     []Var
	pos      []int // pos[v] = index into heap, or -1 if not present
	activity []float64
}

func newVarHeap(n int) *varHeap {
	pos := make([]int, n)
	for i := range pos {
		pos[i] = -1
	}
	return &varHeap{pos: pos, activity: make([]float64, n)}
}

func (h *varHeap) Len() int { return len(h.heap) }
func (h *varHeap) Less(i, j int) bool {
	return h.activity[h.heap[i]] > h.activity[h.heap[j]]
}
func (h *varHeap) Swap(i, j int) {
	h.heap[i], h.heap[j] = h.heap[j], h.heap[i]
	h.pos[h.heap[i]] = i
	h.pos[h.heap[j]] = j
}
func (h *varHeap) Push(x interface{}) {
	v := x.(Var)
	h.pos[v] = len(h.heap)
	h.heap = append(h.heap, v)
}
func (h *varHeap) Pop() interface{} {
	n := len(h.heap)
	v := h.heap[n-1]
	h.heap = h.heap[:n-1]
	h.pos[v] = -1
	return v
}

func (h *varHeap) grow(n int) {
	for len(h.pos) < n {
		h.pos = append(h.pos, -1)
		h.activity = append(h.activity, 0)
	}
}

func (h *varHeap) contains(v Var) bool { return h.pos[v] >= 0 }

func (h *varHeap) insert(v Var) {
	if !h.contains(v) {
		heap.Push(h, v)
	}
}

func (h *varHeap) update(v Var) {
	if h.contains(v) {
		heap.Fix(h, h.pos[v])
	}
}

func (h *varHeap) popMax() (Var, bool) {
	for h.Len() > 0 {
		v := heap.Pop(h).(Var)
		return v, true
	}
	return VarUndef, false
}

// VSIDSHeuristic is a variable-activity decision heuristic: activity bumps
// on conflict participation, periodic decay, rescale on overflow, backed
// by the varHeap above, plus phase saving (each variable's last assigned
// polarity is re-tried first after a restart).
type VSIDSHeuristic struct {
	order     *varHeap
	increment float64
	decay     float64
	phase     []LBool // last-seen polarity per variable, used as the decision polarity
}

func newVSIDSHeuristic(numVars int) *VSIDSHeuristic {
	h := &VSIDSHeuristic{
		order:     newVarHeap(numVars),
		increment: 1.0,
		decay:     0.95,
		phase:     make([]LBool, numVars),
	}
	for v := 0; v < numVars; v++ {
		h.order.insert(Var(v))
	}
	return h
}

func (h *VSIDSHeuristic) grow() {
	h.order.grow(len(h.phase) + 1)
	h.phase = append(h.phase, LUnknown)
	h.order.insert(Var(len(h.phase) - 1))
}

// bump increases a variable's activity after it participates in conflict
// analysis, rescaling the whole table if it grows too large.
func (h *VSIDSHeuristic) bump(v Var) {
	h.order.activity[v] += h.increment
	if h.order.activity[v] > 1e100 {
		for i := range h.order.activity {
			h.order.activity[i] *= 1e-100
		}
		h.increment *= 1e-100
	}
	h.order.update(v)
}

// decayActivity is called once per conflict.
func (h *VSIDSHeuristic) decayActivity() { h.increment /= h.decay }

// setPhase records the polarity a variable was last assigned, consulted
// when deciding that variable's next polarity.
func (h *VSIDSHeuristic) setPhase(v Var, negated bool) {
	if negated {
		h.phase[v] = LFalse
	} else {
		h.phase[v] = LTrue
	}
}

// pickBranchVar pops the highest-activity variable that is still
// unassigned.
func (h *VSIDSHeuristic) pickBranchVar(assigned func(Var) bool) (Var, bool) {
	for {
		v, ok := h.order.popMax()
		if !ok {
			return VarUndef, false
		}
		if assigned(v) {
			continue
		}
		return v, true
	}
}

func (h *VSIDSHeuristic) reinsert(v Var) {
	h.order.insert(v)
}

// seedActivities assigns each variable a tiny deterministic pseudorandom
// initial activity (xorshift over the seed) so ties between never-bumped
// variables break differently per seed, then restores the heap order. The
// jitter stays far below a single bump so it never outweighs real conflict
// activity.
func (h *VSIDSHeuristic) seedActivities(seed int64) {
	state := uint64(seed)
	if state == 0 {
		state = 1
	}
	for v := range h.order.activity {
		state ^= state << 13
		state ^= state >> 7
		state ^= state << 17
		h.order.activity[v] = float64(state%1024) * 1e-6
	}
	heap.Init(h.order)
}

// lubySequence returns the n-th term of the Luby restart sequence
// 1,1,2,1,1,2,4,1,1,2,1,1,2,4,8,....
func lubySequence(n int64) int64 {
	k := int64(1)
	for k <= n+1 {
		k *= 2
	}
	if n+1 == k-1 {
		return k / 2
	}
	return lubySequence(n - k/2 + 1)
}

// RestartSchedule tracks the Luby-sequence restart threshold.
type RestartSchedule struct {
	unit  int64
	index int64
}

func NewRestartSchedule(unit int64) *RestartSchedule {
	if unit <= 0 {
		unit = 100
	}
	return &RestartSchedule{unit: unit}
}

// ShouldRestart reports whether the current conflict count has reached this
// restart cycle's Luby threshold.
func (r *RestartSchedule) ShouldRestart(conflictsThisCycle int64) bool {
	return conflictsThisCycle >= r.unit*lubySequence(r.index+1)
}

func (r *RestartSchedule) OnRestart() { r.index++ }
