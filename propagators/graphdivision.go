package propagators

import "github.com/xDarkicex/cspcore/sat"

// GraphDivisionMode is stored in GraphDivisionConfig but not consulted:
// both modes run the identical union-find analysis over the caller-supplied
// edge literals.
type GraphDivisionMode int

const (
	RegionSizeMode GraphDivisionMode = iota
	EdgeMode
)

// ValueLit pairs a candidate region-size value with the literal meaning
// "the region containing this vertex has exactly this size".
type ValueLit struct {
	Value int
	Lit   sat.Lit
}

// GraphDivisionConfig is everything the propagator needs at construction
// time, already translated into SAT-level literals by the encoder
// (encoder.emitGraphDivision).
type GraphDivisionConfig struct {
	NumVertices      int
	HasRegionSize    []bool
	SizeLits         [][]ValueLit // per vertex; nil where !HasRegionSize[i]
	Edges            []Edge
	EdgeLits         []sat.Lit // one per edge; true=Connected, false=Disconnected
	Mode             GraphDivisionMode
	AllowEmptyRegion bool
}

// GraphDivisionPropagator partitions vertices into regions along edges
// whose literal is true and enforces that every region-defining vertex's
// declared size matches the final size of the region it ends up in. It
// rebuilds two union-find views on every notification — decided (Connected
// edges only) and potential (Connected ∪ Undecided) — rather than
// maintaining incremental merge state, the same trade-off
// ActiveVerticesConnectedPropagator makes for puzzle-sized graphs
// (propagators/connectivity.go).
type GraphDivisionPropagator struct {
	cfg GraphDivisionConfig
	adj [][]int // vertex -> edge indices

	reasons        map[sat.Lit][]sat.Lit
	conflictReason []sat.Lit
}

func NewGraphDivisionPropagator(cfg GraphDivisionConfig) *GraphDivisionPropagator {
	p := &GraphDivisionPropagator{
		cfg:     cfg,
		adj:     make([][]int, cfg.NumVertices),
		reasons: make(map[sat.Lit][]sat.Lit),
	}
	for i, e := range cfg.Edges {
		p.adj[e.U] = append(p.adj[e.U], i)
		p.adj[e.V] = append(p.adj[e.V], i)
	}
	return p
}

func (p *GraphDivisionPropagator) Name() string { return "graph_division" }

func (p *GraphDivisionPropagator) LazyPropagation() bool { return true }

func (p *GraphDivisionPropagator) Initialize(solver sat.Backend) bool {
	for _, lit := range p.cfg.EdgeLits {
		solver.AddWatch(p, lit)
		solver.AddWatch(p, lit.Not())
	}
	for _, row := range p.cfg.SizeLits {
		for _, vl := range row {
			solver.AddWatch(p, vl.Lit)
			solver.AddWatch(p, vl.Lit.Not())
		}
	}
	return p.analyze(solver)
}

func (p *GraphDivisionPropagator) Propagate(solver sat.Backend, lit sat.Lit, numPending int) bool {
	if numPending > 0 {
		return true
	}
	return p.analyze(solver)
}

func (p *GraphDivisionPropagator) Undo(solver sat.Backend, lit sat.Lit) {}

func (p *GraphDivisionPropagator) edgeState(solver sat.Backend, edgeIdx int) sat.LBool {
	return solver.Value(p.cfg.EdgeLits[edgeIdx].Var())
}

// regionWeights returns, for a union-find partition, the number of vertices
// merged into each root's set (every vertex has weight 1 — the domain model
// does not weight graph-division vertices beyond count).
func (p *GraphDivisionPropagator) regionWeights(uf *unionFind) map[int]int {
	weights := make(map[int]int)
	for v := 0; v < p.cfg.NumVertices; v++ {
		weights[uf.find(v)]++
	}
	return weights
}

// sizeBounds returns vertex v's currently achievable region-size range,
// derived by scanning its ValueLit table for entries not yet falsified —
// the per-vertex lower/upper bounds on region size. With AllowEmptyRegion,
// a vertex whose size-0 candidate is still open imposes no bounds at all:
// its declared region may turn out not to exist.
func (p *GraphDivisionPropagator) sizeBounds(solver sat.Backend, v int) (lo, hi int, ok bool) {
	if !p.cfg.HasRegionSize[v] {
		return 0, 0, false
	}
	row := p.cfg.SizeLits[v]
	lo, hi = -1, -1
	for _, vl := range row {
		if solver.Value(vl.Lit.Var()) == sat.LFalse {
			continue
		}
		if p.cfg.AllowEmptyRegion && vl.Value == 0 {
			return 0, 0, false
		}
		if lo == -1 || vl.Value < lo {
			lo = vl.Value
		}
		if vl.Value > hi {
			hi = vl.Value
		}
	}
	if lo == -1 {
		return 0, 0, false
	}
	return lo, hi, true
}

// regionBounds aggregates the tightest size bounds over a decided region's
// member vertices: the largest member lower bound and the smallest member
// upper bound. hasBound is false when no member declares a size.
type regionBounds struct {
	maxLo, minHi int
	hasBound     bool
}

func (p *GraphDivisionPropagator) decidedRegionBounds(solver sat.Backend, decided *unionFind) map[int]regionBounds {
	bounds := make(map[int]regionBounds)
	for v := 0; v < p.cfg.NumVertices; v++ {
		lo, hi, ok := p.sizeBounds(solver, v)
		if !ok {
			continue
		}
		root := decided.find(v)
		b, seen := bounds[root]
		if !seen {
			bounds[root] = regionBounds{maxLo: lo, minHi: hi, hasBound: true}
			continue
		}
		if lo > b.maxLo {
			b.maxLo = lo
		}
		if hi < b.minHi {
			b.minHi = hi
		}
		bounds[root] = b
	}
	return bounds
}

// analyze rebuilds the decided and potential partitions and enforces the
// five division rules: same-region disconnection (conflict/force-connect),
// separated-region undecided edges forced disconnected, decided-region
// weight vs. member bounds, potential-region lower-bound achievability,
// and mutual bound compatibility within and across regions an undecided
// edge would merge. Closed regions (potential view adds nothing) also pin
// every member's size literal to the region's exact final weight.
func (p *GraphDivisionPropagator) analyze(solver sat.Backend) bool {
	n := p.cfg.NumVertices
	decided := newUnionFind(n)
	potential := newUnionFind(n)
	for i, e := range p.cfg.Edges {
		switch p.edgeState(solver, i) {
		case sat.LTrue:
			decided.union(e.U, e.V)
			potential.union(e.U, e.V)
		case sat.LUnknown:
			potential.union(e.U, e.V)
		}
	}

	// Rule 1: a disconnected edge whose endpoints are already in the same
	// decided region is a conflict; an undecided such edge must be forced
	// Connected.
	for i, e := range p.cfg.Edges {
		if decided.find(e.U) != decided.find(e.V) {
			continue
		}
		switch p.edgeState(solver, i) {
		case sat.LFalse:
			p.conflictReason = p.snapshot(solver)
			return false
		case sat.LUnknown:
			if !p.enqueue(solver, p.cfg.EdgeLits[i]) {
				return false
			}
		}
	}

	decidedWeights := p.regionWeights(decided)
	bounds := p.decidedRegionBounds(solver, decided)

	// Rule 3 (conflict half): a decided region's weight must not exceed its
	// members' tightest upper bound; rule 5 (conflict half): the members'
	// bounds must be mutually compatible.
	for root, b := range bounds {
		if !b.hasBound {
			continue
		}
		if decidedWeights[root] > b.minHi || b.maxLo > b.minHi {
			p.conflictReason = p.snapshot(solver)
			return false
		}
	}

	// Rules 2, 3, 5 (propagation half): an undecided edge bridging two
	// distinct decided regions is forced Disconnected when the regions
	// already face a disconnected edge between them, when merging would
	// overflow the tighter upper bound, or when the merged bound window
	// would be empty.
	for i, e := range p.cfg.Edges {
		if p.edgeState(solver, i) != sat.LUnknown {
			continue
		}
		ru, rv := decided.find(e.U), decided.find(e.V)
		if ru == rv {
			continue
		}
		if p.facesDisconnection(solver, decided, ru, rv) || mergeIncompatible(decidedWeights, bounds, ru, rv) {
			if !p.enqueue(solver, p.cfg.EdgeLits[i].Not()) {
				return false
			}
		}
	}

	// Rule 4 (conflict half): within the potential partition, a vertex's
	// lower bound must still be achievable by its (at-most) final region.
	potentialWeights := p.regionWeights(potential)
	for v := 0; v < n; v++ {
		lo, _, ok := p.sizeBounds(solver, v)
		if !ok {
			continue
		}
		if potentialWeights[potential.find(v)] < lo {
			p.conflictReason = p.snapshot(solver)
			return false
		}
	}

	// Closed regions: when the potential view can add nothing to a decided
	// region, its weight is final, and every member's size is that weight
	// exactly (or the empty-region escape value when allowed).
	for v := 0; v < n; v++ {
		if !p.cfg.HasRegionSize[v] {
			continue
		}
		root := decided.find(v)
		if potentialWeights[potential.find(v)] != decidedWeights[root] {
			continue
		}
		if !p.pinClosedRegionSize(solver, v, decidedWeights[root]) {
			return false
		}
	}

	return true
}

// pinClosedRegionSize falsifies every size candidate of v other than the
// final weight w (keeping 0 as an escape when AllowEmptyRegion), and
// asserts the w candidate when it is the only one left. A row with no
// candidate for w is a conflict.
func (p *GraphDivisionPropagator) pinClosedRegionSize(solver sat.Backend, v, w int) bool {
	hasExact := false
	zeroOpen := false
	for _, vl := range p.cfg.SizeLits[v] {
		if vl.Value == w {
			hasExact = solver.Value(vl.Lit.Var()) != sat.LFalse
			continue
		}
		if p.cfg.AllowEmptyRegion && vl.Value == 0 {
			zeroOpen = solver.Value(vl.Lit.Var()) != sat.LFalse
			continue
		}
		switch solver.Value(vl.Lit.Var()) {
		case sat.LTrue:
			p.conflictReason = p.snapshot(solver)
			return false
		case sat.LUnknown:
			if !p.enqueue(solver, vl.Lit.Not()) {
				return false
			}
		}
	}
	if !hasExact && !zeroOpen {
		p.conflictReason = p.snapshot(solver)
		return false
	}
	if hasExact && !zeroOpen {
		for _, vl := range p.cfg.SizeLits[v] {
			if vl.Value == w && solver.Value(vl.Lit.Var()) == sat.LUnknown {
				if !p.enqueue(solver, vl.Lit) {
					return false
				}
			}
		}
	}
	return true
}

// enqueue asserts lit with a reason snapshot taken just before the
// assertion, recording the conflict snapshot instead if the backend reports
// lit already false.
func (p *GraphDivisionPropagator) enqueue(solver sat.Backend, lit sat.Lit) bool {
	reason := p.snapshot(solver)
	if !solver.Enqueue(lit, p) {
		p.conflictReason = p.snapshot(solver)
		return false
	}
	p.reasons[lit] = reason
	return true
}

// facesDisconnection reports whether any decided-Disconnected edge already
// runs between the regions rooted at ru and rv.
func (p *GraphDivisionPropagator) facesDisconnection(solver sat.Backend, decided *unionFind, ru, rv int) bool {
	for i, e := range p.cfg.Edges {
		if p.edgeState(solver, i) != sat.LFalse {
			continue
		}
		a, b := decided.find(e.U), decided.find(e.V)
		if (a == ru && b == rv) || (a == rv && b == ru) {
			return true
		}
	}
	return false
}

// mergeIncompatible reports whether merging the decided regions rooted at
// ru and rv would push their combined weight past the tighter upper bound,
// or leave the combined members' bound window empty.
func mergeIncompatible(weights map[int]int, bounds map[int]regionBounds, ru, rv int) bool {
	bu, okU := bounds[ru]
	bv, okV := bounds[rv]
	if !okU && !okV {
		return false
	}
	combined := weights[ru] + weights[rv]
	maxLo, minHi := 0, int(^uint(0)>>1)
	for _, b := range []struct {
		rb regionBounds
		ok bool
	}{{bu, okU}, {bv, okV}} {
		if !b.ok {
			continue
		}
		if b.rb.maxLo > maxLo {
			maxLo = b.rb.maxLo
		}
		if b.rb.minHi < minHi {
			minHi = b.rb.minHi
		}
	}
	return combined > minHi || maxLo > minHi
}

// snapshot collects every decided edge literal plus every decided size
// literal: a coarse-but-sound premise for any propagation or conflict the
// analysis derives, traded against computing a minimal tree per reason.
// Recorded before each Enqueue so a reason only ever cites literals
// already true when the propagation fired.
func (p *GraphDivisionPropagator) snapshot(solver sat.Backend) []sat.Lit {
	var reason []sat.Lit
	for _, lit := range p.cfg.EdgeLits {
		switch solver.Value(lit.Var()) {
		case sat.LTrue:
			reason = append(reason, lit)
		case sat.LFalse:
			reason = append(reason, lit.Not())
		}
	}
	for _, row := range p.cfg.SizeLits {
		for _, vl := range row {
			switch solver.Value(vl.Lit.Var()) {
			case sat.LTrue:
				reason = append(reason, vl.Lit)
			case sat.LFalse:
				reason = append(reason, vl.Lit.Not())
			}
		}
	}
	return reason
}

// CalcReason replays the premise recorded when forLit was enqueued, or the
// conflict-time snapshot when called for the conflict itself.
func (p *GraphDivisionPropagator) CalcReason(solver sat.Backend, forLit sat.Lit) []sat.Lit {
	if forLit == sat.LitUndef {
		return p.conflictReason
	}
	return p.reasons[forLit]
}
