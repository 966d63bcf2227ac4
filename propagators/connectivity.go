package propagators

import "github.com/xDarkicex/cspcore/sat"

// Edge is an edge between two positions in a propagator's own vertex list
// (not NormCSP or SAT variable indices).
type Edge struct {
	U, V int
}

// ActiveVerticesConnectedPropagator enforces that every vertex whose
// activity literal is true lies in a single connected component of the
// graph induced by active vertices, following a design analogous to
// graph-division: watched literals, reasons recorded at propagation time,
// batched analysis. Unlike GraphDivisionPropagator it tracks a single
// region, not a partition; like it, its analysis recomputes the
// decided/potential views on every notification rather than maintaining
// incremental union-find state — adequate for puzzle-sized graphs and
// simpler to reason about correctly.
type ActiveVerticesConnectedPropagator struct {
	active []sat.Lit
	adj    [][]int

	reasons        map[sat.Lit][]sat.Lit
	conflictReason []sat.Lit
}

func NewActiveVerticesConnectedPropagator(active []sat.Lit, edges []Edge) *ActiveVerticesConnectedPropagator {
	p := &ActiveVerticesConnectedPropagator{
		active:  active,
		adj:     make([][]int, len(active)),
		reasons: make(map[sat.Lit][]sat.Lit),
	}
	for _, e := range edges {
		p.adj[e.U] = append(p.adj[e.U], e.V)
		p.adj[e.V] = append(p.adj[e.V], e.U)
	}
	return p
}

func (p *ActiveVerticesConnectedPropagator) Name() string { return "active_vertices_connected" }

func (p *ActiveVerticesConnectedPropagator) LazyPropagation() bool { return true }

func (p *ActiveVerticesConnectedPropagator) Initialize(solver sat.Backend) bool {
	for _, lit := range p.active {
		solver.AddWatch(p, lit)
		solver.AddWatch(p, lit.Not())
	}
	return p.analyze(solver)
}

func (p *ActiveVerticesConnectedPropagator) Propagate(solver sat.Backend, lit sat.Lit, numPending int) bool {
	if numPending > 0 {
		return true
	}
	return p.analyze(solver)
}

// analyze rebuilds the decided (true-only) and potential (true-or-unknown)
// induced subgraphs and enforces that every decided-active vertex can still
// reach every other one, forcing bridging unknowns true when they are the
// sole remaining connector (the same rule set as graph division, specialized
// to a single required region rather than a full partition).
func (p *ActiveVerticesConnectedPropagator) analyze(solver sat.Backend) bool {
	n := len(p.active)
	potential := newUnionFind(n)
	for u := range p.adj {
		if p.lbool(solver, u) == sat.LFalse {
			continue
		}
		for _, v := range p.adj[u] {
			if p.lbool(solver, v) == sat.LFalse {
				continue
			}
			potential.union(u, v)
		}
	}

	var decided []int
	for v := range p.active {
		if p.lbool(solver, v) == sat.LTrue {
			decided = append(decided, v)
		}
	}
	if len(decided) == 0 {
		return true
	}
	root := potential.find(decided[0])
	for _, v := range decided[1:] {
		if potential.find(v) != root {
			p.conflictReason = p.snapshot(solver)
			return false
		}
	}

	for v := range p.active {
		if p.lbool(solver, v) != sat.LUnknown {
			continue
		}
		withoutV := newUnionFind(n)
		for u := range p.adj {
			if u == v || p.lbool(solver, u) == sat.LFalse {
				continue
			}
			for _, w := range p.adj[u] {
				if w == v || p.lbool(solver, w) == sat.LFalse {
					continue
				}
				withoutV.union(u, w)
			}
		}
		required := false
		for _, d := range decided[1:] {
			if withoutV.find(d) != withoutV.find(decided[0]) {
				required = true
				break
			}
		}
		if required {
			reason := p.snapshot(solver)
			if !solver.Enqueue(p.active[v], p) {
				p.conflictReason = p.snapshot(solver)
				return false
			}
			p.reasons[p.active[v]] = reason
		}
	}
	return true
}

func (p *ActiveVerticesConnectedPropagator) lbool(solver sat.Backend, idx int) sat.LBool {
	return solver.Value(p.active[idx].Var())
}

// snapshot collects every decided-active and decided-inactive literal at
// this instant: together they are the premise that makes a bridging vertex
// necessary, or the configuration unsatisfiable (a coarser-than-minimal but
// sound reason). Recorded before each Enqueue so the reason only ever cites
// literals already true when the propagation fired.
func (p *ActiveVerticesConnectedPropagator) snapshot(solver sat.Backend) []sat.Lit {
	var reason []sat.Lit
	for _, lit := range p.active {
		switch solver.Value(lit.Var()) {
		case sat.LTrue:
			reason = append(reason, lit)
		case sat.LFalse:
			reason = append(reason, lit.Not())
		}
	}
	return reason
}

// CalcReason replays the premise recorded when forLit was enqueued, or the
// conflict-time snapshot when called for the conflict itself.
func (p *ActiveVerticesConnectedPropagator) CalcReason(solver sat.Backend, forLit sat.Lit) []sat.Lit {
	if forLit == sat.LitUndef {
		return p.conflictReason
	}
	return p.reasons[forLit]
}

func (p *ActiveVerticesConnectedPropagator) Undo(solver sat.Backend, lit sat.Lit) {}
