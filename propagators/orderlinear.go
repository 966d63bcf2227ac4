package propagators

import "github.com/xDarkicex/cspcore/sat"

// OrderTerm is one coef*variable term of an order-encoding linear
// propagator, expressed directly in terms of the variable's materialized
// order-encoding literal chain rather than a NormCSP handle, so this
// package stays free of an import on encoder/normcsp.
type OrderTerm struct {
	Values []int     // sorted ascending domain values, len >= 1
	GeLits []sat.Lit // GeLits[i] <=> value >= Values[i+1]; len(GeLits) == len(Values)-1
	Coef   int
}

// OrderEncodingLinearPropagator enforces sum(coef_i * term_i) + Constant <=
// 0 directly over each term's order-encoding chain, without ever
// materializing the cross-product of term domains. It maintains, per term,
// an integer lower bound derived from the currently-decided order literals.
// The encoder registers this as a redundant strengthening alongside the
// ordinary clause form for constraints with many order-encoded terms
// (encoder.literalForLinearLit already covers correctness on its own; this
// propagator only prunes search faster).
type OrderEncodingLinearPropagator struct {
	terms    []OrderTerm
	constant int

	reasons        map[sat.Lit][]sat.Lit
	conflictReason []sat.Lit
}

func NewOrderEncodingLinearPropagator(terms []OrderTerm, constant int) *OrderEncodingLinearPropagator {
	return &OrderEncodingLinearPropagator{terms: terms, constant: constant, reasons: make(map[sat.Lit][]sat.Lit)}
}

func (p *OrderEncodingLinearPropagator) Name() string { return "order_encoding_linear" }

func (p *OrderEncodingLinearPropagator) LazyPropagation() bool { return true }

func (p *OrderEncodingLinearPropagator) Initialize(solver sat.Backend) bool {
	for _, t := range p.terms {
		for _, lit := range t.GeLits {
			solver.AddWatch(p, lit)
			solver.AddWatch(p, lit.Not())
		}
	}
	return p.analyze(solver)
}

func (p *OrderEncodingLinearPropagator) Propagate(solver sat.Backend, lit sat.Lit, numPending int) bool {
	if numPending > 0 {
		return true
	}
	return p.analyze(solver)
}

func (p *OrderEncodingLinearPropagator) Undo(solver sat.Backend, lit sat.Lit) {}

// termBounds returns term t's currently achievable [lo, hi] value range
// given the truth of its GeLits chain (the order-encoding invariant
// l_0 >= l_1 >= ...: the true GeLits are always a prefix from index 0).
func (t OrderTerm) termBounds(solver sat.Backend) (lo, hi int) {
	loIdx := 0
	for loIdx < len(t.GeLits) && solver.Value(t.GeLits[loIdx].Var()) == sat.LTrue {
		loIdx++
	}
	hiIdx := len(t.GeLits)
	for i, lit := range t.GeLits {
		if solver.Value(lit.Var()) == sat.LFalse {
			hiIdx = i
			break
		}
	}
	return t.Values[loIdx], t.Values[hiIdx]
}

// lowerBoundContribution returns the smallest value coef*term can
// currently take: for a positive coefficient that is coef*lo, for a
// negative one coef*hi (standard scalar-multiply sign handling).
func (t OrderTerm) lowerBoundContribution(solver sat.Backend) int {
	lo, hi := t.termBounds(solver)
	if t.Coef >= 0 {
		return t.Coef * lo
	}
	return t.Coef * hi
}

// analyze recomputes the sum's current lower bound from every term's
// per-term lower bound; a lower bound already exceeding zero is a
// conflict, and a term whose next possible step would push the sum over
// zero has that step's literal propagated false (the "excluding literal").
func (p *OrderEncodingLinearPropagator) analyze(solver sat.Backend) bool {
	sum := p.constant
	for _, t := range p.terms {
		sum += t.lowerBoundContribution(solver)
	}
	if sum > 0 {
		p.conflictReason = p.snapshot(solver)
		return false
	}

	slack := -sum
	for _, t := range p.terms {
		if !p.excludeOverflow(solver, t, slack) {
			return false
		}
	}
	return true
}

// excludeOverflow forces false any GeLit of t whose corresponding step
// would, by itself, push the sum's lower bound past the available slack
// (the most t's own contribution can grow before the overall sum exceeds
// zero). Returns false if that would instead falsify an already-true
// literal.
func (p *OrderEncodingLinearPropagator) excludeOverflow(solver sat.Backend, t OrderTerm, slack int) bool {
	if t.Coef <= 0 {
		// A non-positive coefficient's contribution only shrinks as the
		// term's value grows, so it can never overflow by increasing.
		return true
	}
	current := t.lowerBoundContribution(solver)
	for i, lit := range t.GeLits {
		if solver.Value(lit.Var()) != sat.LUnknown {
			continue
		}
		steppedContribution := t.Coef * t.Values[i+1]
		if steppedContribution-current > slack {
			reason := p.snapshot(solver)
			if !solver.Enqueue(lit.Not(), p) {
				p.conflictReason = p.snapshot(solver)
				return false
			}
			p.reasons[lit.Not()] = reason
		}
	}
	return true
}

// snapshot collects every decided GeLit across all terms — the true
// prefixes establishing each term's lower bound plus the false entries
// bounding negative-coefficient terms from above. Recorded before each
// Enqueue so a reason only ever cites literals already true when the
// propagation fired.
func (p *OrderEncodingLinearPropagator) snapshot(solver sat.Backend) []sat.Lit {
	var reason []sat.Lit
	for _, t := range p.terms {
		for _, lit := range t.GeLits {
			switch solver.Value(lit.Var()) {
			case sat.LTrue:
				reason = append(reason, lit)
			case sat.LFalse:
				reason = append(reason, lit.Not())
			}
		}
	}
	return reason
}

// CalcReason replays the premise recorded when forLit was enqueued, or the
// conflict-time snapshot when called for the conflict itself.
func (p *OrderEncodingLinearPropagator) CalcReason(solver sat.Backend, forLit sat.Lit) []sat.Lit {
	if forLit == sat.LitUndef {
		return p.conflictReason
	}
	return p.reasons[forLit]
}
