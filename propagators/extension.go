package propagators

import "github.com/xDarkicex/cspcore/sat"

// ExtVar is one column of an extension/support table: the materialized
// value literals of a NormCSP integer variable, value[i] <-> lits[i].
type ExtVar struct {
	Values []int
	Lits   []sat.Lit
}

// ExtRow is one admissible tuple: ExtRow[i] is the required value for
// column i, or nil for "don't care".
type ExtRow []*int

// ExtensionSupportsPropagator enforces that the column variables'
// assignment matches at least one row of the support table, a native
// alternative to prefix-grouped clause expansion. It watches every column's
// value literals in both polarities and, each time one settles, recomputes
// which rows remain live; a column all live rows agree on is propagated
// directly, a batched analysis style mirrored from
// ActiveVerticesConnectedPropagator's single analyze() entry point.
type ExtensionSupportsPropagator struct {
	vars []ExtVar
	rows []ExtRow

	reasons        map[sat.Lit][]sat.Lit
	conflictReason []sat.Lit
}

func NewExtensionSupportsPropagator(vars []ExtVar, rows []ExtRow) *ExtensionSupportsPropagator {
	return &ExtensionSupportsPropagator{vars: vars, rows: rows, reasons: make(map[sat.Lit][]sat.Lit)}
}

func (p *ExtensionSupportsPropagator) Name() string { return "extension_supports" }

func (p *ExtensionSupportsPropagator) LazyPropagation() bool { return true }

func (p *ExtensionSupportsPropagator) Initialize(solver sat.Backend) bool {
	for _, v := range p.vars {
		for _, lit := range v.Lits {
			solver.AddWatch(p, lit)
			solver.AddWatch(p, lit.Not())
		}
	}
	return p.analyze(solver)
}

func (p *ExtensionSupportsPropagator) Propagate(solver sat.Backend, lit sat.Lit, numPending int) bool {
	if numPending > 0 {
		return true
	}
	return p.analyze(solver)
}

func (p *ExtensionSupportsPropagator) Undo(solver sat.Backend, lit sat.Lit) {}

// columnValueLit returns the literal for column i taking value v, or false
// ("impossible") if v is not in that column's domain.
func (p *ExtensionSupportsPropagator) columnValueLit(i, v int) (sat.Lit, bool) {
	for j, val := range p.vars[i].Values {
		if val == v {
			return p.vars[i].Lits[j], true
		}
	}
	return 0, false
}

// rowLive reports whether row is still consistent with the current partial
// assignment: every fixed column's required value must be one of that
// column's values, and its value literal must not already be false (LFalse).
func (p *ExtensionSupportsPropagator) rowLive(solver sat.Backend, row ExtRow) bool {
	for i, want := range row {
		if want == nil {
			continue
		}
		lit, ok := p.columnValueLit(i, *want)
		if !ok || solver.Value(lit.Var()) == sat.LFalse {
			return false
		}
	}
	return true
}

// analyze recomputes the live-row set and propagates any column value that
// every live row agrees on, or reports conflict when no row survives.
func (p *ExtensionSupportsPropagator) analyze(solver sat.Backend) bool {
	var live []ExtRow
	for _, row := range p.rows {
		if p.rowLive(solver, row) {
			live = append(live, row)
		}
	}
	if len(live) == 0 {
		p.conflictReason = p.snapshot(solver)
		return false
	}

	for i := range p.vars {
		agreed, has := 0, false
		consistent := true
		for _, row := range live {
			if row[i] == nil {
				consistent = false
				break
			}
			if !has {
				agreed, has = *row[i], true
			} else if *row[i] != agreed {
				consistent = false
				break
			}
		}
		if consistent && has {
			lit, ok := p.columnValueLit(i, agreed)
			if !ok {
				p.conflictReason = p.snapshot(solver)
				return false
			}
			if solver.Value(lit.Var()) == sat.LUnknown {
				reason := p.snapshot(solver)
				if !solver.Enqueue(lit, p) {
					p.conflictReason = p.snapshot(solver)
					return false
				}
				p.reasons[lit] = reason
			}
		}
	}
	return true
}

// snapshot collects every currently-false value literal across all columns:
// together with the implicit "some row must hold" constraint, they are what
// ruled out every row but the ones agreeing on the propagated value (a
// coarser-than-minimal but sound reason, matching the style of
// GraphDivisionPropagator). Recorded before each Enqueue so a reason only
// ever cites literals already true when the propagation fired.
func (p *ExtensionSupportsPropagator) snapshot(solver sat.Backend) []sat.Lit {
	var reason []sat.Lit
	for _, v := range p.vars {
		for _, lit := range v.Lits {
			if solver.Value(lit.Var()) == sat.LFalse {
				reason = append(reason, lit.Not())
			}
		}
	}
	return reason
}

// CalcReason replays the premise recorded when forLit was enqueued, or the
// conflict-time snapshot when called for the conflict itself.
func (p *ExtensionSupportsPropagator) CalcReason(solver sat.Backend, forLit sat.Lit) []sat.Lit {
	if forLit == sat.LitUndef {
		return p.conflictReason
	}
	return p.reasons[forLit]
}
