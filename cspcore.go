// Package cspcore is the root facade, owning the whole CSP -> NormCSP ->
// CNF -> CDCL pipeline for one puzzle instance: one Facade owns one
// csp.CSP, lazily encodes it on the first query, and answers every
// subsequent query against the same SAT backend and variable mapping.
package cspcore

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/xDarkicex/cspcore/core"
	"github.com/xDarkicex/cspcore/csp"
	"github.com/xDarkicex/cspcore/encoder"
	"github.com/xDarkicex/cspcore/normalizer"
	"github.com/xDarkicex/cspcore/normcsp"
	"github.com/xDarkicex/cspcore/sat"
)

// Assignment is a model (or the intersection of models) restricted to the
// variables the caller asked about.
type Assignment struct {
	Bools map[csp.BoolVar]bool
	Ints  map[csp.IntVar]int
}

// SolverStats aggregates the backend's running search counters with
// per-layer variable/clause counts, logged via zerolog on every Solve /
// IrrefutableFacts / AnswerIter call.
type SolverStats struct {
	sat.SolverStatistics
	NormBoolVars     int
	NormIntVars      int
	Constraints      int
	ExtraConstraints int
}

// Facade is the single entry point for building and solving one CSP
// instance. It is not safe for concurrent use.
type Facade struct {
	cfg    Config
	logger zerolog.Logger
	csp    *csp.CSP

	encoded bool
	unsat   bool
	backend *sat.CDCLSolver
	varMap  *normalizer.VarMapping
	mapping *encoder.Mapping

	stats SolverStats
}

// NewFacade constructs an empty CSP instance under cfg.
func NewFacade(cfg Config) *Facade {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, NoColor: true}).With().Timestamp().Logger()
	return &Facade{
		cfg:    cfg,
		logger: logger,
		csp:    csp.NewCSP(),
	}
}

func (f *Facade) NewBoolVar() csp.BoolVar { return f.csp.NewBoolVar() }

func (f *Facade) NewIntVarRange(lo, hi int) csp.IntVar { return f.csp.NewIntVarRange(lo, hi) }

func (f *Facade) NewIntVarEnum(values []int) csp.IntVar { return f.csp.NewIntVarEnum(values) }

// AddConstraint appends stmt to the CSP. Calling this after the instance
// has already been encoded (any query already ran) is fatal, since
// re-encoding a variable table the backend has already materialized
// clauses against is forbidden.
func (f *Facade) AddConstraint(stmt csp.Statement) {
	if f.encoded {
		core.Fail("cspcore", "AddConstraint", "cannot add constraints after the instance has been encoded")
	}
	f.csp.AddConstraint(stmt)
}

func (f *Facade) AddAnswerKeyBool(vars ...csp.BoolVar) { f.csp.AddAnswerKeyBool(vars...) }

func (f *Facade) AddAnswerKeyInt(vars ...csp.IntVar) { f.csp.AddAnswerKeyInt(vars...) }

// ensureEncoded runs constant folding/propagation, normalization, domain
// refinement, encoding, and preprocessing exactly once, lazily on the first
// query call.
func (f *Facade) ensureEncoded() bool {
	if f.encoded {
		return !f.unsat
	}
	f.encoded = true

	ok := true
	if f.cfg.UseConstantFolding || f.cfg.UseConstantPropagation {
		ok = f.csp.Optimize(f.cfg.UseConstantFolding, f.cfg.UseConstantPropagation)
	}

	norm, varMap := normalizer.NormalizeWithMapping(f.csp, f.cfg.normalizerOptions())
	f.varMap = varMap

	// Resolve every csp-layer variable's NormCSP mapping up front: model
	// read-back and refutation clauses may name variables no constraint
	// mentions, and a mapping allocated after encoding would have no SAT
	// literal behind it.
	for v := 0; v < f.csp.NumBoolVars(); v++ {
		varMap.BoolLit(csp.BoolVar(v))
	}
	for v := 0; v < f.csp.NumIntVars(); v++ {
		varMap.IntVar(csp.IntVar(v))
	}

	if ok && f.cfg.UseNormDomainRefinement {
		ok = norm.RefineDomains()
	}

	backend := sat.NewCDCLSolver(f.logger)
	backend.SeedActivities(f.cfg.Seed)
	f.backend = backend

	if ok {
		f.mapping, ok = encoder.Encode(norm, backend, f.cfg.encoderConfig(), f.logger)
	}
	if ok {
		f.freezeObservable()
		ok = backend.Preprocess()
	}

	f.unsat = !ok
	f.stats = SolverStats{
		NormBoolVars:     norm.NumBoolVars(),
		NormIntVars:      norm.NumIntVars(),
		Constraints:      len(norm.Constraints()),
		ExtraConstraints: len(norm.ExtraConstraints()),
	}

	f.logger.Info().
		Int("bool_vars", f.stats.NormBoolVars).
		Int("int_vars", f.stats.NormIntVars).
		Int("constraints", f.stats.Constraints).
		Bool("unsat_at_encode", f.unsat).
		Msg("cspcore: encoded instance")

	return !f.unsat
}

// freezeObservable marks every SAT variable a caller can observe through
// the mapping tables — each csp boolean's literal and each csp integer's
// full encoding — so preprocessing never applies model-set-distorting
// simplifications (pure-literal elimination) to them. Internal auxiliary
// variables stay fair game.
func (f *Facade) freezeObservable() {
	for v := 0; v < f.csp.NumBoolVars(); v++ {
		lit, _, ok := f.varMap.BoolLit(csp.BoolVar(v))
		if !ok {
			continue
		}
		f.backend.FreezeVar(f.mapping.BoolLit(lit.Var).Var())
	}
	for v := 0; v < f.csp.NumIntVars(); v++ {
		nv, _, ok := f.varMap.IntVar(csp.IntVar(v))
		if !ok {
			continue
		}
		for _, lit := range f.mapping.IntVarLits(nv) {
			f.backend.FreezeVar(lit.Var())
		}
	}
}

// Solve returns one satisfying model, or (nil, false) if the instance is
// unsatisfiable.
func (f *Facade) Solve() (*Assignment, bool) {
	if !f.ensureEncoded() {
		f.logStats()
		return nil, false
	}
	if !f.backend.Solve() {
		f.logStats()
		return nil, false
	}
	a := f.fullAssignment()
	f.logStats()
	return a, true
}

// IrrefutableFacts returns the intersection of every model over boolKeys and
// intKeys: iteratively solve, add a refutation clause over just those keys
// against the found assignment, and repeat until UNSAT, intersecting every
// solved assignment's key values as it goes. Between iterations the
// backend's preferred polarities are biased opposite the just-found model
// via SetPolarityHint so the next solve explores a different region first.
func (f *Facade) IrrefutableFacts(boolKeys []csp.BoolVar, intKeys []csp.IntVar) (*Assignment, bool) {
	if !f.ensureEncoded() {
		f.logStats()
		return nil, false
	}

	var intersection *Assignment
	for {
		if !f.backend.Solve() {
			break
		}
		cur := f.keyAssignment(boolKeys, intKeys)
		if intersection == nil {
			intersection = cur
		} else {
			intersection = intersectAssignment(intersection, cur)
		}

		if f.cfg.OptimizePolarity {
			f.biasPolarityAgainst(boolKeys, intKeys)
		}

		refutation := f.refutationClause(boolKeys, intKeys)
		if len(refutation) == 0 || !f.backend.AddClause(refutation...) {
			break
		}
	}

	f.logStats()
	if intersection == nil {
		return nil, false
	}
	return intersection, true
}

// biasPolarityAgainst sets the backend's preferred polarity for each
// answer-key literal to the opposite of its just-found value, so the next
// Solve call is biased to explore a different region of the model space
// first and the irrefutable-facts intersection converges in fewer
// iterations.
func (f *Facade) biasPolarityAgainst(boolKeys []csp.BoolVar, intKeys []csp.IntVar) {
	for _, v := range boolKeys {
		lit, _, ok := f.varMap.BoolLit(v)
		if !ok {
			continue
		}
		satLitForV := f.boolLitFor(lit)
		if f.evalLit(satLitForV) {
			f.backend.SetPolarityHint(satLitForV.Not())
		} else {
			f.backend.SetPolarityHint(satLitForV)
		}
	}
	for _, v := range intKeys {
		nv, _, ok := f.varMap.IntVar(v)
		if !ok {
			continue
		}
		cur := f.intValue(v)
		f.backend.SetPolarityHint(f.mapping.ValueLit(nv, cur).Not())
	}
}

// AssignmentIter pulls successive models one at a time, adding an
// answer-key-only refutation clause between calls.
type AssignmentIter struct {
	f        *Facade
	boolKeys []csp.BoolVar
	intKeys  []csp.IntVar
	cur      *Assignment
	err      error
	done     bool
}

// AnswerIter returns a pull-style iterator over every model distinguishable
// by boolKeys/intKeys.
func (f *Facade) AnswerIter(boolKeys []csp.BoolVar, intKeys []csp.IntVar) *AssignmentIter {
	return &AssignmentIter{f: f, boolKeys: boolKeys, intKeys: intKeys}
}

// Next advances the iterator, reporting whether a model was found. It
// returns false both on exhaustion and when encoding already finds the
// instance infeasible; Err returns nil in both cases.
func (it *AssignmentIter) Next() bool {
	if it.done {
		return false
	}
	if !it.f.ensureEncoded() {
		it.done = true
		return false
	}
	if it.cur != nil {
		refutation := it.f.refutationClause(it.boolKeys, it.intKeys)
		if len(refutation) == 0 || !it.f.backend.AddClause(refutation...) {
			it.done = true
			it.cur = nil
			return false
		}
	}
	if !it.f.backend.Solve() {
		it.done = true
		it.cur = nil
		it.f.logStats()
		return false
	}
	it.cur = it.f.keyAssignment(it.boolKeys, it.intKeys)
	it.f.logStats()
	return true
}

// Assignment returns the model found by the most recent successful Next.
func (it *AssignmentIter) Assignment() *Assignment { return it.cur }

// Err always returns nil: exhaustion is a normal termination, not an error,
// and every fatal condition in this pipeline panics rather than returning
// an error value. The method exists to satisfy the facade's iterator
// surface.
func (it *AssignmentIter) Err() error { return it.err }

// SolverStats returns the most recently observed search statistics,
// refreshed after every Solve/IrrefutableFacts/AnswerIter call.
func (f *Facade) SolverStats() SolverStats { return f.stats }

func (f *Facade) logStats() {
	if f.backend == nil {
		return
	}
	f.stats.SolverStatistics = f.backend.Stats()
	f.logger.Info().
		Int64("decisions", f.stats.Decisions).
		Int64("propagations", f.stats.Propagations).
		Int64("conflicts", f.stats.Conflicts).
		Int64("restarts", f.stats.Restarts).
		Int64("learned_clauses", f.stats.LearnedClauses).
		Int64("propagator_calls", f.stats.PropagatorCalls).
		Msg("cspcore: query finished")
}

// fullAssignment reads back every bool/int variable the csp layer knows
// about, not just answer-key ones — used by Solve, where the caller expects
// a complete model.
func (f *Facade) fullAssignment() *Assignment {
	a := &Assignment{
		Bools: make(map[csp.BoolVar]bool, f.csp.NumBoolVars()),
		Ints:  make(map[csp.IntVar]int, f.csp.NumIntVars()),
	}
	for v := 0; v < f.csp.NumBoolVars(); v++ {
		a.Bools[csp.BoolVar(v)] = f.boolValue(csp.BoolVar(v))
	}
	for v := 0; v < f.csp.NumIntVars(); v++ {
		a.Ints[csp.IntVar(v)] = f.intValue(csp.IntVar(v))
	}
	return a
}

// keyAssignment reads back only the designated answer-key variables, used
// by IrrefutableFacts/AnswerIter.
func (f *Facade) keyAssignment(boolKeys []csp.BoolVar, intKeys []csp.IntVar) *Assignment {
	a := &Assignment{
		Bools: make(map[csp.BoolVar]bool, len(boolKeys)),
		Ints:  make(map[csp.IntVar]int, len(intKeys)),
	}
	for _, v := range boolKeys {
		a.Bools[v] = f.boolValue(v)
	}
	for _, v := range intKeys {
		a.Ints[v] = f.intValue(v)
	}
	return a
}

// boolValue reads v's current truth value off the backend's model, or its
// folded constant if it never reached the NormCSP layer.
func (f *Facade) boolValue(v csp.BoolVar) bool {
	lit, constVal, ok := f.varMap.BoolLit(v)
	if !ok {
		return constVal
	}
	satLitForV := f.boolLitFor(lit)
	return f.evalLit(satLitForV)
}

// intValue reads v's current value off the backend's model, or its
// collapsed-domain constant if it never reached the NormCSP layer.
func (f *Facade) intValue(v csp.IntVar) int {
	nv, constVal, ok := f.varMap.IntVar(v)
	if !ok {
		return constVal
	}
	value, _ := f.mapping.IntValue(nv, f.evalLit)
	return value
}

func (f *Facade) evalLit(l sat.Lit) bool {
	return (f.backend.Value(l.Var()) == sat.LTrue) != l.Negated()
}

// boolLitFor composes a NormCSP BoolLit's negation with its underlying
// dedicated SAT literal, yielding a SAT literal true exactly when the
// NormCSP literal is true.
func (f *Facade) boolLitFor(lit normcsp.BoolLit) sat.Lit {
	satLit := f.mapping.BoolLit(lit.Var)
	if lit.Negated {
		return satLit.Not()
	}
	return satLit
}

// refutationClause builds the clause "at least one answer-key variable
// differs from its current value" — restricted to those keys rather than
// the full model, bounding clause growth to the answer-key count rather
// than total variable count.
func (f *Facade) refutationClause(boolKeys []csp.BoolVar, intKeys []csp.IntVar) []sat.Lit {
	lits := make([]sat.Lit, 0, len(boolKeys)+len(intKeys))
	for _, v := range boolKeys {
		lit, _, ok := f.varMap.BoolLit(v)
		if !ok {
			continue
		}
		satLitForV := f.boolLitFor(lit)
		if f.evalLit(satLitForV) {
			lits = append(lits, satLitForV.Not())
		} else {
			lits = append(lits, satLitForV)
		}
	}
	for _, v := range intKeys {
		nv, _, ok := f.varMap.IntVar(v)
		if !ok {
			continue
		}
		cur := f.intValue(v)
		lits = append(lits, f.mapping.ValueLit(nv, cur).Not())
	}
	return lits
}

// intersectAssignment keeps only the key/value pairs a and b agree on — the
// irrefutable-facts intersection-of-models operation.
func intersectAssignment(a, b *Assignment) *Assignment {
	out := &Assignment{
		Bools: make(map[csp.BoolVar]bool),
		Ints:  make(map[csp.IntVar]int),
	}
	for v, val := range a.Bools {
		if bv, ok := b.Bools[v]; ok && bv == val {
			out.Bools[v] = val
		}
	}
	for v, val := range a.Ints {
		if iv, ok := b.Ints[v]; ok && iv == val {
			out.Ints[v] = val
		}
	}
	return out
}
