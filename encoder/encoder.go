package encoder

import (
	"github.com/rs/zerolog"

	"github.com/xDarkicex/cspcore/normcsp"
	"github.com/xDarkicex/cspcore/sat"
)

// Encoder drives NormCSP -> CNF compilation against a sat.Backend,
// emitting clauses directly through the Backend contract rather than
// accumulating an intermediate CNF value.
type Encoder struct {
	backend sat.Backend
	cfg     Config
	logger  zerolog.Logger

	trueLit  sat.Lit
	boolLits []sat.Lit // indexed by normcsp.NBoolVar
	intEnc   []*varEncoding

	unsat bool
}

// Encode compiles norm onto backend, returning the Mapping the caller needs
// to read back a model plus false if the clause set is already known
// unsatisfiable (an input clause conflicted at decision level 0) — the
// caller must not call backend.Solve() in that case, since the conflicting
// clause itself is never retained for the solver to rediscover (AddClause
// returning false means the clause set is already unsatisfiable).
func Encode(norm *normcsp.NormCSP, backend sat.Backend, cfg Config, logger zerolog.Logger) (*Mapping, bool) {
	e := &Encoder{backend: backend, cfg: cfg, logger: logger}
	e.trueLit = e.newFixedTrue()

	e.boolLits = make([]sat.Lit, norm.NumBoolVars())
	for i := range e.boolLits {
		v := e.backend.NewVar()
		e.boolLits[i] = e.backend.NewLit(v, false)
	}

	e.buildIntEncodings(norm)

	for _, c := range norm.Constraints() {
		if !e.emitConstraint(c) {
			e.unsat = true
		}
	}
	for _, ec := range norm.ExtraConstraints() {
		if !e.emitExtraConstraint(ec) {
			e.unsat = true
		}
	}

	logger.Debug().
		Int("bool_vars", len(e.boolLits)).
		Int("int_vars", len(e.intEnc)).
		Int("constraints", len(norm.Constraints())).
		Int("extra_constraints", len(norm.ExtraConstraints())).
		Bool("unsat", e.unsat).
		Msg("encoder: compiled normcsp")

	return e.Mapping(), !e.unsat
}

func (e *Encoder) boolLitOf(l normcsp.BoolLit) sat.Lit {
	lit := e.boolLits[l.Var]
	if l.Negated {
		return lit.Not()
	}
	return lit
}

// Mapping exposes the SAT-level literal for a NormCSP variable, used by the
// facade to read back models.
type Mapping struct {
	e *Encoder
}

func (e *Encoder) Mapping() *Mapping { return &Mapping{e: e} }

func (m *Mapping) BoolLit(v normcsp.NBoolVar) sat.Lit { return m.e.boolLits[v] }

// IntVarLits returns every SAT literal materialized for v's encoding —
// the order chain, the one-hot table, or the bit vector — so the facade
// can mark observable variables (answer keys and model read-back) as
// frozen for preprocessing.
func (m *Mapping) IntVarLits(v normcsp.NIntVar) []sat.Lit {
	ve := m.e.intEnc[v]
	switch ve.scheme {
	case SchemeDirect:
		return ve.directLits
	case SchemeLog:
		return ve.bits
	default:
		return ve.orderLits
	}
}

// ValueLit returns the literal for "v == value", the same memoized literal
// emitConstraint/literalForLinearLit would reify for a linear literal
// referencing v — used by the facade to build answer-key-only refutation
// clauses without duplicating the encoder's per-scheme equality logic.
func (m *Mapping) ValueLit(v normcsp.NIntVar, value int) sat.Lit { return m.e.valueLit(v, value) }

// IntValue reconstructs an integer variable's current value from a model,
// by scanning its literal table for the satisfied entry — the per-variable
// encoding persists for the solver's lifetime, so this always finds exactly
// one answer in a genuine model.
func (m *Mapping) IntValue(v normcsp.NIntVar, value func(sat.Lit) bool) (int, bool) {
	ve := m.e.intEnc[v]
	switch ve.scheme {
	case SchemeDirect:
		for i, lit := range ve.directLits {
			if value(lit) {
				return ve.values[i], true
			}
		}
	case SchemeOrder:
		result := ve.values[0]
		for i, lit := range ve.orderLits {
			if value(lit) {
				result = ve.values[i+1]
			}
		}
		return result, true
	case SchemeLog:
		offset := 0
		for i, lit := range ve.bits {
			if value(lit) {
				offset |= 1 << uint(i)
			}
		}
		return ve.lo + offset, true
	}
	return 0, false
}
