package encoder

import (
	"sort"

	"github.com/xDarkicex/cspcore/normcsp"
	"github.com/xDarkicex/cspcore/sat"
)

// varEncoding holds one NormCSP integer variable's materialized SAT-level
// literal table, per the three encoding schemes.
type varEncoding struct {
	scheme Scheme
	values []int // sorted domain values, d[0] < ... < d[k]

	orderLits  []sat.Lit // len(values)-1; orderLits[i] <=> value >= values[i+1]
	directLits []sat.Lit // len(values); directLits[i] <=> value == values[i]

	lo   int
	bits []sat.Lit // log scheme; value = lo + sum(bits[i] ? 2^i : 0)

	eqCache map[int]sat.Lit
}

// buildIntEncodings materializes every NormCSP integer variable's literal
// table per the Scheme already chosen by selectSchemes, emitting the chain
// (order), exactly-one (direct), or domain-bound (log) clauses for each
// scheme.
func (e *Encoder) buildIntEncodings(norm *normcsp.NormCSP) {
	schemes := selectSchemes(norm, e.cfg)
	e.intEnc = make([]*varEncoding, norm.NumIntVars())
	for v := 0; v < norm.NumIntVars(); v++ {
		rep := norm.IntVarRepresentationOf(normcsp.NIntVar(v))
		e.intEnc[v] = e.buildOne(rep, schemes[v])
	}
	// Binary representations channel after every table exists, since the
	// general channelling path reifies equality literals through valueLit.
	for v := 0; v < norm.NumIntVars(); v++ {
		rep := norm.IntVarRepresentationOf(normcsp.NIntVar(v))
		if rep.Kind == normcsp.RepBinary {
			e.channelBinary(normcsp.NIntVar(v), rep)
		}
	}
}

func (e *Encoder) buildOne(rep normcsp.IntVarRepresentation, scheme Scheme) *varEncoding {
	dom := rep.EffectiveDomain()
	values := dom.Enumerate()
	ve := &varEncoding{scheme: scheme, values: values, eqCache: make(map[int]sat.Lit)}

	switch scheme {
	case SchemeDirect:
		e.buildDirect(ve)
	case SchemeLog:
		e.buildLog(ve)
	default:
		e.buildOrder(ve)
	}
	return ve
}

// channelBinary ties a Binary representation's selector to its two values:
// Cond true forces value == VTrue, Cond false forces value == VFalse. The
// two-distinct-value order-encoding case channels straight onto the single
// chain literal ("value >= max(VFalse, VTrue)"), flipped when VTrue is the
// smaller value; every other scheme goes through the reified equality
// literals.
func (e *Encoder) channelBinary(nv normcsp.NIntVar, rep normcsp.IntVarRepresentation) {
	if rep.VFalse == rep.VTrue {
		return // degenerate: the selector is unconstrained
	}
	condLit := e.boolLitOf(rep.Cond)
	ve := e.intEnc[nv]
	if ve.scheme == SchemeOrder && len(ve.values) == 2 {
		ge := ve.orderLits[0] // value >= the larger of the two
		if rep.VTrue < rep.VFalse {
			ge = ge.Not()
		}
		e.backend.AddClause(condLit.Not(), ge)
		e.backend.AddClause(condLit, ge.Not())
		return
	}
	eqTrue := e.valueLit(nv, rep.VTrue)
	eqFalse := e.valueLit(nv, rep.VFalse)
	e.backend.AddClause(condLit.Not(), eqTrue)
	e.backend.AddClause(condLit, eqFalse)
}

func (e *Encoder) buildOrder(ve *varEncoding) {
	n := len(ve.values)
	if n <= 1 {
		return
	}
	ve.orderLits = make([]sat.Lit, n-1)
	for i := 0; i < n-1; i++ {
		v := e.backend.NewVar()
		ve.orderLits[i] = e.backend.NewLit(v, false)
	}
	// Chain: l_{i+1} -> l_i, i.e. ¬l_{i+1} ∨ l_i.
	for i := 0; i < n-2; i++ {
		e.backend.AddClause(ve.orderLits[i+1].Not(), ve.orderLits[i])
	}
}

func (e *Encoder) buildDirect(ve *varEncoding) {
	n := len(ve.values)
	ve.directLits = make([]sat.Lit, n)
	for i := range ve.directLits {
		v := e.backend.NewVar()
		ve.directLits[i] = e.backend.NewLit(v, false)
	}
	// At-least-one.
	atLeastOne := append([]sat.Lit(nil), ve.directLits...)
	e.backend.AddClause(atLeastOne...)
	// Pairwise at-most-one.
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			e.backend.AddClause(ve.directLits[i].Not(), ve.directLits[j].Not())
		}
	}
}

func (e *Encoder) buildLog(ve *varEncoding) {
	if len(ve.values) == 0 {
		return
	}
	ve.lo = ve.values[0]
	span := ve.values[len(ve.values)-1] - ve.lo
	p := 1
	for (1 << uint(p)) <= span {
		p++
	}
	ve.bits = make([]sat.Lit, p)
	for i := range ve.bits {
		v := e.backend.NewVar()
		ve.bits[i] = e.backend.NewLit(v, false)
	}
	// Forbid any bit pattern whose offset is outside the enumerated domain,
	// by excluding exactly the gaps.
	full := 1 << uint(p)
	inDomain := make(map[int]bool, len(ve.values))
	for _, v := range ve.values {
		inDomain[v-ve.lo] = true
	}
	for off := 0; off < full; off++ {
		if inDomain[off] {
			continue
		}
		lits := make([]sat.Lit, p)
		for i := 0; i < p; i++ {
			bit := (off >> uint(i)) & 1
			if bit == 1 {
				lits[i] = ve.bits[i].Not()
			} else {
				lits[i] = ve.bits[i]
			}
		}
		e.backend.AddClause(lits...)
	}
}

// geLit returns the literal for "value >= target". Order and Log schemes
// answer from their literal tables; a Direct-encoded variable gets the
// OR-reification of its value literals for values >= target.
func (e *Encoder) geLit(nv normcsp.NIntVar, target int) sat.Lit {
	ve := e.intEnc[nv]
	switch ve.scheme {
	case SchemeOrder:
		idx := sort.SearchInts(ve.values, target)
		if idx >= len(ve.values) {
			return e.falseLit()
		}
		if idx == 0 {
			return e.trueLit
		}
		return ve.orderLits[idx-1]
	case SchemeLog:
		return e.logGELit(ve, target-ve.lo)
	default:
		lits := make([]sat.Lit, 0)
		for i, v := range ve.values {
			if v >= target {
				lits = append(lits, ve.directLits[i])
			}
		}
		return e.orReify(lits)
	}
}

// valueLit returns the literal for "value == target", memoized per variable.
func (e *Encoder) valueLit(nv normcsp.NIntVar, target int) sat.Lit {
	ve := e.intEnc[nv]
	if lit, ok := ve.eqCache[target]; ok {
		return lit
	}
	idx := sort.SearchInts(ve.values, target)
	if idx >= len(ve.values) || ve.values[idx] != target {
		lit := e.falseLit()
		ve.eqCache[target] = lit
		return lit
	}
	var lit sat.Lit
	switch ve.scheme {
	case SchemeDirect:
		lit = ve.directLits[idx]
	case SchemeOrder:
		ge := ve.orderLits
		lo := e.trueLit
		if idx > 0 {
			lo = ge[idx-1]
		}
		hi := e.falseLit()
		if idx < len(ge) {
			hi = ge[idx]
		}
		lit = e.andReify(lo, hi.Not())
	default: // log
		lit = e.logEqLit(ve, target-ve.lo)
	}
	ve.eqCache[target] = lit
	return lit
}
