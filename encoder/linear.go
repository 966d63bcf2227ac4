package encoder

import (
	"sort"

	"github.com/xDarkicex/cspcore/core"
	"github.com/xDarkicex/cspcore/normcsp"
	"github.com/xDarkicex/cspcore/propagators"
	"github.com/xDarkicex/cspcore/sat"
)

// termRef is one coefficient*variable term of a LinearLit being reified.
type termRef struct {
	v    normcsp.NIntVar
	coef int
}

// sumValueLits returns, for the weighted sum of terms, a map from every
// achievable sum value to a literal true iff the sum equals that value —
// a mutually-exclusive "direct encoding of the sum" built on demand:
// enumerated directly when the terms' combined domain product is small,
// otherwise reduced by splitting the terms by position into two halves,
// recursively (terms are not grouped by domain size and no auxiliary
// integer variable is introduced — see DESIGN.md), whose partial-sum value
// tables are each built the same way and then combined.
func (e *Encoder) sumValueLits(terms []termRef) map[int]sat.Lit {
	if len(terms) == 0 {
		return map[int]sat.Lit{0: e.trueLit}
	}
	if len(terms) == 1 {
		return e.singleTermValueLits(terms[0])
	}

	product := domainProduct(e, terms)
	if product <= e.cfg.DomainProductThreshold {
		return e.enumerateValueLits(terms)
	}

	mid := len(terms) / 2
	left := e.sumValueLits(terms[:mid])
	right := e.sumValueLits(terms[mid:])
	return e.combineValueLits(left, right)
}

func (e *Encoder) singleTermValueLits(t termRef) map[int]sat.Lit {
	ve := e.intEnc[t.v]
	out := make(map[int]sat.Lit, len(ve.values))
	for _, val := range ve.values {
		out[val*t.coef] = e.valueLit(t.v, val)
	}
	return out
}

func domainProduct(e *Encoder, terms []termRef) int {
	product := 1
	for _, t := range terms {
		n := len(e.intEnc[t.v].values)
		if n == 0 {
			n = 1
		}
		product *= n
		if product > 1<<30 {
			return product
		}
	}
	return product
}

// enumerateValueLits builds the full cross product of terms' domains,
// grouping tuples by achieved sum and OR-reifying each group's AND'd
// membership literal. Used when the domain product stays below
// cfg.DomainProductThreshold.
func (e *Encoder) enumerateValueLits(terms []termRef) map[int]sat.Lit {
	type tuple struct {
		sum  int
		lits []sat.Lit
	}
	tuples := []tuple{{sum: 0}}
	for _, t := range terms {
		ve := e.intEnc[t.v]
		next := make([]tuple, 0, len(tuples)*len(ve.values))
		for _, cur := range tuples {
			for _, val := range ve.values {
				lits := append(append([]sat.Lit{}, cur.lits...), e.valueLit(t.v, val))
				next = append(next, tuple{sum: cur.sum + val*t.coef, lits: lits})
			}
		}
		tuples = next
	}

	grouped := make(map[int][]sat.Lit)
	for _, tup := range tuples {
		grouped[tup.sum] = append(grouped[tup.sum], e.andReifyAll(tup.lits))
	}
	out := make(map[int]sat.Lit, len(grouped))
	for sum, lits := range grouped {
		out[sum] = e.orReify(lits)
	}
	return out
}

func (e *Encoder) andReifyAll(lits []sat.Lit) sat.Lit {
	if len(lits) == 0 {
		return e.trueLit
	}
	cur := lits[0]
	for _, l := range lits[1:] {
		cur = e.andReify(cur, l)
	}
	return cur
}

func (e *Encoder) combineValueLits(left, right map[int]sat.Lit) map[int]sat.Lit {
	grouped := make(map[int][]sat.Lit)
	for lv, llit := range left {
		for rv, rlit := range right {
			grouped[lv+rv] = append(grouped[lv+rv], e.andReify(llit, rlit))
		}
	}
	out := make(map[int]sat.Lit, len(grouped))
	for v, lits := range grouped {
		out[v] = e.orReify(lits)
	}
	return out
}

// literalForLinearLit reifies `sum <op> 0` as a single literal, usable as a
// disjunct alongside BoolLits in a Constraint clause. Single-term
// comparisons over a variable that is not direct-encoded (Order or Log), for
// any operator, take the "native" nativeSingleTerm fast path instead of
// building a full value table.
func (e *Encoder) literalForLinearLit(ll normcsp.LinearLit) sat.Lit {
	if v, coef, constant, ok := ll.Sum.IsSingleton(); ok && e.intEnc[v].scheme != SchemeDirect {
		return e.nativeSingleTerm(v, coef, constant, ll.Op)
	}

	terms := sortedTerms(ll.Sum)
	values := e.sumValueLits(terms)
	var lits []sat.Lit
	for sum, lit := range values {
		if ll.Op.Holds(sum + ll.Sum.Constant) {
			lits = append(lits, lit)
		}
	}
	return e.orReify(lits)
}

// nativeSingleTerm handles `coef*v + constant <op> 0` directly against v's
// order/log literal table without materializing a value map — the
// terms-of-one special case of the native order-encoding path. coef is
// never 0 for a singleton term.
func (e *Encoder) nativeSingleTerm(v normcsp.NIntVar, coef, constant int, op core.CmpOp) sat.Lit {
	norm := op
	divisor := coef
	numerator := -constant
	if divisor < 0 {
		norm = norm.Flip()
		divisor = -divisor
		numerator = -numerator
	}

	switch norm {
	case core.Ge:
		return e.geLit(v, ceilDiv(numerator, divisor))
	case core.Gt:
		return e.geLit(v, ceilDiv(numerator+1, divisor))
	case core.Le:
		return e.geLit(v, floorDiv(numerator, divisor)+1).Not()
	case core.Lt:
		return e.geLit(v, floorDiv(numerator-1, divisor)+1).Not()
	case core.Eq:
		if numerator%divisor != 0 {
			return e.falseLit()
		}
		return e.valueLit(v, numerator/divisor)
	default: // Ne
		if numerator%divisor != 0 {
			return e.trueLit
		}
		return e.valueLit(v, numerator/divisor).Not()
	}
}

// tryNativeOrderLinearStrengthen registers an
// OrderEncodingLinearPropagator for a clause that is exactly one linear
// literal over at least cfg.NativeLinearEncodingTerms order-encoded terms,
// as a redundant strengthening alongside the ordinary clause emitConstraint
// already built — it never
// substitutes for that clause, so if the constraint doesn't qualify this is
// simply a no-op (returns true).
func (e *Encoder) tryNativeOrderLinearStrengthen(c normcsp.Constraint) bool {
	if len(c.BoolLits) != 0 || len(c.LinearLits) != 1 {
		return true
	}
	ll := c.LinearLits[0]
	if len(ll.Sum.Terms) < e.cfg.NativeLinearEncodingTerms {
		return true
	}
	var coefMul int
	switch ll.Op {
	case core.Ge:
		coefMul = -1
	case core.Le:
		coefMul = 1
	default:
		return true
	}

	terms := make([]propagators.OrderTerm, 0, len(ll.Sum.Terms))
	for _, t := range sortedTerms(ll.Sum) {
		ve := e.intEnc[t.v]
		if ve.scheme != SchemeOrder {
			return true
		}
		terms = append(terms, propagators.OrderTerm{Values: ve.values, GeLits: ve.orderLits, Coef: coefMul * t.coef})
	}
	p := propagators.NewOrderEncodingLinearPropagator(terms, coefMul*ll.Sum.Constant)
	return e.backend.AddPropagator(p)
}

func sortedTerms(sum normcsp.LinearSum) []termRef {
	terms := make([]termRef, 0, len(sum.Terms))
	for v, c := range sum.Terms {
		terms = append(terms, termRef{v: v, coef: c})
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].v < terms[j].v })
	return terms
}

// ceilDiv and floorDiv assume b > 0 (nativeSingleTerm always normalizes the
// divisor to a positive value before calling them).
func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a > 0 {
		q++
	}
	return q
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}
