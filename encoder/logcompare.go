package encoder

import "github.com/xDarkicex/cspcore/sat"

// logEqLit reifies "the log-encoded bit vector equals offset" as a single
// AND over per-bit equality: each bit is pinned to its expected value and
// the conjunction Tseitin-reified.
func (e *Encoder) logEqLit(ve *varEncoding, offset int) sat.Lit {
	if offset < 0 || (len(ve.bits) < 64 && offset >= (1<<uint(len(ve.bits)))) {
		return e.falseLit()
	}
	cur := e.trueLit
	for i, bit := range ve.bits {
		want := bit
		if (offset>>uint(i))&1 == 0 {
			want = bit.Not()
		}
		cur = e.andReify(cur, want)
	}
	return cur
}

// logGELit reifies "the log-encoded bit vector's value >= offset" via the
// standard MSB-to-LSB lexicographic comparator chain: at each bit position,
// either the prefix is already strictly greater, or it remains tied and the
// comparison continues into the lower bits, via per-column auxiliary
// variables that form a monotone carry chain.
func (e *Encoder) logGELit(ve *varEncoding, offset int) sat.Lit {
	p := len(ve.bits)
	if offset <= 0 {
		return e.trueLit
	}
	full := 1
	if p < 63 {
		full = 1 << uint(p)
	}
	if offset >= full {
		return e.falseLit()
	}

	tiedSoFar := e.trueLit
	anyGreater := e.falseLit()
	for i := p - 1; i >= 0; i-- {
		bit := ve.bits[i]
		targetBit := (offset >> uint(i)) & 1
		var gtHere sat.Lit
		if targetBit == 0 {
			gtHere = e.andReify(tiedSoFar, bit)
		} else {
			gtHere = e.falseLit()
		}
		anyGreater = e.orReify([]sat.Lit{anyGreater, gtHere})

		var eqHere sat.Lit
		if targetBit == 1 {
			eqHere = e.andReify(tiedSoFar, bit)
		} else {
			eqHere = e.andReify(tiedSoFar, bit.Not())
		}
		tiedSoFar = eqHere
	}
	return e.orReify([]sat.Lit{anyGreater, tiedSoFar})
}
