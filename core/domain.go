package core

import (
	"fmt"
	"sort"

	"github.com/bits-and-blooms/bitset"
)

// UpdateStatus is returned by IntDomain refinement operations.
type UpdateStatus int

const (
	NotUpdated UpdateStatus = iota
	Updated
	Unsatisfiable
)

// IntDomain is either a contiguous Range or an Enumerative set of sorted,
// unique values. The enumerative variant is backed by a bitset.BitSet
// offset from lo so that membership/refinement is O(1)/O(n) in the domain
// width rather than requiring a linear scan of a plain slice.
type IntDomain struct {
	lo, hi int // bounds, valid even for Enumerative; after refinement they need not be members
	bits   *bitset.BitSet
	enum   bool
}

// NewRangeDomain creates a domain [lo, hi]. A domain with lo > hi is the
// canonical "infeasible" marker used by refinement operations.
func NewRangeDomain(lo, hi int) IntDomain {
	return IntDomain{lo: lo, hi: hi}
}

// NewEnumDomain creates a domain from an explicit (possibly unsorted,
// possibly duplicated) list of values.
func NewEnumDomain(values []int) IntDomain {
	if len(values) == 0 {
		return IntDomain{lo: 0, hi: -1}
	}
	sorted := append([]int(nil), values...)
	sort.Ints(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	bs := bitset.New(uint(hi - lo + 1))
	for _, v := range sorted {
		bs.Set(uint(v - lo))
	}
	return IntDomain{lo: lo, hi: hi, bits: bs, enum: true}
}

func (d IntDomain) IsEmpty() bool { return d.lo > d.hi }

func (d IntDomain) Lo() int { return d.lo }
func (d IntDomain) Hi() int { return d.hi }

// IsEnumerative reports whether the domain tracks individual values rather
// than a contiguous range.
func (d IntDomain) IsEnumerative() bool { return d.enum }

func (d IntDomain) Contains(v int) bool {
	if v < d.lo || v > d.hi {
		return false
	}
	if !d.enum {
		return true
	}
	return d.bits.Test(uint(v - d.lo))
}

// Enumerate returns every value in the domain in ascending order.
func (d IntDomain) Enumerate() []int {
	if d.IsEmpty() {
		return nil
	}
	if !d.enum {
		out := make([]int, 0, d.hi-d.lo+1)
		for v := d.lo; v <= d.hi; v++ {
			out = append(out, v)
		}
		return out
	}
	out := make([]int, 0, d.bits.Count())
	for i, ok := d.bits.NextSet(0); ok; i, ok = d.bits.NextSet(i + 1) {
		out = append(out, d.lo+int(i))
	}
	return out
}

// Size returns the number of candidate values.
func (d IntDomain) Size() int {
	if d.IsEmpty() {
		return 0
	}
	if !d.enum {
		return d.hi - d.lo + 1
	}
	return int(d.bits.Count())
}

// IsSingleton reports whether exactly one value is possible, returning it.
func (d IntDomain) IsSingleton() (int, bool) {
	if d.Size() != 1 {
		return 0, false
	}
	if !d.enum {
		return d.lo, true
	}
	i, _ := d.bits.NextSet(0)
	return d.lo + int(i), true
}

// Union returns the domain containing every value in either d or other.
func (d IntDomain) Union(other IntDomain) IntDomain {
	if d.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return d
	}
	if !d.enum && !other.enum && d.hi+1 >= other.lo && other.hi+1 >= d.lo {
		// Contiguous or overlapping ranges stay a Range.
		return NewRangeDomain(minInt(d.lo, other.lo), maxInt(d.hi, other.hi))
	}
	merged := make(map[int]struct{})
	for _, v := range d.Enumerate() {
		merged[v] = struct{}{}
	}
	for _, v := range other.Enumerate() {
		merged[v] = struct{}{}
	}
	out := make([]int, 0, len(merged))
	for v := range merged {
		out = append(out, v)
	}
	return NewEnumDomain(out)
}

// Add returns the pointwise sum domain {a+b : a in d, b in other}.
func (d IntDomain) Add(other IntDomain) IntDomain {
	if d.IsEmpty() || other.IsEmpty() {
		return IntDomain{lo: 0, hi: -1}
	}
	if !d.enum && !other.enum {
		return NewRangeDomain(d.lo+other.lo, d.hi+other.hi)
	}
	seen := make(map[int]struct{})
	for _, a := range d.Enumerate() {
		for _, b := range other.Enumerate() {
			seen[a+b] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	return NewEnumDomain(out)
}

// ScalarMul returns {c*v : v in d}. Negative c flips lo/hi for Range domains
// (e.g. [lo,hi]*(-1) = [-hi,-lo]).
func (d IntDomain) ScalarMul(c int) IntDomain {
	if d.IsEmpty() {
		return d
	}
	if c == 0 {
		return NewRangeDomain(0, 0)
	}
	if !d.enum {
		a, b := d.lo*c, d.hi*c
		if c < 0 {
			a, b = b, a
		}
		return NewRangeDomain(a, b)
	}
	values := d.Enumerate()
	out := make([]int, len(values))
	for i, v := range values {
		out[i] = v * c
	}
	return NewEnumDomain(out)
}

// markEmpty replaces the domain with the canonical infeasible marker.
func (d *IntDomain) markEmpty() {
	*d = IntDomain{lo: 0, hi: -1}
}

// RefineLowerBound intersects the domain with [newLo, +inf).
func (d *IntDomain) RefineLowerBound(newLo int) UpdateStatus {
	if newLo <= d.lo {
		return NotUpdated
	}
	if newLo > d.hi {
		d.markEmpty()
		return Unsatisfiable
	}
	if d.enum {
		shift := uint(newLo - d.lo)
		nb := bitset.New(uint(d.hi - newLo + 1))
		for i, ok := d.bits.NextSet(shift); ok; i, ok = d.bits.NextSet(i + 1) {
			nb.Set(i - shift)
		}
		if nb.None() {
			d.markEmpty()
			return Unsatisfiable
		}
		d.bits = nb
	}
	d.lo = newLo
	return Updated
}

// RefineUpperBound intersects the domain with (-inf, newHi].
func (d *IntDomain) RefineUpperBound(newHi int) UpdateStatus {
	if newHi >= d.hi {
		return NotUpdated
	}
	if newHi < d.lo {
		d.markEmpty()
		return Unsatisfiable
	}
	if d.enum {
		nb := bitset.New(uint(newHi - d.lo + 1))
		for i, ok := d.bits.NextSet(0); ok && d.lo+int(i) <= newHi; i, ok = d.bits.NextSet(i + 1) {
			nb.Set(i)
		}
		if nb.None() {
			d.markEmpty()
			return Unsatisfiable
		}
		d.bits = nb
	}
	d.hi = newHi
	return Updated
}

// RefineExclude removes a single value from the domain.
func (d *IntDomain) RefineExclude(v int) UpdateStatus {
	if !d.Contains(v) {
		return NotUpdated
	}
	if !d.enum {
		// Convert to enumerative to punch a hole, unless v is an endpoint.
		switch {
		case v == d.lo:
			return d.RefineLowerBound(v + 1)
		case v == d.hi:
			return d.RefineUpperBound(v - 1)
		default:
			values := make([]int, 0, d.hi-d.lo)
			for x := d.lo; x <= d.hi; x++ {
				if x != v {
					values = append(values, x)
				}
			}
			*d = NewEnumDomain(values)
			return Updated
		}
	}
	d.bits.Clear(uint(v - d.lo))
	if d.bits.None() {
		d.markEmpty()
		return Unsatisfiable
	}
	return Updated
}

func (d IntDomain) String() string {
	if d.IsEmpty() {
		return "{}"
	}
	if !d.enum {
		return fmt.Sprintf("[%d,%d]", d.lo, d.hi)
	}
	return fmt.Sprintf("%v", d.Enumerate())
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
