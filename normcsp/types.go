// Package normcsp implements Component D: the flattened NormCSP
// representation — boolean literals, linear sums over integer variables,
// clause-shaped Constraints mixing both, and the ExtraConstraint variants
// (global constraints) forwarded to custom propagators by the encoder.
package normcsp

import (
	"sort"

	"github.com/xDarkicex/cspcore/core"
)

// NBoolVar and NIntVar are dense, append-only indices into the NormCSP's own
// variable tables — a separate space from csp.BoolVar/csp.IntVar, since each
// layer owns its own variable space.
type NBoolVar int
type NIntVar int

// BoolLit is a NormCSP boolean literal: a variable plus a negation flag,
// cheap to flip and never allocating.
type BoolLit struct {
	Var     NBoolVar
	Negated bool
}

func Lit(v NBoolVar) BoolLit      { return BoolLit{Var: v} }
func NotLit(v NBoolVar) BoolLit   { return BoolLit{Var: v, Negated: true} }
func (l BoolLit) Negate() BoolLit { return BoolLit{Var: l.Var, Negated: !l.Negated} }

// LinearSum is a canonical mapping from NIntVar to nonzero coefficient, plus
// a constant term. Canonical means no zero-coefficient entries are ever
// stored.
type LinearSum struct {
	Terms    map[NIntVar]int
	Constant int
}

// NewLinearSum returns the empty sum (constant 0).
func NewLinearSum() LinearSum {
	return LinearSum{Terms: make(map[NIntVar]int)}
}

// SumOfConstant returns the constant-only sum c.
func SumOfConstant(c int) LinearSum {
	return LinearSum{Terms: make(map[NIntVar]int), Constant: c}
}

// SumOfVar returns the singleton sum 1*v.
func SumOfVar(v NIntVar) LinearSum {
	return LinearSum{Terms: map[NIntVar]int{v: 1}}
}

// AddTerm adds coef*v in place, dropping the entry if the result is zero.
func (s *LinearSum) AddTerm(v NIntVar, coef int) {
	if s.Terms == nil {
		s.Terms = make(map[NIntVar]int)
	}
	next := s.Terms[v] + coef
	if next == 0 {
		delete(s.Terms, v)
	} else {
		s.Terms[v] = next
	}
}

// Plus returns s + other as a new canonical sum.
func (s LinearSum) Plus(other LinearSum) LinearSum {
	out := NewLinearSum()
	out.Constant = s.Constant + other.Constant
	for v, c := range s.Terms {
		out.AddTerm(v, c)
	}
	for v, c := range other.Terms {
		out.AddTerm(v, c)
	}
	return out
}

// Minus returns s - other as a new canonical sum.
func (s LinearSum) Minus(other LinearSum) LinearSum {
	return s.Plus(other.ScalarMul(-1))
}

// ScalarMul returns k*s as a new canonical sum.
func (s LinearSum) ScalarMul(k int) LinearSum {
	out := NewLinearSum()
	out.Constant = s.Constant * k
	if k == 0 {
		return out
	}
	for v, c := range s.Terms {
		out.Terms[v] = c * k
	}
	return out
}

// IsConstant reports whether s has no variable terms, returning its value.
func (s LinearSum) IsConstant() (int, bool) {
	if len(s.Terms) == 0 {
		return s.Constant, true
	}
	return 0, false
}

// IsSingleton reports whether s is exactly coef*v + constant for one
// variable v, returning (v, coef, constant, true).
func (s LinearSum) IsSingleton() (v NIntVar, coef int, constant int, ok bool) {
	if len(s.Terms) != 1 {
		return 0, 0, 0, false
	}
	for vv, c := range s.Terms {
		return vv, c, s.Constant, true
	}
	panic("unreachable")
}

// Equal reports whether s and other have identical canonical entries.
func (s LinearSum) Equal(other LinearSum) bool {
	if s.Constant != other.Constant || len(s.Terms) != len(other.Terms) {
		return false
	}
	for v, c := range s.Terms {
		if other.Terms[v] != c {
			return false
		}
	}
	return true
}

// Vars returns s's variable terms in a deterministic (sorted) order, for
// reproducible clause emission.
func (s LinearSum) Vars() []NIntVar {
	out := make([]NIntVar, 0, len(s.Terms))
	for v := range s.Terms {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// LinearLit is a NormCSP linear literal: semantics `sum <op> 0`.
type LinearLit struct {
	Sum LinearSum
	Op  core.CmpOp
}

func NewLinearLit(sum LinearSum, op core.CmpOp) LinearLit { return LinearLit{Sum: sum, Op: op} }

// Constraint is a NormCSP clause: the disjunction of its boolean literals
// and its linear literals.
type Constraint struct {
	BoolLits   []BoolLit
	LinearLits []LinearLit
}

func NewConstraint() Constraint { return Constraint{} }

func (c *Constraint) AddBoolLit(l BoolLit)     { c.BoolLits = append(c.BoolLits, l) }
func (c *Constraint) AddLinearLit(l LinearLit) { c.LinearLits = append(c.LinearLits, l) }

// IsEmpty reports whether the constraint has no disjuncts at all — an
// immediately unsatisfiable clause.
func (c Constraint) IsEmpty() bool { return len(c.BoolLits) == 0 && len(c.LinearLits) == 0 }

// IntVarRepresentationKind tags an IntVarRepresentation.
type IntVarRepresentationKind int

const (
	// RepDomain is an ordinary variable over an IntDomain.
	RepDomain IntVarRepresentationKind = iota
	// RepBinary is a selector-controlled two-valued integer: Cond true
	// selects VTrue, Cond false selects VFalse.
	RepBinary
)

// IntVarRepresentation is how a NormCSP integer variable's value-space is
// expressed.
type IntVarRepresentation struct {
	Kind   IntVarRepresentationKind
	Domain core.IntDomain // RepDomain

	Cond   BoolLit // RepBinary
	VFalse int     // RepBinary
	VTrue  int     // RepBinary
}

func RepOfDomain(d core.IntDomain) IntVarRepresentation {
	return IntVarRepresentation{Kind: RepDomain, Domain: d}
}

func RepOfBinary(cond BoolLit, vFalse, vTrue int) IntVarRepresentation {
	return IntVarRepresentation{Kind: RepBinary, Cond: cond, VFalse: vFalse, VTrue: vTrue}
}

// EffectiveDomain returns the IntDomain an encoding scheme should treat this
// representation's variable as ranging over: its own Domain for RepDomain,
// or the {VFalse, VTrue} enumeration for RepBinary.
func (r IntVarRepresentation) EffectiveDomain() core.IntDomain {
	if r.Kind == RepBinary {
		if r.VFalse == r.VTrue {
			return core.NewEnumDomain([]int{r.VFalse})
		}
		lo, hi := r.VFalse, r.VTrue
		if lo > hi {
			lo, hi = hi, lo
		}
		return core.NewEnumDomain([]int{lo, hi})
	}
	return r.Domain
}
