// Package sat implements the abstract SAT backend contract and its CDCL
// implementation. Variables and literals are dense, packed int32 values —
// Var holds a variable index, Lit packs 2*Var+sign — mirroring
// the packed-literal convention of modern SAT solvers rather than a
// string-keyed literal, so that negation is a cheap flag-flip that never
// allocates.
package sat

import "fmt"

// Var is a dense index into the solver's variable table. The zero value is
// a valid variable (variable 0); VarUndef marks "no variable".
type Var int32

// VarUndef marks the absence of a variable.
const VarUndef Var = -1

// Lit is a packed boolean literal: Lit(v)<<1 | sign, sign=1 meaning
// negated. Negation (Not) is a single XOR and never allocates.
type Lit int32

// LitUndef marks the absence of a literal, used as the "p" argument to
// CalcReason when it is called for a conflict rather than a propagation.
const LitUndef Lit = -1

// MkLit packs a variable and a negation flag into a Lit.
func MkLit(v Var, negated bool) Lit {
	l := Lit(v) << 1
	if negated {
		l |= 1
	}
	return l
}

// Var unpacks the variable a literal refers to.
func (l Lit) Var() Var { return Var(l >> 1) }

// Negated reports whether this literal is the negation of its variable.
func (l Lit) Negated() bool { return l&1 != 0 }

// Not returns the negation of l. Cheap flag-flip, never allocates.
func (l Lit) Not() Lit { return l ^ 1 }

func (l Lit) String() string {
	if l.Negated() {
		return fmt.Sprintf("-%d", l.Var())
	}
	return fmt.Sprintf("%d", l.Var())
}

// LBool is a three-valued truth value: a variable may be True, False, or
// Unknown (unassigned).
type LBool int8

const (
	LUnknown LBool = iota
	LTrue
	LFalse
)

// Holds reports whether lit currently evaluates to true under an LBool
// recorded for lit.Var().
func (l Lit) Holds(value LBool) bool {
	switch value {
	case LTrue:
		return !l.Negated()
	case LFalse:
		return l.Negated()
	default:
		return false
	}
}

// Clause is a disjunction of literals, either an original (input) clause or
// one learned by conflict analysis. Watched clauses keep their first two
// literals as the watch pair (see cdcl.go propagate()).
type Clause struct {
	Lits     []Lit
	ID       int64
	Learned  bool
	Activity float64
	LBD      int
	Tier     ClauseTier
}

// ClauseTier classifies a learned clause for deletion policy purposes,
// mirroring a conventional LBD-based core/mid/local tiering scheme (see
// SetLBD and reduceLearned).
type ClauseTier int

const (
	TierCore  ClauseTier = iota // LBD <= 2: never deleted
	TierMid                     // LBD <= 6: deletable; reduceLearned treats it like TierLocal
	TierLocal                   // otherwise: deletable
)

// NewClause allocates an (unlearned) input clause.
func NewClause(lits ...Lit) *Clause {
	return &Clause{Lits: lits, Tier: TierLocal}
}

// SetLBD records a learned clause's Literal Block Distance and derives its
// tier, following a conventional Clause.SetLBD convention.
func (c *Clause) SetLBD(lbd int) {
	c.LBD = lbd
	switch {
	case lbd <= 2:
		c.Tier = TierCore
	case lbd <= 6:
		c.Tier = TierMid
	default:
		c.Tier = TierLocal
	}
}

// SolverStatistics aggregates CDCL search counters, reported by the
// facade's SolverStats.
type SolverStatistics struct {
	Decisions       int64
	Propagations    int64
	Conflicts       int64
	Restarts        int64
	LearnedClauses  int64
	DeletedClauses  int64
	PropagatorCalls int64
}

func (s SolverStatistics) String() string {
	return fmt.Sprintf(
		"decisions=%d propagations=%d conflicts=%d restarts=%d learned=%d deleted=%d propagator_calls=%d",
		s.Decisions, s.Propagations, s.Conflicts, s.Restarts,
		s.LearnedClauses, s.DeletedClauses, s.PropagatorCalls,
	)
}
