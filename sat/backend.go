package sat

// Backend is the abstract SAT backend contract the encoder programs
// against, implemented by *CDCLSolver. A pure reimplementation swapping the
// CDCL engine for another only needs to satisfy this interface.
type Backend interface {
	// NewVar allocates a fresh solver variable.
	NewVar() Var
	// NewLit packs a literal from a variable and polarity — a thin
	// convenience wrapper around MkLit kept on the interface so callers
	// never construct Lit values by hand.
	NewLit(v Var, negated bool) Lit

	// AddClause adds an input (non-learned) clause. Returns false if the
	// clause is trivially/immediately unsatisfiable (e.g. empty, or
	// falsified at decision level 0).
	AddClause(lits ...Lit) bool

	// Solve runs CDCL search to completion and returns whether the current
	// clause database (plus any registered propagators) is satisfiable.
	Solve() bool

	// Value returns the current truth value of v. Only meaningful to call
	// with a satisfying result in hand, or from inside a propagator
	// callback during search.
	Value(v Var) LBool

	// AddWatch registers p to be notified (via Propagate) whenever lit is
	// set to true.
	AddWatch(p Propagator, lit Lit)

	// Enqueue asserts lit as true, attributing it to propagator p for
	// later CalcReason/Undo dispatch. Returns false if lit is already
	// false under the current assignment (an immediate conflict).
	Enqueue(lit Lit, p Propagator) bool

	// IsCurrentLevel reports whether v was assigned at the solver's
	// present decision level (used by propagators to decide whether an
	// assignment is still provisional).
	IsCurrentLevel(v Var) bool

	// AddPropagator registers a custom propagator; its Initialize is
	// invoked immediately. Returns false if Initialize reports an
	// immediate conflict.
	AddPropagator(p Propagator) bool

	// SetPolarityHint biases the next decision on lit.Var() toward lit's
	// polarity, a bias optimization used to converge irrefutable-fact
	// search faster.
	SetPolarityHint(lit Lit)

	// Stats returns the running search statistics.
	Stats() SolverStatistics
}
