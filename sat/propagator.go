package sat

// Propagator is the custom-propagator contract: a theory engine that
// cooperates with CDCL search via watches, enqueue, reason calculation, and
// undo callbacks. The `propagators` package's graph-division,
// graph-connectivity, extension-supports, and order-encoding-linear engines
// all implement this interface; the encoder registers their instances on
// the Backend via AddPropagator.
type Propagator interface {
	// Initialize registers watches on every literal the propagator cares
	// about (via solver.AddWatch) and performs any propagation possible
	// from literals already true. Returns false on immediate conflict.
	Initialize(solver Backend) bool

	// Propagate is invoked when a watched literal p is set to true, and
	// once more with p == LitUndef when the engine re-checks a candidate
	// full assignment. numPending counts how many more of this
	// propagator's watched literals are already queued in the same
	// propagation round but not yet delivered — a propagator that
	// implements LazyPropagation may defer analysis until numPending
	// reaches 0. Returns false on conflict.
	Propagate(solver Backend, p Lit, numPending int) bool

	// CalcReason returns the reason clause for p: literals that were true
	// before p was asserted and together imply it. p == LitUndef means the
	// reason is for the conflict just reported by Propagate/Initialize
	// returning false, rather than for a specific propagated literal.
	CalcReason(solver Backend, p Lit) []Lit

	// Undo reverts any internal state installed when p became true.
	// Called in reverse order of assertion (LIFO) during backtracking.
	Undo(solver Backend, p Lit)

	// Name identifies the propagator for logging/diagnostics.
	Name() string
}

// LazyPropagator is an optional extension: a propagator that wants to defer
// its analysis until the last of a batch of same-round watched-literal
// deliveries. The engine only computes a nonzero numPending for propagators
// that implement this and return true; everyone else is always told zero.
type LazyPropagator interface {
	Propagator
	LazyPropagation() bool
}
