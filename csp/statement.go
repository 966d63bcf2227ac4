package csp

// Edge is an undirected edge between two vertex indices, used by
// ActiveVerticesConnected and GraphDivision statements. Vertex indices are
// positional within the statement's own vertex/size list, not CSP variable
// indices.
type Edge struct {
	U, V int
}

// ExtensionRow is one admissible tuple of a support table: either a
// concrete Literal (value fixed to the IntExpr's value), or nil meaning
// "don't care" for that column.
type ExtensionRow []*int

// GraphDivisionMode is carried through normalization and encoding to the
// graph-division propagator (see DESIGN.md Open Question 2). Neither the
// encoder nor the propagator consults it: in both modes the caller-supplied
// edge literals carry each edge's Connected/Disconnected state and drive
// the same analysis.
type GraphDivisionMode int

const (
	// RegionSizeMode is the default mode.
	RegionSizeMode GraphDivisionMode = iota
	// EdgeMode is accepted and handled exactly like RegionSizeMode.
	EdgeMode
)

// GraphDivisionOptions configures the graph-division global constraint.
type GraphDivisionOptions struct {
	Mode GraphDivisionMode
	// AllowEmptyRegion permits a connected component whose designated size
	// variable can be zero (the component effectively does not exist).
	AllowEmptyRegion bool
}

// StatementKind tags the variant of a Statement.
type StatementKind int

const (
	StmtExpr StatementKind = iota
	StmtAllDifferent
	StmtActiveVerticesConnected
	StmtCircuit
	StmtExtensionSupports
	StmtGraphDivision
	StmtCustomConstraint
)

// CustomPropagatorGenerator is invoked by the encoder once the final SAT
// literal mapping for a CustomConstraint's inputs is known; it must return
// a propagator ready for registration (see sat.Propagator).
// Declared here (not in a propagators sub-package) to avoid an import
// cycle between csp and propagators.
type CustomPropagatorGenerator func(satLits []int32) interface{}

// Statement is a top-level CSP constraint. Like BoolExpr/IntExpr it is a
// tagged union; only the fields relevant to Kind are populated.
type Statement struct {
	Kind StatementKind

	Expr *BoolExpr // StmtExpr

	AllDifferentTerms []*IntExpr // StmtAllDifferent

	// StmtActiveVerticesConnected: one boolean "is active" expr per vertex,
	// plus the edge list over vertex indices.
	VertexActive []*BoolExpr
	Edges        []Edge

	// StmtCircuit: one IntExpr per vertex giving the index of its successor
	// in the circuit (domain restricted to [0, n-1] by the normalizer).
	CircuitNext []*IntExpr

	// StmtExtensionSupports
	ExtVars []*IntExpr
	ExtRows []ExtensionRow

	// StmtGraphDivision
	RegionSizeVars []*IntExpr // one size variable per region-defining vertex, or nil entries for non-defining vertices
	DivEdges       []Edge
	EdgeLits       []*BoolExpr // one literal per edge: true if the edge connects its endpoints
	DivOptions     GraphDivisionOptions

	// StmtCustomConstraint
	CustomInputs    []*BoolExpr
	CustomGenerator CustomPropagatorGenerator
}

func StmtFromExpr(e *BoolExpr) Statement { return Statement{Kind: StmtExpr, Expr: e} }

func StmtAllDiff(terms ...*IntExpr) Statement {
	return Statement{Kind: StmtAllDifferent, AllDifferentTerms: terms}
}

func StmtConnected(active []*BoolExpr, edges []Edge) Statement {
	return Statement{Kind: StmtActiveVerticesConnected, VertexActive: active, Edges: edges}
}

func StmtCircuitOf(next ...*IntExpr) Statement {
	return Statement{Kind: StmtCircuit, CircuitNext: next}
}

func StmtExtension(vars []*IntExpr, rows []ExtensionRow) Statement {
	return Statement{Kind: StmtExtensionSupports, ExtVars: vars, ExtRows: rows}
}

func StmtGraphDiv(sizes []*IntExpr, edges []Edge, edgeLits []*BoolExpr, opts GraphDivisionOptions) Statement {
	return Statement{
		Kind:           StmtGraphDivision,
		RegionSizeVars: sizes,
		DivEdges:       edges,
		EdgeLits:       edgeLits,
		DivOptions:     opts,
	}
}

func StmtCustom(inputs []*BoolExpr, gen CustomPropagatorGenerator) Statement {
	return Statement{Kind: StmtCustomConstraint, CustomInputs: inputs, CustomGenerator: gen}
}
