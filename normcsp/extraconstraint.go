package normcsp

// ExtraConstraintKind tags the variant of an ExtraConstraint — the global
// constraints the encoder forwards to custom propagators rather than
// expanding into plain clauses.
type ExtraConstraintKind int

const (
	ExtraMul ExtraConstraintKind = iota
	ExtraActiveVerticesConnected
	ExtraExtensionSupports
	ExtraGraphDivision
	ExtraCustomConstraint
)

// CustomPropagatorGenerator mirrors csp.CustomPropagatorGenerator; declared
// again here (rather than imported) to keep normcsp free of a dependency on
// csp, matching the one-way CSP→NormCSP→encoder dependency direction.
type CustomPropagatorGenerator func(satLits []int32) interface{}

// MulOperands names the three NIntVars of an ExtraMul constraint:
// Result = Left * Right.
type MulOperands struct {
	Left, Right, Result NIntVar
}

// ConnectivityEdge is an edge between two positions in an
// ActiveVerticesConnected/GraphDivision extra constraint's own vertex list
// (not NormCSP variable indices).
type ConnectivityEdge struct {
	U, V int
}

// ExtensionRow is one admissible tuple of a support table at the NormCSP
// level: either a concrete value (literal fixed), or nil for "don't care".
type ExtensionRow []*int

// GraphDivisionMode mirrors csp.GraphDivisionMode at the NormCSP layer.
type GraphDivisionMode int

const (
	RegionSizeMode GraphDivisionMode = iota
	EdgeMode
)

// ExtraConstraint is a global constraint lowered by the normalizer and
// dispatched by the encoder to a custom propagator. Like Statement/BoolExpr
// it is a tagged union.
type ExtraConstraint struct {
	Kind ExtraConstraintKind

	Mul MulOperands // ExtraMul

	// ExtraActiveVerticesConnected
	VertexActive []BoolLit
	Edges        []ConnectivityEdge

	// ExtraExtensionSupports
	ExtVars []NIntVar
	ExtRows []ExtensionRow

	// ExtraGraphDivision
	RegionSizeVars   []NIntVar // entry unused (left zero) where HasRegionSize is false
	HasRegionSize    []bool
	DivEdges         []ConnectivityEdge
	EdgeLits         []BoolLit // always populated; drives the propagator's edge union-find regardless of DivMode
	DivMode          GraphDivisionMode
	AllowEmptyRegion bool

	// ExtraCustomConstraint
	CustomInputs    []BoolLit
	CustomGenerator CustomPropagatorGenerator
}

func NewExtraMul(left, right, result NIntVar) ExtraConstraint {
	return ExtraConstraint{Kind: ExtraMul, Mul: MulOperands{Left: left, Right: right, Result: result}}
}

func NewExtraConnected(active []BoolLit, edges []ConnectivityEdge) ExtraConstraint {
	return ExtraConstraint{Kind: ExtraActiveVerticesConnected, VertexActive: active, Edges: edges}
}

func NewExtraExtensionSupports(vars []NIntVar, rows []ExtensionRow) ExtraConstraint {
	return ExtraConstraint{Kind: ExtraExtensionSupports, ExtVars: vars, ExtRows: rows}
}

func NewExtraGraphDivision(sizeVars []NIntVar, hasSize []bool, edges []ConnectivityEdge, edgeLits []BoolLit, mode GraphDivisionMode, allowEmpty bool) ExtraConstraint {
	return ExtraConstraint{
		Kind:             ExtraGraphDivision,
		RegionSizeVars:   sizeVars,
		HasRegionSize:    hasSize,
		DivEdges:         edges,
		EdgeLits:         edgeLits,
		DivMode:          mode,
		AllowEmptyRegion: allowEmpty,
	}
}

func NewExtraCustomConstraint(inputs []BoolLit, gen CustomPropagatorGenerator) ExtraConstraint {
	return ExtraConstraint{Kind: ExtraCustomConstraint, CustomInputs: inputs, CustomGenerator: gen}
}
