package encoder

import (
	"github.com/xDarkicex/cspcore/normcsp"
	"github.com/xDarkicex/cspcore/propagators"
	"github.com/xDarkicex/cspcore/sat"
)

// emitConstraint lowers one NormCSP clause to a single backend.AddClause
// call, mixing the clause's boolean disjuncts with its linear disjuncts
// reified via literalForLinearLit — a Constraint compiles to exactly one
// clause.
func (e *Encoder) emitConstraint(c normcsp.Constraint) bool {
	lits := make([]sat.Lit, 0, len(c.BoolLits)+len(c.LinearLits))
	for _, bl := range c.BoolLits {
		lits = append(lits, e.boolLitOf(bl))
	}
	for _, ll := range c.LinearLits {
		lits = append(lits, e.literalForLinearLit(ll))
	}
	if len(lits) == 0 {
		return false
	}
	ok := e.backend.AddClause(lits...)
	if ok {
		ok = e.tryNativeOrderLinearStrengthen(c)
	}
	return ok
}

// emitExtraConstraint dispatches a global constraint either to a direct
// clausal expansion (ExtraMul, the one variant compiled without a
// propagator) or to a custom propagator registered on the backend.
func (e *Encoder) emitExtraConstraint(ec normcsp.ExtraConstraint) bool {
	switch ec.Kind {
	case normcsp.ExtraMul:
		return e.emitMul(ec.Mul)
	case normcsp.ExtraActiveVerticesConnected:
		return e.emitConnected(ec)
	case normcsp.ExtraExtensionSupports:
		return e.emitExtension(ec)
	case normcsp.ExtraGraphDivision:
		return e.emitGraphDivision(ec)
	case normcsp.ExtraCustomConstraint:
		return e.emitCustom(ec)
	default:
		return true
	}
}

// emitMul compiles every ExtraMul (Result = Left * Right) the naive way,
// whatever the operands' encoding schemes; no multiplication propagator is
// used: for every pair
// of domain values (i, j), the clause (Left != i) or (Right != j) or
// (Result == i*j) — which becomes a plain forbidding clause for pairs whose
// product falls outside Result's domain, since valueLit answers false there.
func (e *Encoder) emitMul(m normcsp.MulOperands) bool {
	ok := true
	leftVals := e.intEnc[m.Left].values
	rightVals := e.intEnc[m.Right].values
	for _, i := range leftVals {
		notI := e.valueLit(m.Left, i).Not()
		for _, j := range rightVals {
			notJ := e.valueLit(m.Right, j).Not()
			prod := e.valueLit(m.Result, i*j)
			if !e.backend.AddClause(notI, notJ, prod) {
				ok = false
			}
		}
	}
	return ok
}

func (e *Encoder) emitConnected(ec normcsp.ExtraConstraint) bool {
	active := make([]sat.Lit, len(ec.VertexActive))
	for i, bl := range ec.VertexActive {
		active[i] = e.boolLitOf(bl)
	}
	edges := make([]propagators.Edge, len(ec.Edges))
	for i, edge := range ec.Edges {
		edges[i] = propagators.Edge{U: edge.U, V: edge.V}
	}
	p := propagators.NewActiveVerticesConnectedPropagator(active, edges)
	return e.backend.AddPropagator(p)
}

// emitExtension registers a support-table propagator over the variables'
// materialized value literals, translating ExtensionRow's "*int, nil means
// don't care" shape into per-row, per-variable optional value constraints.
func (e *Encoder) emitExtension(ec normcsp.ExtraConstraint) bool {
	vars := make([]propagators.ExtVar, len(ec.ExtVars))
	for i, v := range ec.ExtVars {
		ve := e.intEnc[v]
		values := append([]int(nil), ve.values...)
		lits := make([]sat.Lit, len(values))
		for j, val := range values {
			lits[j] = e.valueLit(v, val)
		}
		vars[i] = propagators.ExtVar{Values: values, Lits: lits}
	}
	rows := make([]propagators.ExtRow, len(ec.ExtRows))
	for i, row := range ec.ExtRows {
		rows[i] = propagators.ExtRow(row)
	}
	p := propagators.NewExtensionSupportsPropagator(vars, rows)
	return e.backend.AddPropagator(p)
}

// emitGraphDivision registers the graph-division propagator, materializing
// each defining vertex's region-size value literals and every edge's
// activity literal (the edges always participate in the propagator's
// union-find; DivMode is passed to the propagator, which does not consult
// it).
func (e *Encoder) emitGraphDivision(ec normcsp.ExtraConstraint) bool {
	n := len(ec.HasRegionSize)
	sizeLits := make([][]propagators.ValueLit, n)
	for i := 0; i < n; i++ {
		if !ec.HasRegionSize[i] {
			continue
		}
		v := ec.RegionSizeVars[i]
		ve := e.intEnc[v]
		vl := make([]propagators.ValueLit, len(ve.values))
		for j, val := range ve.values {
			vl[j] = propagators.ValueLit{Value: val, Lit: e.valueLit(v, val)}
		}
		sizeLits[i] = vl
	}

	edges := make([]propagators.Edge, len(ec.DivEdges))
	for i, edge := range ec.DivEdges {
		edges[i] = propagators.Edge{U: edge.U, V: edge.V}
	}

	edgeLits := make([]sat.Lit, len(ec.EdgeLits))
	for i, bl := range ec.EdgeLits {
		edgeLits[i] = e.boolLitOf(bl)
	}

	mode := propagators.RegionSizeMode
	if ec.DivMode == normcsp.EdgeMode {
		mode = propagators.EdgeMode
	}

	p := propagators.NewGraphDivisionPropagator(propagators.GraphDivisionConfig{
		NumVertices:      n,
		HasRegionSize:    ec.HasRegionSize,
		SizeLits:         sizeLits,
		Edges:            edges,
		EdgeLits:         edgeLits,
		Mode:             mode,
		AllowEmptyRegion: ec.AllowEmptyRegion,
	})
	return e.backend.AddPropagator(p)
}

// emitCustom hands a caller-supplied propagator generator its SAT-level
// literals (as raw int32, the custom-constraint escape hatch) and
// registers whatever sat.Propagator it returns.
func (e *Encoder) emitCustom(ec normcsp.ExtraConstraint) bool {
	raw := make([]int32, len(ec.CustomInputs))
	for i, bl := range ec.CustomInputs {
		raw[i] = int32(e.boolLitOf(bl))
	}
	result := ec.CustomGenerator(raw)
	p, ok := result.(sat.Propagator)
	if !ok {
		return true
	}
	return e.backend.AddPropagator(p)
}
