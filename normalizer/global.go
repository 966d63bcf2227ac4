package normalizer

import (
	"github.com/xDarkicex/cspcore/core"
	"github.com/xDarkicex/cspcore/csp"
	"github.com/xDarkicex/cspcore/normcsp"
)

// normalizeAllDifferent lowers a StmtAllDifferent to pairwise ≠ constraints,
// with optional bijection strengthening when every term is a bare variable
// sharing one common enumerated domain of size exactly len(terms).
func (nz *Normalizer) normalizeAllDifferent(st csp.Statement) {
	sums := make([]normcsp.LinearSum, len(st.AllDifferentTerms))
	for i, t := range st.AllDifferentTerms {
		sums[i] = nz.normalizeIntExpr(t)
	}
	for i := 0; i < len(sums); i++ {
		for j := i + 1; j < len(sums); j++ {
			diff := sums[i].Minus(sums[j])
			nz.norm.AddConstraint(normcsp.Constraint{LinearLits: []normcsp.LinearLit{normcsp.NewLinearLit(diff, core.Ne)}})
		}
	}

	if nz.opts.AllDifferentBijectionConstraints {
		nz.addBijectionConstraints(sums)
	}
}

func (nz *Normalizer) addBijectionConstraints(sums []normcsp.LinearSum) {
	n := len(sums)
	vars := make([]normcsp.NIntVar, n)
	for i, s := range sums {
		v, coef, constant, ok := s.IsSingleton()
		if !ok || coef != 1 || constant != 0 {
			return // not a bare variable; strengthening does not apply
		}
		vars[i] = v
	}

	rep := nz.norm.IntVarRepresentationOf(vars[0])
	if rep.Kind != normcsp.RepDomain || !rep.Domain.IsEnumerative() || rep.Domain.Size() != n {
		return
	}
	domain := rep.Domain
	for _, v := range vars[1:] {
		r := nz.norm.IntVarRepresentationOf(v)
		if r.Kind != normcsp.RepDomain || !r.Domain.IsEnumerative() || r.Domain.Size() != n {
			return
		}
		if !domainsEqual(domain, r.Domain) {
			return
		}
	}

	for _, value := range domain.Enumerate() {
		c := normcsp.Constraint{}
		for _, v := range vars {
			sum := normcsp.SumOfVar(v)
			sum.Constant -= value
			c.AddLinearLit(normcsp.NewLinearLit(sum, core.Eq))
		}
		nz.norm.AddConstraint(c)
	}
}

func domainsEqual(a, b core.IntDomain) bool {
	av, bv := a.Enumerate(), b.Enumerate()
	if len(av) != len(bv) {
		return false
	}
	for i := range av {
		if av[i] != bv[i] {
			return false
		}
	}
	return true
}

// normalizeActiveVerticesConnected reifies each vertex's activity condition
// and passes the constraint through to the encoder as an ExtraConstraint.
func (nz *Normalizer) normalizeActiveVerticesConnected(st csp.Statement) {
	active := make([]normcsp.BoolLit, len(st.VertexActive))
	for i, a := range st.VertexActive {
		active[i] = nz.reifyBool(a)
	}
	edges := make([]normcsp.ConnectivityEdge, len(st.Edges))
	for i, e := range st.Edges {
		edges[i] = normcsp.ConnectivityEdge{U: e.U, V: e.V}
	}
	nz.norm.AddExtraConstraint(normcsp.NewExtraConnected(active, edges))
}

// normalizeCircuit lowers an n-variable Circuit statement into a one-of
// selector boolean per (i, target) successor edge, pairwise
// exclusion at each target (so the successor function is injective, hence a
// permutation), and a single-cycle check via an ActiveVerticesConnected
// constraint over the line graph whose nodes are the selector literals
// themselves — node (i,t) is active iff sel[i][t] holds, and two nodes
// (i,t),(t,u) are joined by a static edge since selecting both continues a
// path through vertex t. Exactly n nodes end up active (the selectors form
// a permutation), and connectivity over the line graph is equivalent to
// that permutation being a single cycle rather than several disjoint ones.
func (nz *Normalizer) normalizeCircuit(st csp.Statement) {
	n := len(st.CircuitNext)
	if n == 0 {
		return
	}

	sel := make([][]normcsp.BoolLit, n)
	nodeIndex := make([][]int, n)
	var lineActive []normcsp.BoolLit
	for i := 0; i < n; i++ {
		sel[i] = make([]normcsp.BoolLit, n)
		nodeIndex[i] = make([]int, n)
		for t := 0; t < n; t++ {
			nodeIndex[i][t] = -1
		}
	}

	for i := 0; i < n; i++ {
		var row []normcsp.BoolLit
		for t := 0; t < n; t++ {
			if t == i {
				continue
			}
			lit := nz.reifyBool(csp.BCmp(core.Eq, st.CircuitNext[i], csp.IConst(t)))
			sel[i][t] = lit
			row = append(row, lit)
			nodeIndex[i][t] = len(lineActive)
			lineActive = append(lineActive, lit)
		}
		nz.norm.AddConstraint(normcsp.Constraint{BoolLits: row})
	}

	for t := 0; t < n; t++ {
		for i := 0; i < n; i++ {
			if i == t || nodeIndex[i][t] < 0 {
				continue
			}
			for j := i + 1; j < n; j++ {
				if j == t || nodeIndex[j][t] < 0 {
					continue
				}
				nz.norm.AddConstraint(normcsp.Constraint{
					BoolLits: []normcsp.BoolLit{sel[i][t].Negate(), sel[j][t].Negate()},
				})
			}
		}
	}

	var lineEdges []normcsp.ConnectivityEdge
	for i := 0; i < n; i++ {
		for t := 0; t < n; t++ {
			if t == i {
				continue
			}
			for u := 0; u < n; u++ {
				if u == t || nodeIndex[t][u] < 0 {
					continue
				}
				lineEdges = append(lineEdges, normcsp.ConnectivityEdge{U: nodeIndex[i][t], V: nodeIndex[t][u]})
			}
		}
	}

	nz.norm.AddExtraConstraint(normcsp.NewExtraConnected(lineActive, lineEdges))
}

// normalizeExtensionSupports either passes the support table through
// natively or, when native support is disabled,
// expands it with one auxiliary "row selected" boolean per admissible row:
// the row boolean implies every fixed column of that row, and at least one
// row boolean must hold.
func (nz *Normalizer) normalizeExtensionSupports(st csp.Statement) {
	varSums := make([]normcsp.LinearSum, len(st.ExtVars))
	for i, v := range st.ExtVars {
		varSums[i] = nz.normalizeIntExpr(v)
	}

	if nz.opts.UseNativeExtensionSupports {
		vars := make([]normcsp.NIntVar, len(varSums))
		domains := make([]core.IntDomain, len(st.ExtVars))
		for i, v := range st.ExtVars {
			domains[i] = nz.inferDomain(v)
			vars[i] = nz.materializeIntVar(varSums[i], domains[i])
		}
		rows := make([]normcsp.ExtensionRow, len(st.ExtRows))
		for i, row := range st.ExtRows {
			rows[i] = normcsp.ExtensionRow(row)
		}
		nz.norm.AddExtraConstraint(normcsp.NewExtraExtensionSupports(vars, rows))
		return
	}

	var rowLits []normcsp.BoolLit
	for _, row := range st.ExtRows {
		rowVar := nz.norm.NewBoolVar()
		rowLit := normcsp.Lit(rowVar)
		rowLits = append(rowLits, rowLit)
		for i, cell := range row {
			if cell == nil {
				continue
			}
			sum := varSums[i]
			sum.Constant -= *cell
			nz.norm.AddConstraint(normcsp.Constraint{
				BoolLits:   []normcsp.BoolLit{rowLit.Negate()},
				LinearLits: []normcsp.LinearLit{normcsp.NewLinearLit(sum, core.Eq)},
			})
		}
	}
	nz.norm.AddConstraint(normcsp.Constraint{BoolLits: rowLits})
}

// normalizeGraphDivision reifies each region-size term and every edge
// literal, then forwards the constraint to the encoder. The edge literals
// are always reified (the propagator's decided/potential union-find is
// driven entirely off their truth value); DivMode is copied onto the extra
// constraint and changes neither the reification nor the encoding.
func (nz *Normalizer) normalizeGraphDivision(st csp.Statement) {
	sizeVars := make([]normcsp.NIntVar, len(st.RegionSizeVars))
	hasSize := make([]bool, len(st.RegionSizeVars))
	for i, s := range st.RegionSizeVars {
		if s == nil {
			continue
		}
		sum := nz.normalizeIntExpr(s)
		sizeVars[i] = nz.materializeIntVar(sum, nz.inferDomain(s))
		hasSize[i] = true
	}

	edges := make([]normcsp.ConnectivityEdge, len(st.DivEdges))
	for i, e := range st.DivEdges {
		edges[i] = normcsp.ConnectivityEdge{U: e.U, V: e.V}
	}

	edgeLits := make([]normcsp.BoolLit, len(st.EdgeLits))
	for i, l := range st.EdgeLits {
		if l != nil {
			edgeLits[i] = nz.reifyBool(l)
		} else {
			edgeLits[i] = nz.trueLit()
		}
	}

	mode := normcsp.GraphDivisionMode(st.DivOptions.Mode)
	nz.norm.AddExtraConstraint(normcsp.NewExtraGraphDivision(sizeVars, hasSize, edges, edgeLits, mode, st.DivOptions.AllowEmptyRegion))
}

// normalizeCustomConstraint reifies the caller-supplied inputs; the
// generator itself is invoked later by the encoder once final SAT literals
// are known, so nothing else is done here beyond ensuring each input has a
// NormCSP literal to carry forward.
func (nz *Normalizer) normalizeCustomConstraint(st csp.Statement) {
	inputs := make([]normcsp.BoolLit, len(st.CustomInputs))
	for i, in := range st.CustomInputs {
		inputs[i] = nz.reifyBool(in)
	}
	gen := normcsp.CustomPropagatorGenerator(st.CustomGenerator)
	nz.norm.AddExtraConstraint(normcsp.NewExtraCustomConstraint(inputs, gen))
}
