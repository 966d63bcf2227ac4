package cspcore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xDarkicex/cspcore/core"
	"github.com/xDarkicex/cspcore/csp"
)

// Two bools with every pairwise XOR combination of clauses
// over them, which is jointly unsatisfiable.
func TestSolve_TwoBoolXorClosure_UNSAT(t *testing.T) {
	f := NewFacade(DefaultConfig())
	x := f.NewBoolVar()
	y := f.NewBoolVar()

	f.AddConstraint(csp.StmtFromExpr(csp.BOr(csp.BVar(x), csp.BVar(y))))
	f.AddConstraint(csp.StmtFromExpr(csp.BOr(csp.BVar(x), csp.BNot(csp.BVar(y)))))
	f.AddConstraint(csp.StmtFromExpr(csp.BOr(csp.BNot(csp.BVar(x)), csp.BVar(y))))
	f.AddConstraint(csp.StmtFromExpr(csp.BOr(csp.BNot(csp.BVar(x)), csp.BNot(csp.BVar(y)))))

	_, ok := f.Solve()
	require.False(t, ok)
}

// A unique model x=true, y=false.
func TestSolve_TwoBoolUniqueModel(t *testing.T) {
	f := NewFacade(DefaultConfig())
	x := f.NewBoolVar()
	y := f.NewBoolVar()

	f.AddConstraint(csp.StmtFromExpr(csp.BOr(csp.BVar(x), csp.BVar(y))))
	f.AddConstraint(csp.StmtFromExpr(csp.BOr(csp.BVar(x), csp.BNot(csp.BVar(y)))))
	f.AddConstraint(csp.StmtFromExpr(csp.BOr(csp.BNot(csp.BVar(x)), csp.BNot(csp.BVar(y)))))

	a, ok := f.Solve()
	require.True(t, ok)
	require.True(t, a.Bools[x])
	require.False(t, a.Bools[y])
}

// a+b>=3, a>b over a,b in [0,2] forces a=2, b=1.
func TestSolve_IntLinear_ForcedValues(t *testing.T) {
	f := NewFacade(DefaultConfig())
	a := f.NewIntVarRange(0, 2)
	b := f.NewIntVarRange(0, 2)

	sum := csp.ILinear(csp.Term(csp.IVar(a), 1), csp.Term(csp.IVar(b), 1))
	f.AddConstraint(csp.StmtFromExpr(csp.BCmp(core.Ge, sum, csp.IConst(3))))
	f.AddConstraint(csp.StmtFromExpr(csp.BCmp(core.Gt, csp.IVar(a), csp.IVar(b))))

	model, ok := f.Solve()
	require.True(t, ok)
	require.Equal(t, 2, model.Ints[a])
	require.Equal(t, 1, model.Ints[b])
}

// Five bools chained by pairwise XOR with a closing OR forces
// the unique all-alternating model.
func TestSolve_FiveBoolXorChain_UniqueAlternatingModel(t *testing.T) {
	f := NewFacade(DefaultConfig())
	vars := make([]csp.BoolVar, 5)
	for i := range vars {
		vars[i] = f.NewBoolVar()
	}

	for i := 0; i < len(vars)-1; i++ {
		f.AddConstraint(csp.StmtFromExpr(csp.BXor(csp.BVar(vars[i]), csp.BVar(vars[i+1]))))
	}
	refs := make([]*csp.BoolExpr, len(vars))
	for i, v := range vars {
		refs[i] = csp.BVar(v)
	}
	f.AddConstraint(csp.StmtFromExpr(csp.BOr(refs...)))

	model, ok := f.Solve()
	require.True(t, ok)
	for i := 0; i < len(vars)-1; i++ {
		require.NotEqual(t, model.Bools[vars[i]], model.Bools[vars[i+1]])
	}
	atLeastOneTrue := false
	for _, v := range vars {
		atLeastOneTrue = atLeastOneTrue || model.Bools[v]
	}
	require.True(t, atLeastOneTrue)
}

// Three ints in [1,2] with pairwise != is UNSAT (a pigeonhole:
// three values can't be pairwise distinct over a 2-element domain).
func TestSolve_ThreeIntsPairwiseNe_UNSAT(t *testing.T) {
	f := NewFacade(DefaultConfig())
	a := f.NewIntVarRange(1, 2)
	b := f.NewIntVarRange(1, 2)
	c := f.NewIntVarRange(1, 2)

	f.AddConstraint(csp.StmtAllDiff(csp.IVar(a), csp.IVar(b), csp.IVar(c)))

	_, ok := f.Solve()
	require.False(t, ok)
}

// AllDifferent over a,b,c in [1,3], d in [1,4] with every
// variable as an answer key yields the irrefutable fact d=4, with a, b, c
// left unfixed (they permute freely across models).
func TestIrrefutableFacts_AllDifferent_ForcesD(t *testing.T) {
	f := NewFacade(DefaultConfig())
	a := f.NewIntVarRange(1, 3)
	b := f.NewIntVarRange(1, 3)
	c := f.NewIntVarRange(1, 3)
	d := f.NewIntVarRange(1, 4)

	f.AddConstraint(csp.StmtAllDiff(csp.IVar(a), csp.IVar(b), csp.IVar(c), csp.IVar(d)))

	facts, ok := f.IrrefutableFacts(nil, []csp.IntVar{a, b, c, d})
	require.True(t, ok)
	require.Equal(t, 4, facts.Ints[d])
	_, aFixed := facts.Ints[a]
	_, bFixed := facts.Ints[b]
	_, cFixed := facts.Ints[c]
	require.False(t, aFixed)
	require.False(t, bFixed)
	require.False(t, cFixed)
}

// AnswerIter over a single unconstrained answer-key bool yields both of its
// values and then stops, with Next returning false and Err reporting nil.
func TestAnswerIter_EnumeratesDistinctModels(t *testing.T) {
	f := NewFacade(DefaultConfig())
	x := f.NewBoolVar()
	f.AddAnswerKeyBool(x)

	it := f.AnswerIter([]csp.BoolVar{x}, nil)
	seen := map[bool]bool{}
	count := 0
	for it.Next() {
		count++
		require.LessOrEqual(t, count, 4, "answer_iter must terminate")
		a := it.Assignment()
		seen[a.Bools[x]] = true
	}
	require.NoError(t, it.Err())
	require.Len(t, seen, 2)
}

// AddConstraint after the instance has already solved once is misuse and
// panics with a *core.LogicError.
func TestAddConstraint_AfterEncode_Panics(t *testing.T) {
	f := NewFacade(DefaultConfig())
	x := f.NewBoolVar()
	f.AddConstraint(csp.StmtFromExpr(csp.BVar(x)))
	_, _ = f.Solve()

	require.Panics(t, func() {
		f.AddConstraint(csp.StmtFromExpr(csp.BVar(x)))
	})
}

func TestSolverStats_PopulatedAfterSolve(t *testing.T) {
	f := NewFacade(DefaultConfig())
	x := f.NewBoolVar()
	y := f.NewBoolVar()
	f.AddConstraint(csp.StmtFromExpr(csp.BOr(csp.BVar(x), csp.BVar(y))))

	_, ok := f.Solve()
	require.True(t, ok)

	stats := f.SolverStats()
	require.Equal(t, 2, stats.NormBoolVars)
	require.GreaterOrEqual(t, stats.Constraints, 1)
}

// A variable no constraint mentions still shows up in Solve's full model
// and stays unfixed in irrefutable facts: it is free, so both polarities
// occur across models.
func TestIrrefutableFacts_UnconstrainedKeyStaysUnfixed(t *testing.T) {
	f := NewFacade(DefaultConfig())
	x := f.NewBoolVar()
	free := f.NewBoolVar()
	f.AddConstraint(csp.StmtFromExpr(csp.BVar(x)))
	f.AddAnswerKeyBool(x, free)

	facts, ok := f.IrrefutableFacts([]csp.BoolVar{x, free}, nil)
	require.True(t, ok)
	require.True(t, facts.Bools[x])
	_, freeFixed := facts.Bools[free]
	require.False(t, freeFixed)
}

// Graph division end to end: a 1x4 path split into two regions of size 2
// by border variables, Slalom/Heyawake style. The only model cuts the
// middle edge.
func TestSolve_GraphDivision_PathSplit(t *testing.T) {
	f := NewFacade(DefaultConfig())
	sizeA := f.NewIntVarRange(2, 2)
	sizeB := f.NewIntVarRange(2, 2)
	borders := make([]*csp.BoolExpr, 3)
	borderVars := make([]csp.BoolVar, 3)
	for i := range borders {
		borderVars[i] = f.NewBoolVar()
		borders[i] = csp.BVar(borderVars[i])
	}

	sizes := []*csp.IntExpr{csp.IVar(sizeA), nil, nil, csp.IVar(sizeB)}
	edges := []csp.Edge{{U: 0, V: 1}, {U: 1, V: 2}, {U: 2, V: 3}}
	f.AddConstraint(csp.StmtGraphDiv(sizes, edges, borders, csp.GraphDivisionOptions{}))

	model, ok := f.Solve()
	require.True(t, ok)
	require.True(t, model.Bools[borderVars[0]])
	require.False(t, model.Bools[borderVars[1]])
	require.True(t, model.Bools[borderVars[2]])
}
