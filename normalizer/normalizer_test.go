package normalizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xDarkicex/cspcore/core"
	"github.com/xDarkicex/cspcore/csp"
)

func TestNormalize_BoolVarRef_EmitsUnitClause(t *testing.T) {
	c := csp.NewCSP()
	x := c.NewBoolVar()
	c.AddConstraint(csp.StmtFromExpr(csp.BVar(x)))

	norm, mapping := NormalizeWithMapping(c, DefaultOptions())
	require.Len(t, norm.Constraints(), 1)
	require.Len(t, norm.Constraints()[0].BoolLits, 1)

	lit, _, ok := mapping.BoolLit(x)
	require.True(t, ok)
	require.Equal(t, lit, norm.Constraints()[0].BoolLits[0])
}

func TestNormalize_Or_FlattensToSingleClause(t *testing.T) {
	c := csp.NewCSP()
	x := c.NewBoolVar()
	y := c.NewBoolVar()
	c.AddConstraint(csp.StmtFromExpr(csp.BOr(csp.BVar(x), csp.BVar(y))))

	norm, _ := NormalizeWithMapping(c, DefaultOptions())
	require.Len(t, norm.Constraints(), 1)
	require.Len(t, norm.Constraints()[0].BoolLits, 2)
}

func TestNormalize_And_ProducesOneClausePerConjunct(t *testing.T) {
	c := csp.NewCSP()
	x := c.NewBoolVar()
	y := c.NewBoolVar()
	c.AddConstraint(csp.StmtFromExpr(csp.BAnd(csp.BVar(x), csp.BVar(y))))

	norm, _ := NormalizeWithMapping(c, DefaultOptions())
	require.Len(t, norm.Constraints(), 2)
}

func TestNormalize_Xor_ProducesTwoClauses(t *testing.T) {
	c := csp.NewCSP()
	x := c.NewBoolVar()
	y := c.NewBoolVar()
	c.AddConstraint(csp.StmtFromExpr(csp.BXor(csp.BVar(x), csp.BVar(y))))

	// Merging would consume a bare top-level Xor(Var, Var) as an alias;
	// disable it so the clause-emission path itself is what runs.
	opts := DefaultOptions()
	opts.MergeEquivalentVariables = false
	norm, _ := NormalizeWithMapping(c, opts)
	require.Len(t, norm.Constraints(), 2)
	for _, cc := range norm.Constraints() {
		require.Len(t, cc.BoolLits, 2)
	}
}

func TestNormalize_Cmp_ProducesLinearLit(t *testing.T) {
	c := csp.NewCSP()
	a := c.NewIntVarRange(0, 5)
	b := c.NewIntVarRange(0, 5)
	c.AddConstraint(csp.StmtFromExpr(csp.BCmp(core.Lt, csp.IVar(a), csp.IVar(b))))

	norm, _ := NormalizeWithMapping(c, DefaultOptions())
	require.Len(t, norm.Constraints(), 1)
	require.Len(t, norm.Constraints()[0].LinearLits, 1)
	require.Equal(t, core.Lt, norm.Constraints()[0].LinearLits[0].Op)
}

func TestNormalize_RemovedBoolVar_NeverMaterializesNormVar(t *testing.T) {
	c := csp.NewCSP()
	x := c.NewBoolVar()
	c.SetBoolVarStatus(x, csp.BoolVarStatus{Fixed: true, Value: true})
	c.AddConstraint(csp.StmtFromExpr(csp.BConst(true)))

	norm, mapping := NormalizeWithMapping(c, DefaultOptions())
	require.Equal(t, 0, norm.NumBoolVars())
	_, value, ok := mapping.BoolLit(x)
	require.False(t, ok)
	require.True(t, value)
}

func TestNormalize_AllDifferent_ProducesPairwiseNeClauses(t *testing.T) {
	c := csp.NewCSP()
	a := c.NewIntVarRange(1, 3)
	b := c.NewIntVarRange(1, 3)
	cc := c.NewIntVarRange(1, 3)
	c.AddConstraint(csp.StmtAllDiff(csp.IVar(a), csp.IVar(b), csp.IVar(cc)))

	opts := DefaultOptions()
	opts.AllDifferentBijectionConstraints = false
	norm, _ := NormalizeWithMapping(c, opts)
	// 3 choose 2 pairwise Ne constraints.
	require.Len(t, norm.Constraints(), 3)
	for _, con := range norm.Constraints() {
		require.Equal(t, core.Ne, con.LinearLits[0].Op)
	}
}

func TestNormalize_IntVarSingleton_RemovedFromNormCSP(t *testing.T) {
	c := csp.NewCSP()
	v := c.NewIntVarRange(4, 4)
	c.AddConstraint(csp.StmtFromExpr(csp.BCmp(core.Eq, csp.IVar(v), csp.IConst(4))))

	norm, mapping := NormalizeWithMapping(c, DefaultOptions())
	require.Equal(t, 0, norm.NumIntVars())
	_, value, ok := mapping.IntVar(v)
	require.False(t, ok)
	require.Equal(t, 4, value)
}

func TestNormalize_EquivalenceMerging_AliasesIffVars(t *testing.T) {
	c := csp.NewCSP()
	x := c.NewBoolVar()
	y := c.NewBoolVar()
	c.AddConstraint(csp.StmtFromExpr(csp.BIff(csp.BVar(x), csp.BVar(y))))

	opts := DefaultOptions()
	opts.MergeEquivalentVariables = true
	norm, mapping := NormalizeWithMapping(c, opts)

	// Merging should consume the Iff statement entirely: no constraints, and
	// x/y share (up to negation) the same underlying NormCSP literal.
	require.Empty(t, norm.Constraints())
	litX, _, ok := mapping.BoolLit(x)
	require.True(t, ok)
	litY, _, ok := mapping.BoolLit(y)
	require.True(t, ok)
	require.Equal(t, litX.Var, litY.Var)
}
