package sat

// XORClause is a parity constraint over variables: the XOR of their truth
// values must equal RHS. The encoders never emit these directly (Xor/Iff
// compile to plain clauses via Tseitin), but the resulting complementary
// binary-clause pairs are exactly recoverable, and the preprocessor's
// recoverXORs pass rebuilds them into this shape and runs the eliminated
// system's forced facts back into the clause database before search.
type XORClause struct {
	Vars []Var
	RHS  bool
}

// GaussianEliminator performs Gauss-Jordan elimination over GF(2) on a
// system of XORClause rows, condensed down to a pure standalone solve
// invoked from the preprocessor at decision level 0: there is no ongoing
// mid-search XOR propagation here, so the conflict-frequency scheduling and
// auto-disable machinery a live in-search eliminator needs has no home and
// is dropped (see DESIGN.md).
type GaussianEliminator struct {
	stats GaussianStats
}

// GaussianStats tracks elimination outcomes across calls to Eliminate.
type GaussianStats struct {
	Runs                int64
	VariablesEliminated int64
	ConflictsFound      int64
}

func NewGaussianEliminator() *GaussianEliminator {
	return &GaussianEliminator{}
}

func (ge *GaussianEliminator) Stats() GaussianStats { return ge.stats }

// Eliminate reduces system to row-echelon form over GF(2) and reports any
// variable forced to a single value by the reduction, plus whether the
// system is consistent. A variable assigned in fixed already participates
// as a constant during elimination (rows are reduced modulo it).
func (ge *GaussianEliminator) Eliminate(system []XORClause, fixed map[Var]bool) (forced map[Var]bool, consistent bool) {
	ge.stats.Runs++
	cols := make(map[Var]int)
	colVar := []Var{}
	for _, row := range system {
		for _, v := range row.Vars {
			if _, ok := fixed[v]; ok {
				continue
			}
			if _, seen := cols[v]; !seen {
				cols[v] = len(colVar)
				colVar = append(colVar, v)
			}
		}
	}
	nCols := len(colVar)

	rows := make([][]bool, 0, len(system))
	rhs := make([]bool, 0, len(system))
	for _, row := range system {
		r := make([]bool, nCols)
		parity := row.RHS
		for _, v := range row.Vars {
			if val, ok := fixed[v]; ok {
				if val {
					parity = !parity
				}
				continue
			}
			r[cols[v]] = !r[cols[v]]
		}
		rows = append(rows, r)
		rhs = append(rhs, parity)
	}

	pivotRow := 0
	pivotCol := make([]int, 0, nCols)
	for col := 0; col < nCols && pivotRow < len(rows); col++ {
		sel := -1
		for r := pivotRow; r < len(rows); r++ {
			if rows[r][col] {
				sel = r
				break
			}
		}
		if sel == -1 {
			continue
		}
		rows[pivotRow], rows[sel] = rows[sel], rows[pivotRow]
		rhs[pivotRow], rhs[sel] = rhs[sel], rhs[pivotRow]
		for r := 0; r < len(rows); r++ {
			if r != pivotRow && rows[r][col] {
				xorRow(rows[r], rows[pivotRow])
				rhs[r] = rhs[r] != rhs[pivotRow]
			}
		}
		pivotCol = append(pivotCol, col)
		pivotRow++
	}

	for r := pivotRow; r < len(rows); r++ {
		allZero := true
		for _, b := range rows[r] {
			if b {
				allZero = false
				break
			}
		}
		if allZero && rhs[r] {
			ge.stats.ConflictsFound++
			return nil, false
		}
	}

	forced = make(map[Var]bool)
	for r, col := range pivotCol {
		weight := 0
		for _, b := range rows[r] {
			if b {
				weight++
			}
		}
		if weight == 1 {
			forced[colVar[col]] = rhs[r]
			ge.stats.VariablesEliminated++
		}
	}
	return forced, true
}

func xorRow(dst, src []bool) {
	for i := range dst {
		dst[i] = dst[i] != src[i]
	}
}
