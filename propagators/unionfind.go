// Package propagators implements the custom CDCL propagators for
// graph-division, graph-connectivity, extension/support tables, and
// order-encoding linear sums, each a sat.Propagator plugged into the
// backend via sat.Backend.AddPropagator.
package propagators

// unionFind is a standard union-by-size, path-compressing disjoint-set
// structure over dense vertex indices [0, n), used by both the
// graph-division and graph-connectivity propagators to answer "same region"
// queries in near-constant time when rebuilding decided/potential region
// views.
type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), size: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
		uf.size[i] = 1
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

// union merges x and y's sets, returning the new root.
func (uf *unionFind) union(x, y int) int {
	rx, ry := uf.find(x), uf.find(y)
	if rx == ry {
		return rx
	}
	if uf.size[rx] < uf.size[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	return rx
}

func (uf *unionFind) connected(x, y int) bool { return uf.find(x) == uf.find(y) }
