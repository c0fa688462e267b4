// Package snngraph builds and stores the shared-nearest-neighbor graph used
// for clustering. Nodes are compact integer ids over the same index space
// as the embedding matrix; adjacency lives in CSR arrays so per-edge access
// during optimization stays O(1) with no map lookups.
package snngraph

// Graph is an undirected weighted graph in CSR form. Every undirected edge
// (i, j) with i != j is stored twice, once in each endpoint's row; a self
// loop is stored once and contributes twice its weight to the node degree.
type Graph struct {
	N       int32
	Indptr  []int32   // row offsets, length N+1
	Indices []int32   // column ids, sorted within each row
	Weights []float32 // edge weights, parallel to Indices

	Degree      []float64 // weighted degree per node, self loops counted twice
	TotalWeight float64   // sum of all degrees = 2m
}

// NumEdges returns the number of undirected edges, self loops included.
func (g *Graph) NumEdges() int {
	selfLoops := 0
	for i := int32(0); i < g.N; i++ {
		for idx := g.Indptr[i]; idx < g.Indptr[i+1]; idx++ {
			if g.Indices[idx] == i {
				selfLoops++
			}
		}
	}
	return (len(g.Indices)-selfLoops)/2 + selfLoops
}

// Neighbors returns the adjacency row of node i as (ids, weights) views.
// Callers must not modify the returned slices.
func (g *Graph) Neighbors(i int32) ([]int32, []float32) {
	lo, hi := g.Indptr[i], g.Indptr[i+1]
	return g.Indices[lo:hi], g.Weights[lo:hi]
}

// Weight returns the weight of edge (i, j), or 0 when no edge exists.
// Binary search over the sorted row.
func (g *Graph) Weight(i, j int32) float32 {
	lo, hi := g.Indptr[i], g.Indptr[i+1]
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case g.Indices[mid] == j:
			return g.Weights[mid]
		case g.Indices[mid] < j:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return 0
}

// fromEdgeLists assembles CSR arrays from per-node edge buckets. Each
// bucket row must already contain both directions of every edge.
func fromEdgeLists(n int32, ids [][]int32, weights [][]float32) *Graph {
	indptr := make([]int32, n+1)
	total := int32(0)
	for i := int32(0); i < n; i++ {
		indptr[i] = total
		total += int32(len(ids[i]))
	}
	indptr[n] = total

	indices := make([]int32, total)
	wts := make([]float32, total)
	degree := make([]float64, n)
	totalWeight := 0.0

	pos := 0
	for i := int32(0); i < n; i++ {
		for t, j := range ids[i] {
			w := weights[i][t]
			indices[pos] = j
			wts[pos] = w
			pos++

			if j == i {
				degree[i] += 2 * float64(w)
			} else {
				degree[i] += float64(w)
			}
		}
		totalWeight += degree[i]
	}

	return &Graph{
		N:           n,
		Indptr:      indptr,
		Indices:     indices,
		Weights:     wts,
		Degree:      degree,
		TotalWeight: totalWeight,
	}
}
