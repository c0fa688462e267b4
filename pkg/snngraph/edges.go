package snngraph

import "sort"

// Edge is one undirected weighted edge. U == V denotes a self loop.
type Edge struct {
	U, V int32
	W    float32
}

// FromEdges builds a Graph from an explicit edge list over n nodes.
// Duplicate (U, V) pairs sum their weights. Intended for fixtures and for
// callers that already hold a graph in edge-list form.
func FromEdges(n int32, edges []Edge) *Graph {
	ids := make([][]int32, n)
	wts := make([][]float32, n)

	for _, e := range edges {
		ids[e.U] = append(ids[e.U], e.V)
		wts[e.U] = append(wts[e.U], e.W)
		if e.U != e.V {
			ids[e.V] = append(ids[e.V], e.U)
			wts[e.V] = append(wts[e.V], e.W)
		}
	}

	for i := int32(0); i < n; i++ {
		sort.Sort(&rowSorter{ids: ids[i], wts: wts[i]})

		// Merge duplicates in place
		out := 0
		for in := 0; in < len(ids[i]); in++ {
			if out > 0 && ids[i][out-1] == ids[i][in] {
				wts[i][out-1] += wts[i][in]
				continue
			}
			ids[i][out] = ids[i][in]
			wts[i][out] = wts[i][in]
			out++
		}
		ids[i] = ids[i][:out]
		wts[i] = wts[i][:out]
	}

	return fromEdgeLists(n, ids, wts)
}
