package snngraph

import "sort"

// Aggregate contracts each community into a super-node and returns the
// quotient graph. Edges between communities sum their weights; edges inside
// a community become a self loop on its super-node, preserving the total
// weight (and therefore the modularity denominator) of the original graph.
// labels must map every node to a community id in [0, nComm).
func (g *Graph) Aggregate(labels []int32, nComm int32) *Graph {
	ids := make([][]int32, nComm)
	wts := make([][]float32, nComm)

	// Accumulate row by row; scratch maps one super-node row at a time
	// would lose determinism, so collect then sort and merge instead.
	type halfEdge struct {
		to int32
		w  float32
	}
	rows := make([][]halfEdge, nComm)

	for u := int32(0); u < g.N; u++ {
		cu := labels[u]
		for idx := g.Indptr[u]; idx < g.Indptr[u+1]; idx++ {
			v := g.Indices[idx]
			cv := labels[v]

			if u == v {
				// Existing self loop carries over once
				rows[cu] = append(rows[cu], halfEdge{to: cv, w: g.Weights[idx]})
				continue
			}
			if cu == cv {
				// Internal edge: both directions land here, so halve each
				// contribution to store the loop weight once
				rows[cu] = append(rows[cu], halfEdge{to: cv, w: g.Weights[idx] / 2})
				continue
			}
			rows[cu] = append(rows[cu], halfEdge{to: cv, w: g.Weights[idx]})
		}
	}

	for c := int32(0); c < nComm; c++ {
		row := rows[c]
		sort.Slice(row, func(a, b int) bool { return row[a].to < row[b].to })

		for _, e := range row {
			last := len(ids[c]) - 1
			if last >= 0 && ids[c][last] == e.to {
				wts[c][last] += e.w
				continue
			}
			ids[c] = append(ids[c], e.to)
			wts[c] = append(wts[c], e.w)
		}
	}

	return fromEdgeLists(nComm, ids, wts)
}
