package knn

import (
	"container/heap"
	"sort"

	"github.com/dd0wney/cluso-snn/pkg/embedding"
	"github.com/dd0wney/cluso-snn/pkg/parallel"
)

// searchExact computes every pairwise distance and keeps the k nearest per
// cell. Work is partitioned by cell-index ranges; each worker writes only
// its own rows of the output arrays.
func searchExact(m *embedding.Matrix, k, workers int, metric embedding.DistanceMetric) *Neighbors {
	n := m.Len()
	lists := make([][]int32, n)
	dists := make([][]float32, n)

	kernel, final := metricKernel(metric)
	parallel.ForEachRange(n, workers, func(i int) {
		lists[i], dists[i] = exactRow(m, i, k, kernel, final)
	})

	return &Neighbors{K: k, Lists: lists, Dists: dists}
}

// exactRow finds the k nearest neighbors of cell i with a bounded max-heap.
func exactRow(m *embedding.Matrix, i, k int, kernel func(a, b []float32) float32, final func(float32) float32) ([]int32, []float32) {
	row := m.Row(i)
	h := make(maxHeap, 0, k+1)

	for j := 0; j < m.Len(); j++ {
		if j == i {
			continue
		}
		c := candidate{id: int32(j), dist: kernel(row, m.Row(j))}

		if len(h) < k {
			heap.Push(&h, c)
			continue
		}
		// Root holds the current worst of the k kept; displace it when the
		// new candidate ranks strictly earlier.
		if h[0].worse(c) {
			h[0] = c
			heap.Fix(&h, 0)
		}
	}

	out := make([]candidate, len(h))
	copy(out, h)
	sort.Slice(out, func(a, b int) bool { return out[b].worse(out[a]) })

	ids := make([]int32, len(out))
	ds := make([]float32, len(out))
	for t, c := range out {
		ids[t] = c.id
		ds[t] = final(c.dist)
	}
	return ids, ds
}
