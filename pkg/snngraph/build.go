package snngraph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dd0wney/cluso-snn/pkg/knn"
	"github.com/dd0wney/cluso-snn/pkg/parallel"
)

// ErrInvalidPrune is returned for prune thresholds outside [0, 1).
var ErrInvalidPrune = errors.New("prune threshold must be in [0, 1)")

// Options configures shared-neighbor graph construction.
type Options struct {
	// PruneThreshold drops edges whose Jaccard weight is <= the threshold.
	// The default 0 drops zero-weight edges only. This default is a choice,
	// not bit-for-bit parity with any particular toolkit; callers needing a
	// specific pruning behavior should set it explicitly.
	PruneThreshold float32

	// Unweighted replaces every surviving edge's Jaccard weight with 1.
	// Pruning still applies to the underlying Jaccard value.
	Unweighted bool

	Workers int
}

// Build derives the shared-nearest-neighbor graph from per-cell neighbor
// lists. Cells i and j are connected when either appears in the other's
// k-NN list, weighted by the Jaccard similarity of their neighbor sets
// (each cell's own k-NN list plus itself). Construction is deterministic:
// the same neighbor lists always produce identical CSR arrays.
func Build(nb *knn.Neighbors, opts Options) (*Graph, error) {
	if opts.PruneThreshold < 0 || opts.PruneThreshold >= 1 {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidPrune, opts.PruneThreshold)
	}

	n := int32(len(nb.Lists))

	// Sorted neighbor sets, each including the owning cell
	sets := make([][]int32, n)
	parallel.ForEachRange(int(n), opts.Workers, func(i int) {
		set := make([]int32, 0, len(nb.Lists[i])+1)
		set = append(set, nb.Lists[i]...)
		set = append(set, int32(i))
		sort.Slice(set, func(a, b int) bool { return set[a] < set[b] })
		sets[i] = set
	})

	// Each worker fills only its own rows; the mirror direction is added
	// sequentially afterwards so no cross-row writes race.
	fwdIDs := make([][]int32, n)
	fwdWts := make([][]float32, n)

	parallel.ForEachRange(int(n), opts.Workers, func(ii int) {
		i := int32(ii)
		for _, j := range nb.Lists[i] {
			if !ownsPair(sets, i, j) {
				continue
			}
			w := jaccard(sets[i], sets[j])
			if w <= opts.PruneThreshold {
				continue
			}
			if opts.Unweighted {
				w = 1
			}
			fwdIDs[i] = append(fwdIDs[i], j)
			fwdWts[i] = append(fwdWts[i], w)
		}
	})

	ids := make([][]int32, n)
	wts := make([][]float32, n)
	for i := int32(0); i < n; i++ {
		for t, j := range fwdIDs[i] {
			w := fwdWts[i][t]
			ids[i] = append(ids[i], j)
			wts[i] = append(wts[i], w)
			ids[j] = append(ids[j], i)
			wts[j] = append(wts[j], w)
		}
	}

	// Sort rows by neighbor id for the binary-search accessor
	parallel.ForEachRange(int(n), opts.Workers, func(i int) {
		row := ids[i]
		wrow := wts[i]
		sort.Sort(&rowSorter{ids: row, wts: wrow})
	})

	return fromEdgeLists(n, ids, wts), nil
}

// ownsPair reports whether cell i is responsible for emitting the edge
// (i, j). Every unordered pair is owned exactly once: by the lower index,
// unless only the higher index's k-NN list contains the pair.
func ownsPair(sets [][]int32, i, j int32) bool {
	if i < j {
		return true
	}
	// j < i: emit from i only when j's own list does not already cover it
	return !contains(sets[j], i)
}

// contains reports whether sorted set holds id.
func contains(set []int32, id int32) bool {
	lo, hi := 0, len(set)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case set[mid] == id:
			return true
		case set[mid] < id:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return false
}

// jaccard computes |a ∩ b| / |a ∪ b| over two sorted id sets.
func jaccard(a, b []int32) float32 {
	inter := 0
	x, y := 0, 0
	for x < len(a) && y < len(b) {
		switch {
		case a[x] == b[y]:
			inter++
			x++
			y++
		case a[x] < b[y]:
			x++
		default:
			y++
		}
	}

	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float32(inter) / float32(union)
}

type rowSorter struct {
	ids []int32
	wts []float32
}

func (r *rowSorter) Len() int           { return len(r.ids) }
func (r *rowSorter) Less(i, j int) bool { return r.ids[i] < r.ids[j] }
func (r *rowSorter) Swap(i, j int) {
	r.ids[i], r.ids[j] = r.ids[j], r.ids[i]
	r.wts[i], r.wts[j] = r.wts[j], r.wts[i]
}
