package knn

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/dd0wney/cluso-snn/pkg/embedding"
	"github.com/dd0wney/cluso-snn/pkg/parallel"
)

// hnswIndex is a Hierarchical Navigable Small World graph over the cells of
// one embedding matrix. Cells are inserted in index order with a seeded
// level generator, so the built graph (and every search against it) is
// fully reproducible for a given (matrix, options) pair.
type hnswIndex struct {
	data           *embedding.Matrix
	m              int     // bi-directional links per node
	mMax           int     // max connections for layers > 0
	mMax0          int     // max connections for layer 0
	efConstruction int     // candidate list size during build
	ml             float64 // level generation normalization factor
	rng            *rand.Rand

	kernel func(a, b []float32) float32 // raw distance on the hot path
	final  func(float32) float32        // raw value to reported distance

	levels   []int       // highest layer per cell
	friends  [][][]int32 // friends[cell][layer] = neighbor ids
	entry    int32       // entry point (highest-layer cell)
	maxLayer int
}

func newHNSW(m *embedding.Matrix, opts Options) *hnswIndex {
	links := opts.M
	if links <= 0 {
		links = 16
	}
	efc := opts.EfConstruction
	if efc <= 0 {
		efc = 200
	}
	seed := opts.Seed
	if seed == 0 {
		seed = 42
	}

	kernel, final := metricKernel(opts.Metric)

	return &hnswIndex{
		data:           m,
		kernel:         kernel,
		final:          final,
		m:              links,
		mMax:           links,
		mMax0:          links * 2,
		efConstruction: efc,
		ml:             1.0 / math.Log(float64(links)),
		rng:            rand.New(rand.NewSource(seed)),
		levels:         make([]int, m.Len()),
		friends:        make([][][]int32, m.Len()),
		entry:          -1,
		maxLayer:       -1,
	}
}

// searchApprox builds an HNSW index over m and queries it once per cell.
// The build is sequential; queries run in parallel against the frozen graph.
func searchApprox(m *embedding.Matrix, k int, opts Options) (*Neighbors, error) {
	idx := newHNSW(m, opts)

	build := &searcher{visited: make([]int32, m.Len())}
	for i := 0; i < m.Len(); i++ {
		idx.insert(int32(i), build)
	}

	ef := opts.EfSearch
	if ef <= 0 {
		ef = 4 * k
	}
	if ef < k+1 {
		ef = k + 1
	}

	pool := sync.Pool{New: func() any {
		return &searcher{visited: make([]int32, m.Len())}
	}}

	n := m.Len()
	lists := make([][]int32, n)
	dists := make([][]float32, n)

	parallel.ForEachRange(n, opts.Workers, func(i int) {
		s := pool.Get().(*searcher)
		lists[i], dists[i] = idx.query(int32(i), k, ef, s)
		pool.Put(s)
	})

	return &Neighbors{K: k, Lists: lists, Dists: dists}, nil
}

// query returns the k nearest cells to cell q, excluding q itself.
func (h *hnswIndex) query(q int32, k, ef int, s *searcher) ([]int32, []float32) {
	vec := h.data.Row(int(q))

	ep := h.entry
	for layer := h.maxLayer; layer > 0; layer-- {
		ep = h.greedyClosest(vec, ep, layer, s)
	}

	// ef+1 because the query cell itself is in the graph and will dominate
	found := h.searchLayer(vec, ep, ef+1, 0, s)

	sort.Slice(found, func(a, b int) bool { return found[b].worse(found[a]) })

	ids := make([]int32, 0, k)
	ds := make([]float32, 0, k)
	for _, c := range found {
		if c.id == q {
			continue
		}
		ids = append(ids, c.id)
		ds = append(ds, h.final(c.dist))
		if len(ids) == k {
			break
		}
	}
	return ids, ds
}

// selectLevel draws the layer for a new cell from the exponential decay
// distribution used by the original HNSW construction. Float64 can return
// exactly 0, which would send -log to +Inf; redraw until non-zero.
func (h *hnswIndex) selectLevel() int {
	u := h.rng.Float64()
	for u == 0 {
		u = h.rng.Float64()
	}
	return int(-math.Log(u) * h.ml)
}

func (h *hnswIndex) dist(a int32, vec []float32) float32 {
	return h.kernel(h.data.Row(int(a)), vec)
}
