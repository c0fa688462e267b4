// Package knn finds the k nearest neighbors of every cell in an embedding
// matrix, by Euclidean distance by default or cosine distance via
// Options.Metric. It offers an exact brute-force mode and an
// approximate HNSW mode for large cell counts; both return neighbor lists
// sorted by (distance, cell index) so that ties at the k-th neighbor always
// resolve to the lower index.
package knn

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/dd0wney/cluso-snn/pkg/embedding"
)

// Common sentinel errors
var (
	ErrInvalidK  = errors.New("k must be > 0")
	ErrKTooLarge = errors.New("k must be less than the number of cells")
)

// Mode selects the search strategy.
type Mode string

const (
	// ModeExact computes all pairwise distances. O(N^2 * D), exact recall.
	ModeExact Mode = "exact"
	// ModeApprox uses an HNSW index. Near-linear build and search; recall is
	// bounded by the ef parameters (>= 0.9 at the defaults on typical
	// embeddings, see the hnsw tests) but not guaranteed to be 1.0.
	ModeApprox Mode = "approx"
	// ModeAuto picks exact below AutoExactThreshold cells, approx above.
	ModeAuto Mode = "auto"
)

// AutoExactThreshold is the cell count above which ModeAuto switches to the
// approximate index.
const AutoExactThreshold = 20000

// Options configures a neighbor search.
type Options struct {
	Mode    Mode
	Workers int // 0 = GOMAXPROCS

	// Metric selects the distance function; the zero value means
	// Euclidean. Cosine compares direction only, ignoring magnitude.
	Metric embedding.DistanceMetric

	// HNSW parameters, used by ModeApprox only.
	M              int   // bi-directional links per node (default 16)
	EfConstruction int   // candidate list size during build (default 200)
	EfSearch       int   // candidate list size during search (default 4*k)
	Seed           int64 // level generator seed (default 42)
}

// DefaultOptions returns the search defaults.
func DefaultOptions() Options {
	return Options{
		Mode:           ModeAuto,
		Workers:        runtime.GOMAXPROCS(0),
		M:              16,
		EfConstruction: 200,
		Seed:           42,
	}
}

// Neighbors holds the k nearest neighbors of every cell, self excluded.
// Lists[i] is sorted ascending by (distance, index); Dists[i] carries the
// matching Euclidean distances.
type Neighbors struct {
	K     int
	Lists [][]int32
	Dists [][]float32
}

// Search finds the k nearest neighbors of every cell in m.
// Non-finite values are rejected at Matrix construction, so m is assumed
// finite here.
func Search(m *embedding.Matrix, k int, opts Options) (*Neighbors, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidK, k)
	}
	if k >= m.Len() {
		return nil, fmt.Errorf("%w: k=%d, cells=%d", ErrKTooLarge, k, m.Len())
	}

	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}

	mode := opts.Mode
	if mode == ModeAuto || mode == "" {
		if m.Len() > AutoExactThreshold {
			mode = ModeApprox
		} else {
			mode = ModeExact
		}
	}

	switch mode {
	case ModeExact:
		return searchExact(m, k, opts.Workers, opts.Metric), nil
	case ModeApprox:
		return searchApprox(m, k, opts)
	default:
		return nil, fmt.Errorf("unknown search mode %q", mode)
	}
}

// metricKernel returns the raw comparison function for a metric and the
// finalizer mapping raw values to reported distances. Euclidean compares
// in squared form on the hot path and takes the root only on output;
// cosine raw values are already final.
func metricKernel(metric embedding.DistanceMetric) (func(a, b []float32) float32, func(float32) float32) {
	if metric == embedding.MetricCosine {
		return embedding.Cosine, func(v float32) float32 { return v }
	}
	return embedding.SquaredEuclidean, func(v float32) float32 {
		return float32(math.Sqrt(float64(v)))
	}
}
