package knn

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/dd0wney/cluso-snn/pkg/embedding"
)

// gridMatrix lays cells out on a 1-D line so expected neighbors are obvious
func gridMatrix(t *testing.T, n int) *embedding.Matrix {
	t.Helper()

	rows := make([][]float32, n)
	for i := range rows {
		rows[i] = []float32{float32(i), 0}
	}
	m, err := embedding.NewMatrix(rows)
	if err != nil {
		t.Fatalf("NewMatrix failed: %v", err)
	}
	return m
}

func randomMatrix(t *testing.T, n, dims int, seed int64) *embedding.Matrix {
	t.Helper()

	rng := rand.New(rand.NewSource(seed))
	rows := make([][]float32, n)
	for i := range rows {
		rows[i] = make([]float32, dims)
		for j := range rows[i] {
			rows[i][j] = float32(rng.NormFloat64())
		}
	}
	m, err := embedding.NewMatrix(rows)
	if err != nil {
		t.Fatalf("NewMatrix failed: %v", err)
	}
	return m
}

func TestSearch_ExactLine(t *testing.T) {
	m := gridMatrix(t, 5)

	nb, err := Search(m, 2, Options{Mode: ModeExact, Workers: 2})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	// Cell 2 sits between 1 and 3, both at distance 1; tie resolves to 1
	if !reflect.DeepEqual(nb.Lists[2], []int32{1, 3}) {
		t.Errorf("Expected neighbors [1 3] for cell 2, got %v", nb.Lists[2])
	}

	// Endpoint cell 0 reaches right only
	if !reflect.DeepEqual(nb.Lists[0], []int32{1, 2}) {
		t.Errorf("Expected neighbors [1 2] for cell 0, got %v", nb.Lists[0])
	}
}

func TestSearch_TieBreakLowerIndex(t *testing.T) {
	// Three cells equidistant from cell 0
	rows := [][]float32{
		{0, 0},
		{1, 0},
		{0, 1},
		{-1, 0},
	}
	m, err := embedding.NewMatrix(rows)
	if err != nil {
		t.Fatalf("NewMatrix failed: %v", err)
	}

	nb, err := Search(m, 2, Options{Mode: ModeExact})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if !reflect.DeepEqual(nb.Lists[0], []int32{1, 2}) {
		t.Errorf("Expected tie-break to keep lowest indices [1 2], got %v", nb.Lists[0])
	}
}

func TestSearch_KOutOfRange(t *testing.T) {
	m := gridMatrix(t, 4)

	if _, err := Search(m, 4, Options{Mode: ModeExact}); err == nil {
		t.Error("Expected error for k >= N")
	}
	if _, err := Search(m, 0, Options{Mode: ModeExact}); err == nil {
		t.Error("Expected error for k = 0")
	}
	if _, err := Search(m, -1, Options{Mode: ModeExact}); err == nil {
		t.Error("Expected error for negative k")
	}
}

func TestSearch_WorkerCountIndependence(t *testing.T) {
	m := randomMatrix(t, 300, 10, 7)

	base, err := Search(m, 15, Options{Mode: ModeExact, Workers: 1})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	for _, workers := range []int{2, 4, 13} {
		got, err := Search(m, 15, Options{Mode: ModeExact, Workers: workers})
		if err != nil {
			t.Fatalf("Search with %d workers failed: %v", workers, err)
		}
		if !reflect.DeepEqual(base.Lists, got.Lists) {
			t.Errorf("Neighbor lists differ between 1 and %d workers", workers)
		}
	}
}

func TestSearch_ApproxDeterministic(t *testing.T) {
	m := randomMatrix(t, 500, 8, 11)
	opts := DefaultOptions()
	opts.Mode = ModeApprox

	a, err := Search(m, 10, opts)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	b, err := Search(m, 10, opts)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if !reflect.DeepEqual(a.Lists, b.Lists) {
		t.Error("Approximate search is not deterministic across runs")
	}
}

func TestSearch_ApproxRecall(t *testing.T) {
	m := randomMatrix(t, 1000, 16, 3)
	k := 10

	exact, err := Search(m, k, Options{Mode: ModeExact})
	if err != nil {
		t.Fatalf("Exact search failed: %v", err)
	}

	opts := DefaultOptions()
	opts.Mode = ModeApprox
	opts.EfSearch = 100
	approx, err := Search(m, k, opts)
	if err != nil {
		t.Fatalf("Approx search failed: %v", err)
	}

	hits, total := 0, 0
	for i := range exact.Lists {
		truth := make(map[int32]bool, k)
		for _, id := range exact.Lists[i] {
			truth[id] = true
		}
		for _, id := range approx.Lists[i] {
			if truth[id] {
				hits++
			}
		}
		total += k
	}

	recall := float64(hits) / float64(total)
	if recall < 0.9 {
		t.Errorf("Approximate recall %.3f below documented bound 0.9", recall)
	}
}

func TestSearch_SortedByDistance(t *testing.T) {
	m := randomMatrix(t, 200, 5, 21)

	nb, err := Search(m, 12, Options{Mode: ModeExact})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	for i, ds := range nb.Dists {
		for j := 1; j < len(ds); j++ {
			if ds[j] < ds[j-1] {
				t.Fatalf("Cell %d distances not sorted: %v", i, ds)
			}
		}
	}
}

func TestSearch_CosineMetric(t *testing.T) {
	// Cell 1 points the same way as cell 0 but far away; cell 2 is close
	// in Euclidean terms but orthogonal. Cosine must pick direction over
	// magnitude.
	m, err := embedding.NewMatrix([][]float32{
		{1, 0},
		{100, 1},
		{0, 1},
		{0, 50},
	})
	if err != nil {
		t.Fatalf("NewMatrix failed: %v", err)
	}

	euc, err := Search(m, 1, Options{Mode: ModeExact})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if euc.Lists[0][0] != 2 {
		t.Errorf("Euclidean nearest of cell 0 = %d, want 2", euc.Lists[0][0])
	}

	cos, err := Search(m, 1, Options{Mode: ModeExact, Metric: embedding.MetricCosine})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if cos.Lists[0][0] != 1 {
		t.Errorf("Cosine nearest of cell 0 = %d, want 1", cos.Lists[0][0])
	}
	if d := cos.Dists[0][0]; d < 0 || d > 0.001 {
		t.Errorf("Cosine distance to near-parallel cell = %g, want ~0", d)
	}
}

func TestSearch_CosineApproxMatchesExact(t *testing.T) {
	m := randomMatrix(t, 300, 6, 33)

	exact, err := Search(m, 5, Options{Mode: ModeExact, Metric: embedding.MetricCosine})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	approx, err := Search(m, 5, Options{Mode: ModeApprox, Metric: embedding.MetricCosine, Seed: 3})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	hits, total := 0, 0
	for i := range exact.Lists {
		truth := make(map[int32]bool, 5)
		for _, id := range exact.Lists[i] {
			truth[id] = true
		}
		for _, id := range approx.Lists[i] {
			if truth[id] {
				hits++
			}
		}
		total += 5
	}
	if recall := float64(hits) / float64(total); recall < 0.9 {
		t.Errorf("Cosine approximate recall %.3f below bound 0.9", recall)
	}
}

func TestSelectLevel_Bounded(t *testing.T) {
	m := gridMatrix(t, 4)
	idx := newHNSW(m, Options{Seed: 1})

	for i := 0; i < 1_000_000; i++ {
		level := idx.selectLevel()
		if level < 0 || level > 64 {
			t.Fatalf("selectLevel returned %d at draw %d", level, i)
		}
	}
}
