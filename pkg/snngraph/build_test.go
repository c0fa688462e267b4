package snngraph

import (
	"testing"

	"github.com/dd0wney/cluso-snn/pkg/knn"
)

// neighborsFixture wraps raw lists into the knn result shape
func neighborsFixture(lists [][]int32) *knn.Neighbors {
	k := 0
	if len(lists) > 0 {
		k = len(lists[0])
	}
	return &knn.Neighbors{K: k, Lists: lists}
}

func TestBuild_MutualPairJaccard(t *testing.T) {
	// Cells 0 and 1 list each other; cell 2 is listed by neither set fully
	nb := neighborsFixture([][]int32{
		{1, 2},
		{0, 2},
		{0, 1},
	})

	g, err := Build(nb, Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// Sets with self: {0,1,2} for every cell, so all Jaccard weights are 1
	for i := int32(0); i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			if w := g.Weight(i, j); w != 1.0 {
				t.Errorf("Expected weight 1.0 on edge (%d,%d), got %g", i, j, w)
			}
		}
	}
}

func TestBuild_Symmetric(t *testing.T) {
	nb := neighborsFixture([][]int32{
		{1, 3},
		{0, 2},
		{1, 3},
		{2, 0},
	})

	g, err := Build(nb, Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	for i := int32(0); i < g.N; i++ {
		ids, _ := g.Neighbors(i)
		for _, j := range ids {
			if g.Weight(j, i) != g.Weight(i, j) {
				t.Errorf("Asymmetric weight on edge (%d,%d)", i, j)
			}
		}
	}
}

func TestBuild_OneDirectionalNeighbor(t *testing.T) {
	// Cell 2 lists 0, but 0 does not list 2; the edge must still exist
	nb := neighborsFixture([][]int32{
		{1},
		{0},
		{0},
	})

	g, err := Build(nb, Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if g.Weight(0, 2) == 0 {
		t.Error("Expected edge (0,2) from one-directional neighbor listing")
	}
	// Sets: A = {0,1}, B = {0,2}; intersection {0}, union {0,1,2}
	if w := g.Weight(0, 2); w != float32(1)/float32(3) {
		t.Errorf("Expected Jaccard 1/3 on edge (0,2), got %g", w)
	}
}

func TestBuild_PruneThreshold(t *testing.T) {
	nb := neighborsFixture([][]int32{
		{1},
		{0},
		{0},
	})

	// The 1/3-weight edge drops, the full-weight mutual edge stays
	g, err := Build(nb, Options{PruneThreshold: 0.5})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if g.Weight(0, 2) != 0 {
		t.Error("Expected edge (0,2) pruned at threshold 0.5")
	}
	if g.Weight(0, 1) == 0 {
		t.Error("Expected mutual edge (0,1) to survive threshold 0.5")
	}
}

func TestBuild_Unweighted(t *testing.T) {
	nb := neighborsFixture([][]int32{
		{1},
		{0},
		{0},
	})

	// Same topology as the weighted graph, every edge weight forced to 1
	g, err := Build(nb, Options{Unweighted: true})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if w := g.Weight(0, 2); w != 1.0 {
		t.Errorf("Expected indicator weight 1 on edge (0,2), got %g", w)
	}
	if w := g.Weight(0, 1); w != 1.0 {
		t.Errorf("Expected indicator weight 1 on edge (0,1), got %g", w)
	}

	// Pruning still inspects the Jaccard value underneath
	g, err = Build(nb, Options{Unweighted: true, PruneThreshold: 0.5})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if g.Weight(0, 2) != 0 {
		t.Error("Expected edge (0,2) pruned by its Jaccard value")
	}
}

func TestBuild_InvalidPrune(t *testing.T) {
	nb := neighborsFixture([][]int32{{1}, {0}})

	if _, err := Build(nb, Options{PruneThreshold: -0.1}); err == nil {
		t.Error("Expected error for negative prune threshold")
	}
	if _, err := Build(nb, Options{PruneThreshold: 1.0}); err == nil {
		t.Error("Expected error for prune threshold >= 1")
	}
}

func TestBuild_Deterministic(t *testing.T) {
	lists := [][]int32{
		{1, 2, 3},
		{0, 2, 4},
		{0, 1, 3},
		{0, 2, 4},
		{1, 3, 0},
	}

	a, err := Build(neighborsFixture(lists), Options{Workers: 1})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	b, err := Build(neighborsFixture(lists), Options{Workers: 4})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(a.Indices) != len(b.Indices) {
		t.Fatalf("Edge counts differ: %d vs %d", len(a.Indices), len(b.Indices))
	}
	for i := range a.Indices {
		if a.Indices[i] != b.Indices[i] || a.Weights[i] != b.Weights[i] {
			t.Fatalf("CSR arrays differ at %d between worker counts", i)
		}
	}
}

func TestGraph_DegreeAndTotalWeight(t *testing.T) {
	nb := neighborsFixture([][]int32{
		{1},
		{0},
	})

	g, err := Build(nb, Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// Single edge of weight 1 (sets identical): degrees 1, total 2m = 2
	if g.Degree[0] != 1 || g.Degree[1] != 1 {
		t.Errorf("Expected unit degrees, got %v", g.Degree)
	}
	if g.TotalWeight != 2 {
		t.Errorf("Expected total weight 2, got %g", g.TotalWeight)
	}
	if g.NumEdges() != 1 {
		t.Errorf("Expected 1 undirected edge, got %d", g.NumEdges())
	}
}

func TestAggregate_PreservesTotalWeight(t *testing.T) {
	nb := neighborsFixture([][]int32{
		{1, 2},
		{0, 2},
		{0, 1},
		{4, 2},
		{3, 2},
	})

	g, err := Build(nb, Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	labels := []int32{0, 0, 0, 1, 1}
	agg := g.Aggregate(labels, 2)

	if agg.N != 2 {
		t.Fatalf("Expected 2 super-nodes, got %d", agg.N)
	}
	if diff := agg.TotalWeight - g.TotalWeight; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("Total weight not preserved: %g vs %g", agg.TotalWeight, g.TotalWeight)
	}
	// Internal edges of community 0 become a self loop
	if agg.Weight(0, 0) == 0 {
		t.Error("Expected self loop on aggregated community 0")
	}
}
