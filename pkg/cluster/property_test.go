package cluster

import (
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dd0wney/cluso-snn/pkg/embedding"
	"github.com/dd0wney/cluso-snn/pkg/logging"
)

// randomEmbedding builds an n x dims matrix of uniform noise from a seed.
func randomEmbedding(n, dims int, seed int64) *embedding.Matrix {
	rng := rand.New(rand.NewSource(seed))
	rows := make([][]float32, n)
	for i := range rows {
		row := make([]float32, dims)
		for d := range row {
			row[d] = float32(rng.Float64() * 10)
		}
		rows[i] = row
	}
	m, err := embedding.NewMatrix(rows)
	if err != nil {
		panic(err)
	}
	return m
}

// TestPartitionInvariants verifies properties that must hold for every
// partition the engine produces, regardless of the input embedding.
func TestPartitionInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20

	properties := gopter.NewProperties(parameters)

	runOnce := func(n int, seed int64, gamma float64) *Result {
		e, err := New(
			Config{K: 5, Resolutions: []float64{gamma}, Seed: 42, Mode: "exact"},
			WithLogger(logging.NewNopLogger()),
		)
		if err != nil {
			panic(err)
		}
		result, err := e.Run(randomEmbedding(n, 4, seed))
		if err != nil {
			panic(err)
		}
		return result
	}

	// Property 1: every cell gets exactly one label, and every label is
	// a valid community id
	properties.Property("labels cover all cells exactly once", prop.ForAll(
		func(n int, seed int64, gamma float64) bool {
			result := runOnce(n, seed, gamma)
			p := result.Partitions[0]
			if len(p.Labels) != n {
				return false
			}
			for _, c := range p.Labels {
				if c < 0 || c >= p.NumCommunities {
					return false
				}
			}
			return true
		},
		gen.IntRange(10, 60),
		gen.Int64Range(0, 1<<20),
		gen.Float64Range(0.25, 2.0),
	))

	// Property 2: labels are contiguous from 0 and ordered by descending
	// community size, with sizes summing to the cell count
	properties.Property("labels are canonical", prop.ForAll(
		func(n int, seed int64) bool {
			result := runOnce(n, seed, 1.0)
			p := result.Partitions[0]

			counts := make([]int32, p.NumCommunities)
			for _, c := range p.Labels {
				counts[c]++
			}
			var total int32
			for c := range counts {
				if counts[c] == 0 {
					return false // gap in the label space
				}
				if counts[c] != p.Sizes[c] {
					return false
				}
				if c > 0 && counts[c] > counts[c-1] {
					return false // not size-ordered
				}
				total += counts[c]
			}
			return total == int32(n)
		},
		gen.IntRange(10, 60),
		gen.Int64Range(0, 1<<20),
	))

	// Property 3: the same input and config always yield the same labels
	properties.Property("runs are deterministic", prop.ForAll(
		func(n int, seed int64, gamma float64) bool {
			a := runOnce(n, seed, gamma)
			b := runOnce(n, seed, gamma)
			for i := range a.Partitions[0].Labels {
				if a.Partitions[0].Labels[i] != b.Partitions[0].Labels[i] {
					return false
				}
			}
			return true
		},
		gen.IntRange(10, 40),
		gen.Int64Range(0, 1<<20),
		gen.Float64Range(0.25, 2.0),
	))

	properties.TestingRun(t)
}
