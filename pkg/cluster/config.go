package cluster

import (
	"github.com/dd0wney/cluso-snn/pkg/community"
	"github.com/dd0wney/cluso-snn/pkg/knn"
	"github.com/dd0wney/cluso-snn/pkg/validation"
)

// Config defines one clustering engine setup. Zero values fall back to
// defaults at New; Validate runs after defaults are applied.
type Config struct {
	// K is the neighbor count for the k-NN graph.
	K int `yaml:"k" validate:"gt=0"`

	// Resolutions lists the γ values to solve, each producing one
	// independent partition of the same frozen graph.
	Resolutions []float64 `yaml:"resolutions" validate:"required,min=1,dive,gt=0"`

	// PruneThreshold drops shared-neighbor edges with Jaccard weight at or
	// below it. Zero keeps everything except zero-weight edges.
	PruneThreshold float64 `yaml:"prune_threshold" validate:"gte=0,lt=1"`

	// Seed fixes both the approximate index build and the community
	// detection shuffle. Zero selects the fixed default seed.
	Seed int64 `yaml:"seed"`

	// Workers bounds parallelism for k-NN and graph construction.
	// Zero means GOMAXPROCS.
	Workers int `yaml:"workers" validate:"gte=0"`

	// Mode selects the k-NN strategy: "auto", "exact", or "approx".
	Mode string `yaml:"mode" validate:"omitempty,oneof=auto exact approx"`

	// HNSW knobs, used in approximate mode only.
	HNSWM              int `yaml:"hnsw_m" validate:"gte=0"`
	HNSWEfConstruction int `yaml:"hnsw_ef_construction" validate:"gte=0"`
	HNSWEfSearch       int `yaml:"hnsw_ef_search" validate:"gte=0"`

	// MaxSweeps and MaxLevels bound community detection per resolution.
	MaxSweeps int `yaml:"max_sweeps" validate:"gte=0"`
	MaxLevels int `yaml:"max_levels" validate:"gte=0"`

	// MaxEdges is the fail-fast budget for the estimated edge count of the
	// shared-neighbor graph. Zero disables the check.
	MaxEdges int `yaml:"max_edges" validate:"gte=0"`
}

// DefaultConfig returns the defaults observed to work well on single-cell
// embeddings: k in the 20-30 range, a spread of resolutions, fixed seed.
func DefaultConfig() Config {
	return Config{
		K:              30,
		Resolutions:    []float64{0.5, 1.0},
		PruneThreshold: 0,
		Seed:           community.DefaultSeed,
		Mode:           string(knn.ModeAuto),
		MaxSweeps:      community.DefaultMaxSweeps,
		MaxLevels:      community.DefaultMaxLevels,
		MaxEdges:       100_000_000,
	}
}

// withDefaults fills zero-valued fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.K == 0 {
		c.K = def.K
	}
	if len(c.Resolutions) == 0 {
		c.Resolutions = def.Resolutions
	}
	if c.Seed == 0 {
		c.Seed = def.Seed
	}
	if c.Mode == "" {
		c.Mode = def.Mode
	}
	if c.MaxSweeps == 0 {
		c.MaxSweeps = def.MaxSweeps
	}
	if c.MaxLevels == 0 {
		c.MaxLevels = def.MaxLevels
	}
	if c.MaxEdges == 0 {
		c.MaxEdges = def.MaxEdges
	}
	return c
}

// Validate checks if configuration is valid
func (c Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	return validation.NewConfigValidator("Config").
		Positive("K", c.K).
		NotEmptySlice("Resolutions", len(c.Resolutions)).
		EachPositiveFloat("Resolutions", c.Resolutions).
		RangeFloat("PruneThreshold", c.PruneThreshold, 0, 1).
		NonNegative("Workers", c.Workers).
		Err()
}
