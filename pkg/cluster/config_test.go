package cluster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clustering.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
k: 20
resolutions: [0.4, 0.8, 1.2]
prune_threshold: 0.07
seed: 99
workers: 4
mode: approx
hnsw_m: 32
hnsw_ef_construction: 300
hnsw_ef_search: 120
max_edges: 5000000
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.K)
	assert.Equal(t, []float64{0.4, 0.8, 1.2}, cfg.Resolutions)
	assert.Equal(t, 0.07, cfg.PruneThreshold)
	assert.EqualValues(t, 99, cfg.Seed)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "approx", cfg.Mode)
	assert.Equal(t, 32, cfg.HNSWM)
	assert.Equal(t, 300, cfg.HNSWEfConstruction)
	assert.Equal(t, 120, cfg.HNSWEfSearch)
	assert.Equal(t, 5_000_000, cfg.MaxEdges)

	// Unset fields picked up defaults
	assert.Equal(t, DefaultConfig().MaxSweeps, cfg.MaxSweeps)
	assert.Equal(t, DefaultConfig().MaxLevels, cfg.MaxLevels)
}

func TestLoadConfig_DefaultsForEmptyFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfigFile(t, "{}\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().K, cfg.K)
	assert.Equal(t, DefaultConfig().Resolutions, cfg.Resolutions)
	assert.Equal(t, DefaultConfig().Seed, cfg.Seed)
	assert.Equal(t, DefaultConfig().Mode, cfg.Mode)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"negative k", "k: -5\n"},
		{"zero resolution", "resolutions: [1.0, 0.0]\n"},
		{"prune threshold at one", "prune_threshold: 1.0\n"},
		{"unknown mode", "mode: turbo\n"},
		{"malformed yaml", "k: [not, a, number\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfigFile(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	bad := DefaultConfig()
	bad.PruneThreshold = -0.1
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.Resolutions = nil
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.Workers = -1
	assert.Error(t, bad.Validate())
}
