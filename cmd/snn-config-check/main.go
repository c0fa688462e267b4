package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dd0wney/cluso-snn/pkg/cluster"
)

func main() {
	path := flag.String("config", "clustering.yaml", "Path to clustering config file")
	flag.Parse()

	cfg, err := cluster.LoadConfig(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Invalid config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Config OK: %s\n\n", *path)
	fmt.Printf("Resolved settings:\n")
	fmt.Printf("  k:               %d\n", cfg.K)
	fmt.Printf("  resolutions:     %v\n", cfg.Resolutions)
	fmt.Printf("  prune_threshold: %g\n", cfg.PruneThreshold)
	fmt.Printf("  seed:            %d\n", cfg.Seed)
	fmt.Printf("  workers:         %d\n", cfg.Workers)
	fmt.Printf("  mode:            %s\n", cfg.Mode)
	if cfg.Mode != "exact" {
		fmt.Printf("  hnsw_m:               %d\n", cfg.HNSWM)
		fmt.Printf("  hnsw_ef_construction: %d\n", cfg.HNSWEfConstruction)
		fmt.Printf("  hnsw_ef_search:       %d\n", cfg.HNSWEfSearch)
	}
	fmt.Printf("  max_sweeps:      %d\n", cfg.MaxSweeps)
	fmt.Printf("  max_levels:      %d\n", cfg.MaxLevels)
	fmt.Printf("  max_edges:       %d\n", cfg.MaxEdges)
}
