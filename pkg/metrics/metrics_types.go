package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the clustering engine
type Registry struct {
	// Neighbor search
	KNNSearchDuration *prometheus.HistogramVec
	KNNSearchesTotal  *prometheus.CounterVec

	// Shared-neighbor graph
	GraphBuildDuration prometheus.Histogram
	GraphEdges         prometheus.Gauge
	GraphNodes         prometheus.Gauge

	// Community detection
	DetectionDuration   prometheus.Histogram
	DetectionsTotal     *prometheus.CounterVec
	CommunitiesFound    prometheus.Histogram
	NonConvergenceTotal prometheus.Counter

	// Engine runs
	RunsTotal   *prometheus.CounterVec
	RunDuration prometheus.Histogram

	registry *prometheus.Registry
}

// NewRegistry creates a Registry with all metrics registered against a
// private prometheus registry.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}
	r.initClusteringMetrics()
	return r
}

// Gatherer exposes the underlying prometheus registry for scraping or
// inspection in tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
