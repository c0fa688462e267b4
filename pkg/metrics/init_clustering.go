package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initClusteringMetrics() {
	r.KNNSearchDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "snn_knn_search_duration_seconds",
			Help:    "k-NN search duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0, 120.0},
		},
		[]string{"mode"},
	)

	r.KNNSearchesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "snn_knn_searches_total",
			Help: "Total number of k-NN searches",
		},
		[]string{"mode", "status"},
	)

	r.GraphBuildDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "snn_graph_build_duration_seconds",
			Help:    "Shared-neighbor graph construction duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
	)

	r.GraphEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "snn_graph_edges",
			Help: "Number of edges in the most recently built graph",
		},
	)

	r.GraphNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "snn_graph_nodes",
			Help: "Number of nodes in the most recently built graph",
		},
	)

	r.DetectionDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "snn_detection_duration_seconds",
			Help:    "Community detection duration in seconds, per resolution",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
	)

	r.DetectionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "snn_detections_total",
			Help: "Total number of community detection solves",
		},
		[]string{"status"},
	)

	r.CommunitiesFound = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "snn_communities_found",
			Help:    "Communities found per detection solve",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 500},
		},
	)

	r.NonConvergenceTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "snn_nonconvergence_total",
			Help: "Detection solves that hit an iteration cap before settling",
		},
	)

	r.RunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "snn_runs_total",
			Help: "Total engine runs",
		},
		[]string{"status"},
	)

	r.RunDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "snn_run_duration_seconds",
			Help:    "End-to-end engine run duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1.0, 5.0, 30.0, 120.0, 600.0},
		},
	)
}
