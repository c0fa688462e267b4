package metrics

import (
	"time"
)

// RecordKNNSearch records one neighbor search with its duration
func (r *Registry) RecordKNNSearch(mode, status string, duration time.Duration) {
	r.KNNSearchesTotal.WithLabelValues(mode, status).Inc()
	r.KNNSearchDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordGraphBuild records a shared-neighbor graph construction
func (r *Registry) RecordGraphBuild(nodes, edges int, duration time.Duration) {
	r.GraphBuildDuration.Observe(duration.Seconds())
	r.GraphNodes.Set(float64(nodes))
	r.GraphEdges.Set(float64(edges))
}

// RecordDetection records one community detection solve
func (r *Registry) RecordDetection(communities int, converged bool, duration time.Duration) {
	status := "ok"
	if !converged {
		status = "nonconverged"
		r.NonConvergenceTotal.Inc()
	}
	r.DetectionsTotal.WithLabelValues(status).Inc()
	r.DetectionDuration.Observe(duration.Seconds())
	r.CommunitiesFound.Observe(float64(communities))
}

// RecordRun records an end-to-end engine run
func (r *Registry) RecordRun(status string, duration time.Duration) {
	r.RunsTotal.WithLabelValues(status).Inc()
	r.RunDuration.Observe(duration.Seconds())
}
