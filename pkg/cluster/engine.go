// Package cluster is the function-call boundary of the shared-nearest-
// neighbor clustering engine. A caller hands in a cells-by-dimensions
// embedding and gets back one partition per requested resolution, all
// computed against a single frozen neighbor graph: the graph is built once
// per run and never mutated by the per-resolution solves.
package cluster

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-snn/pkg/community"
	"github.com/dd0wney/cluso-snn/pkg/embedding"
	"github.com/dd0wney/cluso-snn/pkg/knn"
	"github.com/dd0wney/cluso-snn/pkg/logging"
	"github.com/dd0wney/cluso-snn/pkg/metrics"
	"github.com/dd0wney/cluso-snn/pkg/snngraph"
)

// Engine runs the full pipeline: k-NN search, shared-neighbor graph
// construction, then community detection per resolution. Safe for
// concurrent Run calls: all run state is local.
type Engine struct {
	cfg     Config
	log     logging.Logger
	metrics *metrics.Registry
}

// Option configures an Engine beyond its Config.
type Option func(*Engine)

// WithLogger sets the engine's structured logger.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithMetrics attaches a metrics registry; without one, nothing is recorded.
func WithMetrics(r *metrics.Registry) Option {
	return func(e *Engine) { e.metrics = r }
}

// New validates cfg (after applying defaults to zero fields) and builds an
// Engine.
func New(cfg Config, opts ...Option) (*Engine, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, invalidInput("new-engine", 0, "config", err)
	}

	e := &Engine{cfg: cfg, log: logging.DefaultLogger()}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the engine's resolved configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Partition is one per-resolution clustering of the input cells.
type Partition struct {
	Resolution     float64
	Labels         []int32
	NumCommunities int32
	Sizes          []int32
	Modularity     float64
	// Converged is false when the iteration caps cut optimization short;
	// Labels then holds the best partition found, per the non-convergence
	// policy: a warning, not a failure.
	Converged bool
}

// Result is the output of one engine run.
type Result struct {
	RunID string
	// Graph is the shared-neighbor graph the partitions were computed on,
	// exposed for reuse and inspection.
	Graph *snngraph.Graph
	// Partitions holds one entry per configured resolution, in input order.
	Partitions []Partition
}

// Run clusters the cells of m at every configured resolution.
func (e *Engine) Run(m *embedding.Matrix) (*Result, error) {
	runStart := time.Now()
	runID := uuid.NewString()

	if m == nil {
		return nil, invalidInput("run", 0, "embedding", ErrNilEmbedding)
	}

	log := e.log.With(logging.Component("engine"), logging.RunID(runID))
	log.Info("clustering run started",
		logging.CellCount(m.Len()),
		logging.K(e.cfg.K),
		logging.Int("resolutions", len(e.cfg.Resolutions)),
	)

	// A single cell has no neighbors to search; it trivially forms one
	// community at every resolution.
	if m.Len() == 1 {
		e.recordRun("ok", runStart)
		return singleCellResult(runID, e.cfg.Resolutions), nil
	}

	g, err := e.buildGraph(m, log)
	if err != nil {
		e.recordRun("error", runStart)
		return nil, err
	}

	partitions := make([]Partition, 0, len(e.cfg.Resolutions))
	for _, gamma := range e.cfg.Resolutions {
		p, err := e.solve(g, gamma, log)
		if err != nil {
			e.recordRun("error", runStart)
			return nil, err
		}
		partitions = append(partitions, p)
	}

	e.recordRun("ok", runStart)
	log.Info("clustering run finished", logging.Latency(time.Since(runStart)))

	return &Result{RunID: runID, Graph: g, Partitions: partitions}, nil
}

// singleCellResult builds the trivial one-node graph and a singleton
// partition per resolution.
func singleCellResult(runID string, resolutions []float64) *Result {
	g := &snngraph.Graph{
		N:      1,
		Indptr: []int32{0, 0},
		Degree: []float64{0},
	}
	partitions := make([]Partition, 0, len(resolutions))
	for _, gamma := range resolutions {
		partitions = append(partitions, Partition{
			Resolution:     gamma,
			Labels:         []int32{0},
			NumCommunities: 1,
			Sizes:          []int32{1},
			Converged:      true,
		})
	}
	return &Result{RunID: runID, Graph: g, Partitions: partitions}
}

// buildGraph runs k-NN search and shared-neighbor construction.
func (e *Engine) buildGraph(m *embedding.Matrix, log logging.Logger) (*snngraph.Graph, error) {
	n := m.Len()

	// Fail fast before any large allocation: every cell contributes at
	// most k forward edges, each mirrored once in CSR form.
	if e.cfg.MaxEdges > 0 && n*e.cfg.K*2 > e.cfg.MaxEdges {
		return nil, resourceExhausted("build-graph", n, "max_edges", ErrGraphTooBig)
	}

	knnStart := time.Now()
	nb, err := knn.Search(m, e.cfg.K, knn.Options{
		Mode:           knn.Mode(e.cfg.Mode),
		Workers:        e.cfg.Workers,
		M:              e.cfg.HNSWM,
		EfConstruction: e.cfg.HNSWEfConstruction,
		EfSearch:       e.cfg.HNSWEfSearch,
		Seed:           e.cfg.Seed,
	})
	if err != nil {
		if e.metrics != nil {
			e.metrics.RecordKNNSearch(e.cfg.Mode, "error", time.Since(knnStart))
		}
		if errors.Is(err, knn.ErrKTooLarge) || errors.Is(err, knn.ErrInvalidK) {
			return nil, invalidInput("knn", n, "k", err)
		}
		return nil, &EngineError{Op: "knn", Kind: KindInternal, Cells: n, Cause: err}
	}
	if e.metrics != nil {
		e.metrics.RecordKNNSearch(e.cfg.Mode, "ok", time.Since(knnStart))
	}
	log.Debug("neighbor search done", logging.K(e.cfg.K), logging.Latency(time.Since(knnStart)))

	buildStart := time.Now()
	g, err := snngraph.Build(nb, snngraph.Options{
		PruneThreshold: float32(e.cfg.PruneThreshold),
		Workers:        e.cfg.Workers,
	})
	if err != nil {
		return nil, invalidInput("build-graph", n, "prune_threshold", err)
	}

	edges := g.NumEdges()
	if e.metrics != nil {
		e.metrics.RecordGraphBuild(n, edges, time.Since(buildStart))
	}
	log.Info("shared-neighbor graph built",
		logging.Edges(edges),
		logging.Latency(time.Since(buildStart)),
	)
	return g, nil
}

// solve runs community detection for one resolution against the frozen graph.
func (e *Engine) solve(g *snngraph.Graph, gamma float64, log logging.Logger) (Partition, error) {
	start := time.Now()

	result, err := community.Detect(g, community.Options{
		Resolution: gamma,
		Seed:       e.cfg.Seed,
		MaxSweeps:  e.cfg.MaxSweeps,
		MaxLevels:  e.cfg.MaxLevels,
	})
	if err != nil {
		if errors.Is(err, community.ErrInvalidResolution) {
			return Partition{}, invalidInput("detect", int(g.N), "resolution", err)
		}
		return Partition{}, &EngineError{Op: "detect", Kind: KindInternal, Cells: int(g.N), Cause: err}
	}

	if e.metrics != nil {
		e.metrics.RecordDetection(int(result.NumCommunities), result.Converged, time.Since(start))
	}

	if !result.Converged {
		log.Warn("detection hit iteration cap before settling, returning best partition",
			logging.Resolution(gamma),
			logging.Communities(int(result.NumCommunities)),
		)
	} else {
		log.Debug("detection done",
			logging.Resolution(gamma),
			logging.Communities(int(result.NumCommunities)),
			logging.Latency(time.Since(start)),
		)
	}

	return Partition{
		Resolution:     gamma,
		Labels:         result.Labels,
		NumCommunities: result.NumCommunities,
		Sizes:          result.Sizes,
		Modularity:     result.Modularity,
		Converged:      result.Converged,
	}, nil
}

func (e *Engine) recordRun(status string, start time.Time) {
	if e.metrics != nil {
		e.metrics.RecordRun(status, time.Since(start))
	}
}
