package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder receives measurements from the orchestrator. Implementations must
// be safe for concurrent use since every worker reports its own duration.
type Recorder interface {
	ObserveWorker(mode, kind string, elapsed time.Duration)
	ObserveRun(run RunSample)
}

// RunSample summarises one completed integration.
type RunSample struct {
	Problem  string
	Mode     string
	Workers  int
	Leaves   int
	Value    float64
	AbsError float64
	Elapsed  time.Duration
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) ObserveWorker(string, string, time.Duration) {}
func (NopRecorder) ObserveRun(RunSample)                        {}

// PrometheusRecorder records run metrics in a private registry so that
// several recorders can coexist in one process (tests, calibration).
type PrometheusRecorder struct {
	registry *prometheus.Registry

	workers        *prometheus.CounterVec
	workerDuration *prometheus.HistogramVec
	runs           *prometheus.CounterVec
	runDuration    prometheus.Histogram
	leaves         prometheus.Gauge
	value          prometheus.Gauge
	absError       prometheus.Gauge
}

// NewPrometheusRecorder creates a recorder with all collectors registered.
func NewPrometheusRecorder() *PrometheusRecorder {
	r := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),
		workers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "midcalc",
			Name:      "workers_finished_total",
			Help:      "Workers that contributed a partial sum, by mode and kind.",
		}, []string{"mode", "kind"}),
		workerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "midcalc",
			Name:      "worker_duration_seconds",
			Help:      "Wall time of a single worker including the join of its sub-workers.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"mode", "kind"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "midcalc",
			Name:      "runs_total",
			Help:      "Completed integrations, by problem and mode.",
		}, []string{"problem", "mode"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "midcalc",
			Name:      "run_duration_seconds",
			Help:      "Wall time of a complete integration.",
			Buckets:   prometheus.ExponentialBuckets(1e-4, 4, 10),
		}),
		leaves: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "midcalc",
			Name:      "leaf_partitions",
			Help:      "Leaf-level partitions of the last run.",
		}),
		value: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "midcalc",
			Name:      "result_value",
			Help:      "Integral computed by the last run.",
		}),
		absError: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "midcalc",
			Name:      "result_abs_error",
			Help:      "Absolute error of the last run against its reference value.",
		}),
	}
	r.registry.MustRegister(r.workers, r.workerDuration, r.runs, r.runDuration, r.leaves, r.value, r.absError)
	return r
}

// ObserveWorker records one finished worker.
func (r *PrometheusRecorder) ObserveWorker(mode, kind string, elapsed time.Duration) {
	r.workers.WithLabelValues(mode, kind).Inc()
	r.workerDuration.WithLabelValues(mode, kind).Observe(elapsed.Seconds())
}

// ObserveRun records a completed integration.
func (r *PrometheusRecorder) ObserveRun(run RunSample) {
	r.runs.WithLabelValues(run.Problem, run.Mode).Inc()
	r.runDuration.Observe(run.Elapsed.Seconds())
	r.leaves.Set(float64(run.Leaves))
	r.value.Set(run.Value)
	r.absError.Set(run.AbsError)
}

// Registry exposes the underlying registry.
func (r *PrometheusRecorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the current metrics in the Prometheus text format,
// atomically replacing path.
func (r *PrometheusRecorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
