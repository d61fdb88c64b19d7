// Package metrics exposes Prometheus instrumentation for ingestion runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/albapepper/pitwall-data/internal/seed"
)

// Run outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
	OutcomeBusy    = "busy"
)

// Recorder owns a private registry so tests and multiple binaries never
// collide on the global one.
type Recorder struct {
	registry *prometheus.Registry
	runs     *prometheus.CounterVec
	records  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	last     *prometheus.GaugeVec
}

// New creates a Recorder with Go runtime and process collectors attached.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pitwall",
			Subsystem: "ingest",
			Name:      "runs_total",
			Help:      "Ingestion runs by dataset, trigger and outcome.",
		}, []string{"dataset", "trigger", "outcome"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pitwall",
			Subsystem: "ingest",
			Name:      "records_total",
			Help:      "Records seen by each stage of successful runs.",
		}, []string{"dataset", "stage"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pitwall",
			Subsystem: "ingest",
			Name:      "run_duration_seconds",
			Help:      "Wall time of ingestion runs.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"dataset"}),
		last: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "pitwall",
			Subsystem: "ingest",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}, []string{"dataset"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.runs, r.records, r.duration, r.last,
	)
	return r
}

// ObserveRun records one finished run.
func (r *Recorder) ObserveRun(dataset, trigger, outcome string, res seed.Result, elapsed time.Duration) {
	r.runs.WithLabelValues(dataset, trigger, outcome).Inc()
	if outcome == OutcomeBusy {
		return
	}
	r.duration.WithLabelValues(dataset).Observe(elapsed.Seconds())
	if outcome != OutcomeSuccess {
		return
	}
	r.records.WithLabelValues(dataset, "fetched").Add(float64(res.Fetched))
	r.records.WithLabelValues(dataset, "unique").Add(float64(res.Unique))
	r.records.WithLabelValues(dataset, "upserted").Add(float64(res.Upserted))
	r.records.WithLabelValues(dataset, "skipped").Add(float64(res.Skipped))
	r.last.WithLabelValues(dataset).SetToCurrentTime()
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
