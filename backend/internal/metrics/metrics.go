package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "orkg"

// Metrics contains the counters and histograms of the graph core
type Metrics struct {
	QueryDuration *prometheus.HistogramVec
	QueryErrors   *prometheus.CounterVec

	PipelineRuns         *prometheus.CounterVec
	PipelineStepFailures *prometheus.CounterVec

	ExportRecords *prometheus.CounterVec
}

// NewMetrics creates unregistered collectors
func NewMetrics() *Metrics {
	return &Metrics{
		QueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "graph",
				Name:      "query_duration_seconds",
				Help:      "Cypher query duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		QueryErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "graph",
				Name:      "query_errors_total",
				Help:      "Total number of failed Cypher queries",
			},
			[]string{"operation"},
		),
		PipelineRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "runs_total",
				Help:      "Total number of action pipeline runs by outcome",
			},
			[]string{"pipeline", "outcome"},
		),
		PipelineStepFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "step_failures_total",
				Help:      "Total number of aborted pipelines by failing step",
			},
			[]string{"pipeline", "step"},
		),
		ExportRecords: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "export",
				Name:      "records_total",
				Help:      "Total number of records written by chunked exports",
			},
			[]string{"kind"},
		),
	}
}

// Register adds every collector to reg
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.QueryDuration,
		m.QueryErrors,
		m.PipelineRuns,
		m.PipelineStepFailures,
		m.ExportRecords,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveQuery records one query execution. Safe on a nil receiver.
func (m *Metrics) ObserveQuery(operation string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.QueryDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
	if err != nil {
		m.QueryErrors.WithLabelValues(operation).Inc()
	}
}

// PipelineFinished records a pipeline outcome; failedStep is empty on success.
func (m *Metrics) PipelineFinished(pipeline, failedStep string) {
	if m == nil {
		return
	}
	if failedStep == "" {
		m.PipelineRuns.WithLabelValues(pipeline, "completed").Inc()
		return
	}
	m.PipelineRuns.WithLabelValues(pipeline, "aborted").Inc()
	m.PipelineStepFailures.WithLabelValues(pipeline, failedStep).Inc()
}

// Exported counts records written by an export
func (m *Metrics) Exported(kind string, n int) {
	if m == nil {
		return
	}
	m.ExportRecords.WithLabelValues(kind).Add(float64(n))
}
