// Package metrics exposes Prometheus collectors for the risk service.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/heartrisk/internal/fuzzy"
)

// Batch row outcomes.
const (
	OutcomeScored = "scored"
	OutcomeError  = "error"
)

type Metrics struct {
	registry    *prometheus.Registry
	assessments *prometheus.CounterVec
	inference   prometheus.Histogram
	fallbacks   prometheus.Counter
	batchRows   *prometheus.CounterVec
}

// New registers the collectors on a dedicated registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "heartrisk_assessments_total",
			Help: "Risk assessments computed, by risk level.",
		}, []string{"level"}),
		inference: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "heartrisk_inference_seconds",
			Help:    "Time spent in fuzzy inference per assessment.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "heartrisk_fallback_total",
			Help: "Assessments where no rule fired and the fallback score was used.",
		}),
		batchRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "heartrisk_batch_rows_total",
			Help: "Dataset rows processed, by outcome.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(m.assessments, m.inference, m.fallbacks, m.batchRows)
	return m
}

// ObserveAssessment records one kernel result and how long it took.
func (m *Metrics) ObserveAssessment(a fuzzy.Assessment, took time.Duration) {
	if m == nil {
		return
	}
	m.assessments.WithLabelValues(a.Level.String()).Inc()
	m.inference.Observe(took.Seconds())
	if a.Fallback {
		m.fallbacks.Inc()
	}
}

// ObserveBatchRow records the outcome of one dataset row.
func (m *Metrics) ObserveBatchRow(outcome string) {
	if m == nil {
		return
	}
	m.batchRows.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
