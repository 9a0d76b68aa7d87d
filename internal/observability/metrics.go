// Package observability exposes Prometheus metrics for the ingestion
// pipeline.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the pipeline's instrumentation. All counters are safe for
// concurrent use by pipeline workers.
type Metrics struct {
	registry *prometheus.Registry

	DocumentsFetched *prometheus.CounterVec // by source kind
	Outcomes         *prometheus.CounterVec // by pipeline outcome
	PipelineDuration prometheus.Histogram
}

// Outcome label values.
const (
	OutcomeStored    = "stored"
	OutcomeReview    = "review"
	OutcomeRejected  = "rejected"
	OutcomeDuplicate = "duplicate"
	OutcomeMalformed = "malformed"
	OutcomeError     = "error"
)

// NewMetrics registers the pipeline metrics on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		DocumentsFetched: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wildtrack_documents_fetched_total",
			Help: "Raw documents fetched from upstream sources.",
		}, []string{"source"}),
		Outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wildtrack_pipeline_outcomes_total",
			Help: "Candidate sightings by final pipeline outcome.",
		}, []string{"outcome"}),
		PipelineDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "wildtrack_pipeline_duration_seconds",
			Help:    "Wall time spent attributing, validating and storing one candidate.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
}

// RecordOutcome counts one candidate's final outcome.
func (m *Metrics) RecordOutcome(outcome string) {
	m.Outcomes.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
