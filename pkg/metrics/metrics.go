// Package metrics exposes Prometheus instrumentation for the parsing engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	ParsesTotal        *prometheus.CounterVec
	TransactionsTotal  *prometheus.CounterVec
	ParseDuration      prometheus.Histogram
	LearningEvents     *prometheus.CounterVec
	StoreFlushFailures prometheus.Counter
}

// New creates and registers all engine collectors on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		ParsesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "statement_parses_total",
			Help: "Statement parse calls by detected bank and outcome.",
		}, []string{"bank", "outcome"}),
		TransactionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "statement_transactions_total",
			Help: "Transactions returned to callers by extraction pass.",
		}, []string{"pass"}),
		ParseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "statement_parse_duration_seconds",
			Help:    "Wall time of a full parse call.",
			Buckets: prometheus.DefBuckets,
		}),
		LearningEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "statement_learning_events_total",
			Help: "Learned-store mutations by kind.",
		}, []string{"kind"}),
		StoreFlushFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "statement_store_flush_failures_total",
			Help: "Learned-store persistence failures (logged and swallowed).",
		}),
	}

	registry.MustRegister(
		m.ParsesTotal,
		m.TransactionsTotal,
		m.ParseDuration,
		m.LearningEvents,
		m.StoreFlushFailures,
	)

	return m
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
