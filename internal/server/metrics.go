package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "securecheck"

type metrics struct {
	registry *prometheus.Registry
	queries  *prometheus.CounterVec
	uploads  *prometheus.CounterVec
	submits  *prometheus.CounterVec
}

func newMetrics(sessions *sessionStore) *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Queries run, by query and outcome.",
		}, []string{"query", "outcome"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Dataset uploads, by format and outcome.",
		}, []string{"format", "outcome"}),
		submits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Record submissions, by outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		m.queries,
		m.uploads,
		m.submits,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Datasets currently held in memory.",
		}, func() float64 { return float64(sessions.len()) }),
		collectors.NewGoCollector(),
	)
	return m
}
