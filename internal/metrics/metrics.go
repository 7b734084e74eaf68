// Package metrics exposes Prometheus counters for the reconciliation
// engine on a private registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the engine's counters. A nil *Metrics is valid and
// records nothing, so callers never need to guard instrumentation.
type Metrics struct {
	registry *prometheus.Registry

	stageRuns *prometheus.CounterVec
	mutations *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.stageRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "digiflow",
		Subsystem: "recon",
		Name:      "stage_runs_total",
		Help:      "Reconciliation stage executions by stage and result.",
	}, []string{"stage", "result"})

	m.mutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "digiflow",
		Subsystem: "recon",
		Name:      "documents_total",
		Help:      "Documents affected by reconciliation, by stage and action.",
	}, []string{"stage", "action"})

	m.registry.MustRegister(m.stageRuns, m.mutations)
	return m
}

// Handler serves the registry over HTTP.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StageRun records one stage execution; result is "ok" or "error".
func (m *Metrics) StageRun(stage, result string) {
	if m == nil {
		return
	}
	m.stageRuns.WithLabelValues(stage, result).Inc()
}

// Documents records n documents affected by a stage action such as
// "migrated", "deleted", "promoted" or "demoted".
func (m *Metrics) Documents(stage, action string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.mutations.WithLabelValues(stage, action).Add(float64(n))
}
