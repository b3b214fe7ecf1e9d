// Package metrics provides Prometheus metrics for the architect backend.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics of the service.
type Metrics struct {
	AIRequestsTotal   *prometheus.CounterVec
	AIRequestDuration *prometheus.HistogramVec
	PipelineTotal     *prometheus.CounterVec
	HTTPRequestsTotal *prometheus.CounterVec
	WorkspacesLive    prometheus.Gauge
	ExportsTotal      *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates and registers all metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		AIRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "architect_ai_requests_total",
				Help: "Total number of AI gateway calls by call and status.",
			},
			[]string{"call", "status"},
		),
		AIRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "architect_ai_request_duration_seconds",
				Help:    "AI gateway call duration by call.",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
			},
			[]string{"call"},
		),
		PipelineTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "architect_pipeline_operations_total",
				Help: "Orchestrator operations by operation and result.",
			},
			[]string{"operation", "result"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "architect_http_requests_total",
				Help: "HTTP requests by route pattern, method and status code.",
			},
			[]string{"route", "method", "code"},
		),
		WorkspacesLive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "architect_workspaces_live",
				Help: "Number of workspaces held in memory.",
			},
		),
		ExportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "architect_exports_total",
				Help: "Document exports by format and status.",
			},
			[]string{"format", "status"},
		),
		registry: reg,
	}

	reg.MustRegister(m.AIRequestsTotal)
	reg.MustRegister(m.AIRequestDuration)
	reg.MustRegister(m.PipelineTotal)
	reg.MustRegister(m.HTTPRequestsTotal)
	reg.MustRegister(m.WorkspacesLive)
	reg.MustRegister(m.ExportsTotal)

	return m
}

// Handler returns an http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordAIRequest counts one AI call and observes its duration.
func (m *Metrics) RecordAIRequest(call, status string, seconds float64) {
	m.AIRequestsTotal.WithLabelValues(call, status).Inc()
	m.AIRequestDuration.WithLabelValues(call).Observe(seconds)
}

func (m *Metrics) RecordPipeline(operation, result string) {
	m.PipelineTotal.WithLabelValues(operation, result).Inc()
}

func (m *Metrics) RecordHTTPRequest(route, method, code string) {
	m.HTTPRequestsTotal.WithLabelValues(route, method, code).Inc()
}

func (m *Metrics) RecordExport(format, status string) {
	m.ExportsTotal.WithLabelValues(format, status).Inc()
}

func (m *Metrics) SetWorkspaces(count int) {
	m.WorkspacesLive.Set(float64(count))
}
