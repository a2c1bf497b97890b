// Package metrics holds the Prometheus collectors for upstream requests and
// MCP tool/resource calls.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "chess_mcp"

// Metrics is safe for concurrent use. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	upstreamTotal    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	callsTotal       *prometheus.CounterVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		upstreamTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Upstream API requests by operation and status.",
		}, []string{"op", "status"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Upstream API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		callsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls_total",
			Help:      "MCP tool and resource calls by kind, name and outcome.",
		}, []string{"kind", "name", "outcome"}),
	}
	m.registry.MustRegister(m.upstreamTotal, m.upstreamDuration, m.callsTotal)
	return m
}

// ObserveUpstream records one upstream request. status is the HTTP status
// code as text, or "error" when no response arrived.
func (m *Metrics) ObserveUpstream(op, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.upstreamTotal.WithLabelValues(op, status).Inc()
	m.upstreamDuration.WithLabelValues(op).Observe(d.Seconds())
}

// ObserveCall records a tool or resource invocation.
func (m *Metrics) ObserveCall(kind, name string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.callsTotal.WithLabelValues(kind, name, outcome).Inc()
}

// Registry exposes the underlying registry (tests gather from it).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
