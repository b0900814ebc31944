package observability

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "learnhub"

// Metrics holds the service collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	verifications *prometheus.CounterVec
	jwksFetches   *prometheus.CounterVec
	roleChecks    *prometheus.CounterVec
	wsConnections prometheus.Gauge
	httpRequests  *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_verifications_total",
			Help:      "Token verification attempts by strategy and outcome.",
		}, []string{"strategy", "outcome"}),
		jwksFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jwks_fetches_total",
			Help:      "Key set fetches by outcome.",
		}, []string{"outcome"}),
		roleChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "role_checks_total",
			Help:      "Role guard decisions by required role and outcome.",
		}, []string{"role", "outcome"}),
		wsConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_connections",
			Help:      "Open realtime WebSocket connections.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status.",
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.verifications,
		m.jwksFetches,
		m.roleChecks,
		m.wsConnections,
		m.httpRequests,
	)
	return m
}

// Registry exposes the registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordVerification implements supabase.VerifyRecorder
func (m *Metrics) RecordVerification(strategy, outcome string) {
	m.verifications.WithLabelValues(strategy, outcome).Inc()
}

// RecordJWKSFetch implements supabase.FetchRecorder
func (m *Metrics) RecordJWKSFetch(outcome string) {
	m.jwksFetches.WithLabelValues(outcome).Inc()
}

// RecordRoleCheck implements auth.RoleCheckRecorder
func (m *Metrics) RecordRoleCheck(role, outcome string) {
	m.roleChecks.WithLabelValues(role, outcome).Inc()
}

// ConnectionOpened implements realtime.ConnectionGauge
func (m *Metrics) ConnectionOpened() {
	m.wsConnections.Inc()
}

// ConnectionClosed implements realtime.ConnectionGauge
func (m *Metrics) ConnectionClosed() {
	m.wsConnections.Dec()
}

// RecordRequest counts one served HTTP request
func (m *Metrics) RecordRequest(method, route string, status int) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
