package metric

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "todo"

// Gateway outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeNetwork = "network"
	OutcomeHTTP4xx = "http_4xx"
	OutcomeHTTP5xx = "http_5xx"
	OutcomeLocal   = "local"
)

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	// Client side
	GatewayRequests    *prometheus.CounterVec
	GatewayDuration    *prometheus.HistogramVec
	SessionTransitions *prometheus.CounterVec
	Notifications      *prometheus.CounterVec

	// Backend side
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewRegistry creates a registry with Go runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		registry: reg,
		GatewayRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Requests sent to the backend by method and outcome.",
		}, []string{"method", "outcome"}),
		GatewayDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Backend round-trip latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		SessionTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "transitions_total",
			Help:      "Session state transitions.",
		}, []string{"from", "to"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "posted_total",
			Help:      "Notifications posted by kind.",
		}, []string{"kind"}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests served by method, route and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP handler latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		r.GatewayRequests,
		r.GatewayDuration,
		r.SessionTransitions,
		r.Notifications,
		r.RequestsTotal,
		r.RequestDuration,
	)
	return r
}

var (
	globalOnce sync.Once
	global     *Registry
)

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry()
	})
	return global
}

// MustRegister adds extra collectors to the registry.
func (r *Registry) MustRegister(cs ...prometheus.Collector) {
	if r == nil {
		return
	}
	r.registry.MustRegister(cs...)
}

// Gatherer exposes the underlying registry for scraping and tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// ObserveGateway records one backend round trip.
func (r *Registry) ObserveGateway(method, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.GatewayRequests.WithLabelValues(method, outcome).Inc()
	r.GatewayDuration.WithLabelValues(method).Observe(d.Seconds())
}

// SessionTransition records a session phase change.
func (r *Registry) SessionTransition(from, to string) {
	if r == nil {
		return
	}
	r.SessionTransitions.WithLabelValues(from, to).Inc()
}

// NotificationPosted records a posted notification.
func (r *Registry) NotificationPosted(kind string) {
	if r == nil {
		return
	}
	r.Notifications.WithLabelValues(kind).Inc()
}

// ObserveHTTP records one request served by the backend.
func (r *Registry) ObserveHTTP(method, route string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Handler serves the global registry.
func Handler() http.Handler {
	return Global().Handler()
}
