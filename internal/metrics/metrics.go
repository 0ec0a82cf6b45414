// Package metrics holds the Prometheus collectors for the high score service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mcoot/highscores-go/internal/middleware"
)

// DefaultNamespace prefixes every metric name
const DefaultNamespace = "highscores"

// Metrics holds Prometheus metrics for HTTP traffic, auth and scores
type Metrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	scoresSubmitted  *prometheus.CounterVec
	authFailureTotal prometheus.Counter
	gatherer         prometheus.Gatherer
}

// New creates Metrics on a fresh registry that also carries the Go and process collectors
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(namespace, reg)
}

// NewWithRegistry creates Metrics registered with reg.
// This is useful for testing where a private registry is preferred.
func NewWithRegistry(namespace string, reg *prometheus.Registry) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	m := &Metrics{gatherer: reg}

	m.requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	m.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "route"},
	)

	m.scoresSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scores",
			Name:      "submitted_total",
			Help:      "Total number of accepted score submissions",
		},
		[]string{"level"},
	)

	m.authFailureTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "failure_total",
			Help:      "Total number of rejected bearer tokens",
		},
	)

	reg.MustRegister(m.requestsTotal, m.requestDuration, m.scoresSubmitted, m.authFailureTotal)

	return m
}

// ScoreSubmitted counts an accepted submission
func (m *Metrics) ScoreSubmitted(level string) {
	m.scoresSubmitted.WithLabelValues(level).Inc()
}

// AuthFailed counts a rejected request at the auth gate
func (m *Metrics) AuthFailed() {
	m.authFailureTotal.Inc()
}

// ObserveRequest records one completed HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per matched route template.
// Install it on a mux router so the route is known.
func (m *Metrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := middleware.NewResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			route := "unmatched"
			if cr := mux.CurrentRoute(r); cr != nil {
				if tpl, err := cr.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			m.ObserveRequest(r.Method, route, wrapped.Status(), time.Since(start))
		})
	}
}
