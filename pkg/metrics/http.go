package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPMetrics records request counts and latencies per route.
type HTTPMetrics struct {
	registry *prometheus.Registry
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
}

// NewHTTPMetrics registers the HTTP metrics on a fresh registry.
func NewHTTPMetrics() *HTTPMetrics {
	registry := prometheus.NewRegistry()
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by route and status.",
	}, []string{"method", "route", "status"})
	registry.MustRegister(duration, requests)
	return &HTTPMetrics{
		registry: registry,
		duration: duration,
		requests: requests,
	}
}

// Middleware instruments the wrapped handler.
func (m *HTTPMetrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m == nil || m.duration == nil {
				next.ServeHTTP(w, r)
				return
			}
			rec := &statusWriter{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r)

			route := routePattern(r)
			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
			m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		})
	}
}

// Handler exposes the scrape endpoint for the local registry.
func (m *HTTPMetrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := strings.TrimSpace(rctx.RoutePattern()); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
