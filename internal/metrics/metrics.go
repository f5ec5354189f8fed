// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hotlunchhub_http_requests_total",
			Help: "HTTP requests served, by route and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hotlunchhub_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	sagaSteps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hotlunchhub_user_saga_steps_total",
			Help: "User create/delete orchestration steps by outcome.",
		},
		[]string{"operation", "step", "outcome"},
	)

	cacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hotlunchhub_cache_requests_total",
			Help: "In-process cache lookups by result.",
		},
		[]string{"cache", "result"},
	)
)

// Middleware records request counts and latency per chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Saga counts orchestration steps for the users service.
type Saga struct{}

func (Saga) ObserveStep(operation, step, outcome string) {
	sagaSteps.WithLabelValues(operation, step, outcome).Inc()
}

// Cache counts hits and misses of one named cache.
type Cache struct {
	hits   prometheus.Counter
	misses prometheus.Counter
}

func NewCache(name string) Cache {
	return Cache{
		hits:   cacheRequests.WithLabelValues(name, "hit"),
		misses: cacheRequests.WithLabelValues(name, "miss"),
	}
}

func (c Cache) Hit() {
	c.hits.Inc()
}

func (c Cache) Miss() {
	c.misses.Inc()
}
