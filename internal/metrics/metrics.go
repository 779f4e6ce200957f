// Package metrics exposes prometheus instrumentation for the store
// synchronization layer and the HTTP surface.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Write outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

var (
	// StoreReadsTotal counts collection reads from the backing store.
	StoreReadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slateplan_store_reads_total",
		Help: "Total number of collection reads from the backing store.",
	})

	// StoreWritesTotal counts collection writes by outcome.
	StoreWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slateplan_store_writes_total",
		Help: "Total number of collection writes, by outcome.",
	}, []string{"outcome"})

	// DroppedEventsTotal counts malformed events omitted from display reads.
	DroppedEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slateplan_display_dropped_events_total",
		Help: "Total number of malformed events dropped from display reads.",
	})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slateplan_http_requests_total",
		Help: "Total number of HTTP requests processed.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "slateplan_http_request_duration_seconds",
		Help:    "Histogram of latencies for HTTP requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Middleware records request counts and latencies per chi route pattern.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = r.URL.Path
			}
			status := strconv.Itoa(ww.Status())
			httpRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
		})
	}
}

// Handler returns the prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
