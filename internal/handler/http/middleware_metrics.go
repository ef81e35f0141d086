package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	migrationMerged    = "merged"
	migrationOverwrote = "overwrote"
	migrationRejected  = "rejected"
	migrationFailed    = "failed"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "weight_tracker_http_requests_total",
		Help: "HTTP requests by method, route pattern and status code",
	}, []string{"method", "route", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "weight_tracker_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route pattern",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	migrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "weight_tracker_migrations_total",
		Help: "POST /weights/migrate outcomes",
	}, []string{"outcome"})
)

func migrationOutcome(overwrite bool) string {
	if overwrite {
		return migrationOverwrote
	}
	return migrationMerged
}

// withMetrics records request count and latency. The route label is chi's
// matched pattern, so path parameters do not explode cardinality.
func (h *Handler) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		mw := &responseWriter{ResponseWriter: w}

		next.ServeHTTP(mw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(mw.statusCode())).Inc()
		requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
