// internal/app/system/metrics/metrics.go
//
// Prometheus instrumentation for the HTTP surface plus a few domain
// counters. Everything registers on the default registry; Handler
// serves it at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "faithlink_http_requests_total",
		Help: "HTTP requests processed, by method, route pattern, and status.",
	}, []string{"method", "route", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "faithlink_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	inFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "faithlink_http_requests_in_flight",
		Help: "HTTP requests currently being served.",
	})

	membersImported = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "faithlink_members_imported_total",
		Help: "Member rows processed via CSV import, by outcome.",
	}, []string{"outcome"})

	emailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "faithlink_announcement_emails_total",
		Help: "Announcement emails attempted, by outcome.",
	}, []string{"outcome"})
)

// Handler serves the Prometheus exposition endpoint.
func Handler() http.Handler { return promhttp.Handler() }

// Middleware records request counts, latency, and in-flight gauge for
// every request. The route label uses the chi route pattern so member
// IDs and the like do not explode label cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inFlight.Inc()
		defer inFlight.Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		route := ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		if route == "" {
			route = "unmatched"
		}
		requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// MembersImported adds to the import counters after a CSV batch finishes.
func MembersImported(created, skipped int) {
	membersImported.WithLabelValues("created").Add(float64(created))
	membersImported.WithLabelValues("skipped").Add(float64(skipped))
}

// EmailsSent adds to the announcement delivery counters after a send.
func EmailsSent(delivered, failed int) {
	emailsSent.WithLabelValues("delivered").Add(float64(delivered))
	emailsSent.WithLabelValues("failed").Add(float64(failed))
}
