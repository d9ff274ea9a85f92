package mirra

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics returns middleware that records per-request Prometheus metrics:
// a request counter and a latency histogram, both labeled by method, path
// pattern, and status. The collectors are registered on reg; expose them
// with promhttp at the call site.
func Metrics(reg prometheus.Registerer) Middleware {
	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mirra",
			Name:      "requests_total",
			Help:      "Total number of handled requests.",
		},
		[]string{"method", "path", "status"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mirra",
			Name:      "request_duration_seconds",
			Help:      "Request latency distribution.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	reg.MustRegister(requests, duration)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			// The mux fills in r.Pattern on match. Arbitrary client
			// paths must not become label values, so unmatched requests
			// share one bucket.
			path := r.Pattern
			if path == "" {
				path = "unmatched"
			}

			requests.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
			duration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}
