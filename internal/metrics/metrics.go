// Package metrics holds the Prometheus collectors for the form server and
// the gin middleware that feeds the HTTP ones.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dineout_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dineout_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BackendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dineout_backend_requests_total",
			Help: "Calls made to the recommendation backend by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	BackendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dineout_backend_request_duration_seconds",
			Help:    "Recommendation backend latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dineout_submissions_total",
			Help: "Recommendation submissions by rendered result kind",
		},
		[]string{"result"},
	)

	PagesOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dineout_pages_open",
			Help: "Form pages currently held in memory",
		},
	)

	RateLimitRejects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dineout_rate_limit_rejects_total",
			Help: "Total number of requests rejected due to rate limiting",
		},
	)
)

// Middleware records request count and latency keyed by the route pattern,
// not the raw path, so page IDs do not explode label cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// ObserveBackend records one backend call.
func ObserveBackend(endpoint string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	BackendRequests.WithLabelValues(endpoint, outcome).Inc()
	BackendDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}
