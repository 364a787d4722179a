package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTP collectors. The path label is the matched route template, so chat
// and message ids never become label values. Unmatched requests share the
// "unmatched" path.
var (
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP request latency by method and route.",
			// Chat turns wait on a completion and an image probe.
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		},
		[]string{"method", "path"},
	)
	httpInflight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_requests_inflight",
		Help: "HTTP requests currently being served.",
	})
	httpResponseBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response body size by method and route.",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8), // 256B .. 4MiB
		},
		[]string{"method", "path"},
	)
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration, httpInflight, httpResponseBytes)
}

// Metrics records request count, latency, in-flight requests and response
// size.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInflight.Inc()
		defer httpInflight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		httpRequests.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		if n := c.Writer.Size(); n >= 0 {
			httpResponseBytes.WithLabelValues(method, path).Observe(float64(n))
		}
	}
}
