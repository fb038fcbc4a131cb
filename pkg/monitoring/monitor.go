package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// AICompletions counts completion calls by source (merchant|demo|probe)
	// and outcome (ok|error|empty).
	AICompletions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "narada_ai_completions_total",
			Help: "Completion API calls by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	AICompletionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "narada_ai_completion_duration_seconds",
			Help:    "Latency of completion API calls",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 30},
		},
		[]string{"source"},
	)

	DemoRateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "narada_demo_rate_limited_total",
			Help: "Demo chat requests rejected by the per-client limiter",
		},
	)
)

var registerOnce sync.Once

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(AICompletions)
		prometheus.MustRegister(AICompletionDuration)
		prometheus.MustRegister(DemoRateLimited)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(duration)
	}
}

func ObserveCompletion(source, outcome string, elapsed time.Duration) {
	AICompletions.WithLabelValues(source, outcome).Inc()
	AICompletionDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
