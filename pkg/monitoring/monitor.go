package monitoring

import (
	"strconv"
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

	RecordingsUploaded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "recordings_uploaded_total",
			Help: "Total number of answer recordings stored",
		},
	)

	RecordingBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recording_size_bytes",
			Help:    "Size of uploaded answer recordings",
			Buckets: prometheus.ExponentialBuckets(64*1024, 4, 8),
		},
	)

	SessionsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sessions_processed_total",
			Help: "Session completion runs by outcome",
		},
		[]string{"outcome"},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(RecordingsUploaded)
	prometheus.MustRegister(RecordingBytes)
	prometheus.MustRegister(SessionsProcessed)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
