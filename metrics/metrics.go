package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "legaldocs_http_requests_total",
		Help: "HTTP requests by method, route, and status code.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "legaldocs_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	documentTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "legaldocs_document_transitions_total",
		Help: "Pipeline step completions by step.",
	}, []string{"step"})

	chatRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "legaldocs_chat_requests_total",
		Help: "Chat proxy calls by outcome.",
	}, []string{"outcome"})
)

// Middleware records a counter and latency sample per request
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(
			c.Request.Method, route, strconv.Itoa(c.Writer.Status()),
		).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).
			Observe(time.Since(start).Seconds())
	}
}

// Handler serves the Prometheus scrape endpoint
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// ObserveTransition counts a completed pipeline step
func ObserveTransition(step string) {
	documentTransitionsTotal.WithLabelValues(step).Inc()
}

// ObserveChat counts a chat call outcome ("ok", "error", or "canceled")
func ObserveChat(outcome string) {
	chatRequestsTotal.WithLabelValues(outcome).Inc()
}
