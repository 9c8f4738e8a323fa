package httpapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the HTTP layer.
var (
	// RequestsTotal tracks HTTP requests by method, route, and status.
	// The route label uses the registered pattern, not the raw path, to
	// keep cardinality bounded.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meetingd",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by method, route, and status",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration tracks request latency by route.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "meetingd",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds by route",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// WebhookEvents tracks webhook processing outcomes: applied, dropped
	// (unusable payload), or error.
	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meetingd",
			Subsystem: "http",
			Name:      "webhook_events_total",
			Help:      "Total webhook events by processing outcome",
		},
		[]string{"outcome"},
	)
)

// MetricsMiddleware returns an Echo middleware that records HTTP metrics.
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			route := c.Path()
			if route == "" {
				route = "/"
			}
			method := c.Request().Method

			RequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Response().Status)).Inc()
			RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())

			return err
		}
	}
}
