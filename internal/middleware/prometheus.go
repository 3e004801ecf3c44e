package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/keyfleet/keyfleet/internal/metrics"
)

// PrometheusMiddleware observes per-request duration and count, labelled by
// method, route pattern, and status.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// Label with the route pattern, not the raw path, so each key or
		// team ID does not mint a new series.
		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		status := strconv.Itoa(c.Writer.Status())

		metrics.RequestDuration.WithLabelValues(c.Request.Method, route, status).
			Observe(time.Since(start).Seconds())
		metrics.RequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
	}
}
