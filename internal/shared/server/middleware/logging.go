package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"nutriscan-backend/internal/shared/metrics"
	"nutriscan-backend/internal/shared/telemetry"
)

// Logging emits a structured log per request and feeds the per-route
// request counters.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		metrics.IncHTTPRequest(c.Request.Method, c.FullPath(), status)
		telemetry.Info("request.complete", map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      status,
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})
	}
}
