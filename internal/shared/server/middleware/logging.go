package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"matching-backend/internal/shared/telemetry"
)

// Logging emits a structured log per request.
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
		reqID := RequestIDFromContext(c)

		adminID, _ := c.Get(adminIDKey)
		requestRef, _ := c.Get("matchingRequestId")
		workflowTransition := ""
		if raw, ok := c.Get("workflowTransition"); ok {
			if s, ok := raw.(string); ok {
				workflowTransition = s
			}
		}

		telemetry.Info("request.complete", map[string]any{
			"request_id":          reqID,
			"method":              c.Request.Method,
			"path":                c.Request.URL.Path,
			"status":              status,
			"workflow_transition": workflowTransition,
			"duration_ms":         float64(latency.Microseconds()) / 1000.0,
			"admin_id":            adminID,
			"matching_request_id": requestRef,
			"client_ip":           c.ClientIP(),
			"user_agent":          c.Request.UserAgent(),
		})
	}
}
