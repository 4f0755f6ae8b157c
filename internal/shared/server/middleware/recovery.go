package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/Smith-Faldu/legal-lens/internal/shared/metrics"
	"github.com/Smith-Faldu/legal-lens/internal/shared/server/respond"
	"github.com/Smith-Faldu/legal-lens/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 body. A panic mid-pipeline counts
// as a pipeline failure.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			metrics.IncPipelineFailure()
			telemetry.Error("http.panic", map[string]any{
				"request_id": RequestIDFromContext(c),
				"user_id":    UserIDFromContext(c),
				"route":      c.FullPath(),
				"method":     c.Request.Method,
				"error":      fmt.Sprint(rec),
				"stack":      string(debug.Stack()),
			})
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal", "Internal server error", fmt.Errorf("panic: %v", rec))
		}()
		c.Next()
	}
}
