// internal/middleware/recovery_middleware.go
package middleware

import (
	"net/http"
	"strings"

	"prepwise-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryMiddleware turns a handler panic into a 500 envelope. The log
// carries the caller and, for call sockets and interview routes, the
// interview being worked on.
func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				fields := []zap.Field{
					zap.Any("error", err),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.String("ip", c.ClientIP()),
					zap.Stack("stack"),
				}
				if userID, ok := GetUserID(c); ok {
					fields = append(fields, zap.String("user_id", userID))
				}
				if id := interviewID(c); id != "" {
					fields = append(fields, zap.String("interview_id", id))
				}
				if mode := c.Query("mode"); mode != "" && strings.HasPrefix(c.Request.URL.Path, "/ws") {
					fields = append(fields, zap.String("call_mode", mode))
				}

				logger.Error("panic recovered", fields...)
				response.Error(c, http.StatusInternalServerError, "internal server error", nil)
			}
		}()
		c.Next()
	}
}

func interviewID(c *gin.Context) string {
	if id := c.Param("id"); id != "" && strings.Contains(c.FullPath(), "interview") {
		return id
	}
	return c.Query("interview_id")
}
