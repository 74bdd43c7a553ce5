// internal/middleware/auth_middleware.go
package middleware

import (
	"net/http"
	"strings"

	"prepwise-service/internal/pkg/response"
	"prepwise-service/internal/pkg/session"
	"prepwise-service/internal/pkg/token"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "user_id"
	ctxEmail  = "email"
)

// TokenValidator verifies session tokens.
type TokenValidator interface {
	ValidateToken(raw string) (*token.Payload, error)
}

type AuthMiddleware struct {
	validator TokenValidator
}

func NewAuthMiddleware(validator TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		validator: validator,
	}
}

// Auth rejects requests without a valid session. Every failure gets the same
// response so callers cannot tell a forged token from an expired one.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractToken(c)
		if raw == "" {
			response.Unauthorized(c, "invalid or expired session")
			return
		}

		payload, err := m.validator.ValidateToken(raw)
		if err != nil {
			response.Unauthorized(c, "invalid or expired session")
			return
		}

		c.Set(ctxUserID, payload.UserID)
		c.Set(ctxEmail, payload.Email)
		c.Next()
	}
}

// OptionalAuth sets the user context when a valid session is present and
// never aborts.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := extractToken(c); raw != "" {
			if payload, err := m.validator.ValidateToken(raw); err == nil {
				c.Set(ctxUserID, payload.UserID)
				c.Set(ctxEmail, payload.Email)
			}
		}
		c.Next()
	}
}

// extractToken reads the session cookie, then a Bearer Authorization header.
func extractToken(c *gin.Context) string {
	if v := session.TokenFromRequest(c); v != "" {
		return v
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	return ""
}

// CORSMiddleware allows credentialed requests from the configured origins.
func CORSMiddleware(origins ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && allowed[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Vary", "Origin")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
