// internal/middleware/helpers.go
package middleware

import "github.com/gin-gonic/gin"

// GetUserID returns the authenticated user ID.
func GetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(ctxUserID)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// MustGetUserID gets the user ID from context or panics
func MustGetUserID(c *gin.Context) string {
	id, exists := GetUserID(c)
	if !exists {
		panic("user_id not found in context")
	}
	return id
}

// GetEmail returns the authenticated user's email.
func GetEmail(c *gin.Context) string {
	return c.GetString(ctxEmail)
}

// IsAuthenticated checks if request is authenticated
func IsAuthenticated(c *gin.Context) bool {
	_, exists := GetUserID(c)
	return exists
}
