// internal/pkg/session/cookie.go
package session

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CookieName is the cookie carrying the session token.
const CookieName = "session"

type CookieOptions struct {
	MaxAge int
	Secure bool
}

// SetCookie writes the session token cookie.
func SetCookie(c *gin.Context, token string, opts CookieOptions) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, opts.MaxAge, "/", "", opts.Secure, true)
}

// ClearCookie deletes the session cookie.
func ClearCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", secure, true)
}

// TokenFromRequest returns the session cookie value, or "" when absent.
func TokenFromRequest(c *gin.Context) string {
	v, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return v
}
