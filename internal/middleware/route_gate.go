// internal/middleware/route_gate.go
package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"prepwise-service/internal/pkg/session"

	"github.com/gin-gonic/gin"
)

const (
	SignInPath = "/sign-in"
	SignUpPath = "/sign-up"
)

var ungatedPrefixes = []string{"/api", "/ws", "/metrics", "/health", "/static", "/covers", "/favicon.ico"}

// IsProtectedPath reports whether a page requires a session.
func IsProtectedPath(path string) bool {
	return path == "/" || strings.HasPrefix(path, "/interview")
}

// IsAuthPath reports whether path is a sign-in or sign-up page.
func IsAuthPath(path string) bool {
	return path == SignInPath || path == SignUpPath
}

// RouteGate redirects page requests on cookie presence alone. Protected pages
// without a session go to sign-in with a next parameter; auth pages with a
// session go home. Token validity is checked by the handlers behind it.
func RouteGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range ungatedPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		hasSession := session.TokenFromRequest(c) != ""

		if IsProtectedPath(path) && !hasSession {
			c.Redirect(http.StatusTemporaryRedirect, SignInPath+"?next="+url.QueryEscape(path))
			c.Abort()
			return
		}
		if IsAuthPath(path) && hasSession {
			c.Redirect(http.StatusTemporaryRedirect, "/")
			c.Abort()
			return
		}

		c.Next()
	}
}
