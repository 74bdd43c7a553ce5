package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"prepwise-service/internal/pkg/session"

	"github.com/gin-gonic/gin"
)

func newGateRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RouteGate())
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	r.GET("/", ok)
	r.GET("/interview/:id", ok)
	r.GET("/interview/:id/feedback", ok)
	r.GET("/sign-in", ok)
	r.GET("/sign-up", ok)
	r.GET("/api/v1/interviews", ok)
	r.GET("/about", ok)
	return r
}

func TestRouteGate(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		cookie   bool
		status   int
		location string
	}{
		{"home without session", "/", false, http.StatusTemporaryRedirect, "/sign-in?next=%2F"},
		{"interview without session", "/interview/abc", false, http.StatusTemporaryRedirect, "/sign-in?next=%2Finterview%2Fabc"},
		{"feedback without session", "/interview/abc/feedback", false, http.StatusTemporaryRedirect, "/sign-in?next=%2Finterview%2Fabc%2Ffeedback"},
		{"home with session", "/", true, http.StatusOK, ""},
		{"interview with session", "/interview/abc", true, http.StatusOK, ""},
		{"sign-in without session", "/sign-in", false, http.StatusOK, ""},
		{"sign-in with session", "/sign-in", true, http.StatusTemporaryRedirect, "/"},
		{"sign-up with session", "/sign-up", true, http.StatusTemporaryRedirect, "/"},
		{"api is not gated", "/api/v1/interviews", false, http.StatusOK, ""},
		{"public page", "/about", false, http.StatusOK, ""},
	}

	r := newGateRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie {
				req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "anything"})
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if got := rec.Header().Get("Location"); got != tt.location {
				t.Fatalf("Location = %q, want %q", got, tt.location)
			}
		})
	}
}
