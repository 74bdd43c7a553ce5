package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"prepwise-service/internal/pkg/session"
	"prepwise-service/internal/pkg/token"

	"github.com/gin-gonic/gin"
)

type managerValidator struct{ m *token.Manager }

func (v managerValidator) ValidateToken(raw string) (*token.Payload, error) {
	return v.m.Verifier.Verify(raw)
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m, err := token.Build(token.Config{Secret: "mw-secret"})
	if err != nil {
		t.Fatalf("token.Build() error = %v", err)
	}
	valid, err := m.Generator.Issue("user-1", "ada@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	r := gin.New()
	r.GET("/me", NewAuthMiddleware(managerValidator{m}).Auth(), func(c *gin.Context) {
		c.String(http.StatusOK, MustGetUserID(c)+"|"+GetEmail(c))
	})

	tests := []struct {
		name   string
		setup  func(*http.Request)
		status int
		body   string
	}{
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: session.CookieName, Value: valid}) }, http.StatusOK, "user-1|ada@example.com"},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+valid) }, http.StatusOK, "user-1|ada@example.com"},
		{"missing", func(*http.Request) {}, http.StatusUnauthorized, ""},
		{"tampered", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+valid+"x") }, http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.body != "" && rec.Body.String() != tt.body {
				t.Fatalf("body = %q, want %q", rec.Body.String(), tt.body)
			}
		})
	}
}
