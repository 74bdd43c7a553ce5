package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"prepwise-service/internal/domain/auth"
	"prepwise-service/internal/middleware"
	xerrors "prepwise-service/internal/pkg/errors"
	"prepwise-service/internal/pkg/session"
	"prepwise-service/internal/pkg/token"
	authUsecase "prepwise-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type memUsers struct {
	users map[string]*auth.User
}

func (m *memUsers) CreateUser(_ context.Context, u *auth.User) error {
	u.ID = "id-" + u.Email
	m.users[u.Email] = u
	return nil
}

func (m *memUsers) FindUserByEmail(_ context.Context, email string) (*auth.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, xerrors.ErrNotFound
}

func (m *memUsers) FindUserByID(_ context.Context, id string) (*auth.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

type recordingHub struct{ disconnected []string }

func (r *recordingHub) DisconnectUser(userID, _ string) {
	r.disconnected = append(r.disconnected, userID)
}

func newRouter(t *testing.T) (*gin.Engine, *recordingHub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := token.Build(token.Config{Secret: "handler-secret"})
	if err != nil {
		t.Fatalf("token.Build() error = %v", err)
	}
	svc := authUsecase.NewAuthService(&memUsers{users: map[string]*auth.User{}}, tokens, nil, nil)
	hub := &recordingHub{}
	h := NewAuthHandler(svc, hub, nil, false, zap.NewNop())
	mw := middleware.NewAuthMiddleware(svc)

	r := gin.New()
	g := r.Group("/api/v1/auth")
	g.POST("/sign-up", h.SignUp)
	g.POST("/sign-in", h.SignIn)
	g.POST("/sign-out", mw.OptionalAuth(), h.SignOut)
	g.GET("/me", mw.Auth(), h.Me)
	return r, hub
}

func do(r *gin.Engine, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == session.CookieName {
			return ck
		}
	}
	t.Fatalf("no session cookie in response")
	return nil
}

func TestSignUpSignInMeSignOut(t *testing.T) {
	r, hub := newRouter(t)

	rec := do(r, http.MethodPost, "/api/v1/auth/sign-up", `{"name":"Ada","email":"Ada@Example.com","password":"secret-pw"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("sign-up status = %d, body %s", rec.Code, rec.Body)
	}
	ck := sessionCookie(t, rec)
	if !ck.HttpOnly || ck.MaxAge != 7*24*60*60 {
		t.Fatalf("cookie = %+v", ck)
	}

	rec = do(r, http.MethodPost, "/api/v1/auth/sign-up", `{"name":"Ada","email":"ada@example.com","password":"secret-pw"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate sign-up status = %d, want 409", rec.Code)
	}

	rec = do(r, http.MethodPost, "/api/v1/auth/sign-in", `{"email":"ada@example.com","password":"secret-pw"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("sign-in status = %d, body %s", rec.Code, rec.Body)
	}
	ck = sessionCookie(t, rec)

	rec = do(r, http.MethodGet, "/api/v1/auth/me", "", ck)
	if rec.Code != http.StatusOK {
		t.Fatalf("me status = %d", rec.Code)
	}
	var body struct {
		Data auth.UserInfo `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body.Data.Email != "ada@example.com" || body.Data.Name != "Ada" {
		t.Fatalf("me = %+v", body.Data)
	}

	rec = do(r, http.MethodPost, "/api/v1/auth/sign-out", "", ck)
	if rec.Code != http.StatusOK {
		t.Fatalf("sign-out status = %d", rec.Code)
	}
	if cleared := sessionCookie(t, rec); cleared.MaxAge >= 0 || cleared.Value != "" {
		t.Fatalf("sign-out cookie = %+v, want cleared", cleared)
	}
	if len(hub.disconnected) != 1 || hub.disconnected[0] != "id-ada@example.com" {
		t.Fatalf("disconnected = %v", hub.disconnected)
	}
}

func TestSignInUniformRejection(t *testing.T) {
	r, _ := newRouter(t)
	do(r, http.MethodPost, "/api/v1/auth/sign-up", `{"name":"Ada","email":"ada@example.com","password":"secret-pw"}`)

	wrong := do(r, http.MethodPost, "/api/v1/auth/sign-in", `{"email":"ada@example.com","password":"nope"}`)
	unknown := do(r, http.MethodPost, "/api/v1/auth/sign-in", `{"email":"bob@example.com","password":"secret-pw"}`)

	if wrong.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d/%d, want 401/401", wrong.Code, unknown.Code)
	}
	if wrong.Body.String() != unknown.Body.String() {
		t.Fatalf("bodies differ:\n%s\n%s", wrong.Body, unknown.Body)
	}
}

func TestMeRequiresSession(t *testing.T) {
	r, _ := newRouter(t)
	rec := do(r, http.MethodGet, "/api/v1/auth/me", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
