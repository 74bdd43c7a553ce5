package auth

import (
	"context"
	"errors"
	"testing"

	"prepwise-service/internal/domain/auth"
	xerrors "prepwise-service/internal/pkg/errors"
	"prepwise-service/internal/pkg/token"
)

type memUsers struct {
	byEmail map[string]*auth.User
	seq     int
}

func newMemUsers() *memUsers {
	return &memUsers{byEmail: map[string]*auth.User{}}
}

func (m *memUsers) CreateUser(_ context.Context, u *auth.User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return xerrors.ErrDuplicateEntry
	}
	m.seq++
	u.ID = "user-" + string(rune('0'+m.seq))
	m.byEmail[u.Email] = u
	return nil
}

func (m *memUsers) FindUserByEmail(_ context.Context, email string) (*auth.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, xerrors.ErrNotFound
}

func (m *memUsers) FindUserByID(_ context.Context, id string) (*auth.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

type countingLimiter struct {
	max    int
	counts map[string]int
	resets int
}

func (l *countingLimiter) AllowSignIn(_ context.Context, ip, email string) (bool, error) {
	if l.counts == nil {
		l.counts = map[string]int{}
	}
	l.counts[ip+email]++
	return l.counts[ip+email] <= l.max, nil
}

func (l *countingLimiter) ResetSignIn(_ context.Context, ip, email string) error {
	l.resets++
	delete(l.counts, ip+email)
	return nil
}

func newService(t *testing.T, limiter AttemptLimiter) (*AuthService, *memUsers) {
	t.Helper()
	tokens, err := token.Build(token.Config{Secret: "test-secret"})
	if err != nil {
		t.Fatalf("token.Build() error = %v", err)
	}
	users := newMemUsers()
	return NewAuthService(users, tokens, limiter, nil), users
}

func TestSignUpNormalizesEmailAndIssuesSession(t *testing.T) {
	svc, users := newService(t, nil)

	res, err := svc.SignUp(context.Background(), &auth.SignUpRequest{
		Name: " Ada ", Email: "  Ada@Example.COM ", Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	if res.User.Email != "ada@example.com" || res.User.Name != "Ada" {
		t.Fatalf("SignUp() user = %+v", res.User)
	}
	if res.MaxAge != 7*24*60*60 {
		t.Fatalf("MaxAge = %d, want one week", res.MaxAge)
	}
	stored := users.byEmail["ada@example.com"]
	if stored == nil || stored.PasswordHash == "correct horse" {
		t.Fatalf("stored user = %+v, want hashed password", stored)
	}

	payload, err := svc.ValidateToken(res.Token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if payload.UserID != stored.ID || payload.Email != "ada@example.com" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestSignUpRejectsDuplicate(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()
	req := &auth.SignUpRequest{Name: "Ada", Email: "ada@example.com", Password: "pw-123"}
	if _, err := svc.SignUp(ctx, req); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	dup := &auth.SignUpRequest{Name: "Ada", Email: "ADA@example.com", Password: "pw-456"}
	if _, err := svc.SignUp(ctx, dup); !errors.Is(err, ErrUserExists) {
		t.Fatalf("SignUp() error = %v, want ErrUserExists", err)
	}
}

func TestSignInUniformFailure(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()
	if _, err := svc.SignUp(ctx, &auth.SignUpRequest{Name: "Ada", Email: "ada@example.com", Password: "pw-123"}); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	_, wrongPassword := svc.SignIn(ctx, &auth.SignInRequest{Email: "ada@example.com", Password: "nope"})
	_, unknownUser := svc.SignIn(ctx, &auth.SignInRequest{Email: "bob@example.com", Password: "pw-123"})
	for _, err := range []error{wrongPassword, unknownUser} {
		if !errors.Is(err, xerrors.ErrInvalidCredentials) {
			t.Fatalf("SignIn() error = %v, want ErrInvalidCredentials", err)
		}
	}
	if wrongPassword.Error() != unknownUser.Error() {
		t.Fatalf("failure messages differ: %q vs %q", wrongPassword, unknownUser)
	}

	res, err := svc.SignIn(ctx, &auth.SignInRequest{Email: " ADA@example.com", Password: "pw-123"})
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	if res.Token == "" {
		t.Fatalf("SignIn() returned empty token")
	}
}

func TestSignInRateLimited(t *testing.T) {
	limiter := &countingLimiter{max: 2}
	svc, _ := newService(t, limiter)
	ctx := context.Background()
	if _, err := svc.SignUp(ctx, &auth.SignUpRequest{Name: "Ada", Email: "ada@example.com", Password: "pw-123"}); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	req := &auth.SignInRequest{Email: "ada@example.com", Password: "bad", IPAddress: "10.0.0.1"}
	for i := 0; i < 2; i++ {
		if _, err := svc.SignIn(ctx, req); !errors.Is(err, xerrors.ErrInvalidCredentials) {
			t.Fatalf("attempt %d error = %v, want ErrInvalidCredentials", i, err)
		}
	}
	good := &auth.SignInRequest{Email: "ada@example.com", Password: "pw-123", IPAddress: "10.0.0.1"}
	if _, err := svc.SignIn(ctx, good); !errors.Is(err, xerrors.ErrRateLimited) {
		t.Fatalf("SignIn() error = %v, want ErrRateLimited", err)
	}
	if limiter.resets != 0 {
		t.Fatalf("resets = %d, want 0", limiter.resets)
	}
}

func TestCurrentUser(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()
	res, err := svc.SignUp(ctx, &auth.SignUpRequest{Name: "Ada", Email: "ada@example.com", Password: "pw-123"})
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	info, err := svc.CurrentUser(ctx, res.User.ID)
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if info.Name != "Ada" {
		t.Fatalf("CurrentUser() = %+v", info)
	}
	if _, err := svc.CurrentUser(ctx, "missing"); !errors.Is(err, xerrors.ErrInvalidSession) {
		t.Fatalf("CurrentUser(missing) error = %v, want ErrInvalidSession", err)
	}
}
