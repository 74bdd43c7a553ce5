// internal/service/auth/auth.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"prepwise-service/internal/domain/auth"
	xerrors "prepwise-service/internal/pkg/errors"
	"prepwise-service/internal/pkg/password"
	"prepwise-service/internal/pkg/token"

	"go.uber.org/zap"
)

var ErrUserExists = errors.New("user already exists, please sign in")

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u *auth.User) error
	FindUserByEmail(ctx context.Context, email string) (*auth.User, error)
	FindUserByID(ctx context.Context, id string) (*auth.User, error)
}

// AttemptLimiter bounds sign-in attempts per client.
type AttemptLimiter interface {
	AllowSignIn(ctx context.Context, ip, email string) (bool, error)
	ResetSignIn(ctx context.Context, ip, email string) error
}

type AuthService struct {
	users   UserStore
	tokens  *token.Manager
	limiter AttemptLimiter
	logger  *zap.Logger
}

func NewAuthService(users UserStore, tokens *token.Manager, limiter AttemptLimiter, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:   users,
		tokens:  tokens,
		limiter: limiter,
		logger:  logger,
	}
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp registers a new account and opens a session for it.
func (s *AuthService) SignUp(ctx context.Context, req *auth.SignUpRequest) (*auth.SessionResult, error) {
	email := NormalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || name == "" || req.Password == "" {
		return nil, xerrors.ErrInvalidInput
	}

	if _, err := s.users.FindUserByEmail(ctx, email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, xerrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &auth.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, xerrors.ErrDuplicateEntry) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user signed up", zap.String("user_id", user.ID))
	return s.openSession(user)
}

// SignIn checks credentials and opens a session. Unknown email and wrong
// password are reported identically.
func (s *AuthService) SignIn(ctx context.Context, req *auth.SignInRequest) (*auth.SessionResult, error) {
	email := NormalizeEmail(req.Email)

	if s.limiter != nil {
		allowed, err := s.limiter.AllowSignIn(ctx, req.IPAddress, email)
		if err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}
		if !allowed {
			return nil, xerrors.ErrRateLimited
		}
	}

	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !password.Verify(req.Password, user.PasswordHash) {
		s.logger.Info("sign-in rejected", zap.String("ip", req.IPAddress))
		return nil, xerrors.ErrInvalidCredentials
	}

	if s.limiter != nil {
		if err := s.limiter.ResetSignIn(ctx, req.IPAddress, email); err != nil {
			s.logger.Warn("failed to reset sign-in attempts", zap.Error(err))
		}
	}

	return s.openSession(user)
}

// ValidateToken verifies a session token without any lookup.
func (s *AuthService) ValidateToken(raw string) (*token.Payload, error) {
	return s.tokens.Verifier.Verify(raw)
}

// CurrentUser loads the live account behind a verified session.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*auth.UserInfo, error) {
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.ErrInvalidSession
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	info := user.Info()
	return &info, nil
}

func (s *AuthService) openSession(user *auth.User) (*auth.SessionResult, error) {
	raw, err := s.tokens.Generator.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}
	return &auth.SessionResult{
		Token:  raw,
		MaxAge: s.tokens.MaxAgeSeconds(),
		User:   user.Info(),
	}, nil
}
