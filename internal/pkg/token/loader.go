// internal/pkg/token/loader.go
package token

import (
	"fmt"
	"time"

	xerrors "prepwise-service/internal/pkg/errors"
)

const (
	// DefaultTTL is the validity window of a session token.
	DefaultTTL = 7 * 24 * time.Hour

	// DevelopmentSecret signs tokens when no secret is configured outside production.
	DevelopmentSecret = "dev-only-secret-change-me"
)

type Config struct {
	Secret     string
	TTL        time.Duration
	Production bool
}

type Manager struct {
	Generator *Generator
	Verifier  *Verifier
}

// ResolveSecret applies the secret policy: a configured secret wins, the
// development secret is used outside production, and production without a
// secret is a configuration error.
func ResolveSecret(secret string, production bool) (string, error) {
	if secret != "" {
		return secret, nil
	}
	if !production {
		return DevelopmentSecret, nil
	}
	return "", fmt.Errorf("%w: SESSION_SECRET", xerrors.ErrConfigMissing)
}

func Build(cfg Config) (*Manager, error) {
	secret, err := ResolveSecret(cfg.Secret, cfg.Production)
	if err != nil {
		return nil, err
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Manager{
		Generator: NewGenerator([]byte(secret), ttl),
		Verifier:  NewVerifier([]byte(secret)),
	}, nil
}

// MaxAgeSeconds is the cookie max-age matching the token validity window.
func (m *Manager) MaxAgeSeconds() int {
	return int(m.Generator.Ttl / time.Second)
}
