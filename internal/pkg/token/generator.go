// internal/pkg/token/generator.go
package token

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Delimiter separates the encoded payload from its signature.
const Delimiter = "."

type Generator struct {
	secret []byte
	Ttl    time.Duration
	now    func() time.Time
}

func NewGenerator(secret []byte, ttl time.Duration) *Generator {
	return &Generator{
		secret: secret,
		Ttl:    ttl,
		now:    time.Now,
	}
}

// Issue creates a signed token for the given identity that expires after Ttl.
func (g *Generator) Issue(userID, email string) (string, error) {
	return g.IssueWithExpiry(userID, email, g.now().Add(g.Ttl))
}

// IssueWithExpiry creates a signed token with an explicit expiry instant.
func (g *Generator) IssueWithExpiry(userID, email string, expiresAt time.Time) (string, error) {
	if len(g.secret) == 0 {
		return "", fmt.Errorf("token generator has empty secret")
	}

	body, err := json.Marshal(Payload{
		UserID:    userID,
		Email:     email,
		ExpiresAt: expiresAt.UnixMilli(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}

	encoded := base64.RawURLEncoding.EncodeToString(body)
	sig, err := sign(g.secret, encoded)
	if err != nil {
		return "", err
	}

	return encoded + Delimiter + sig, nil
}

// sign computes the base64url HMAC-SHA256 of the encoded payload.
func sign(secret []byte, encoded string) (string, error) {
	raw, err := jwt.SigningMethodHS256.Sign(encoded, secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign payload: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
