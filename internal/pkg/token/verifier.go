// internal/pkg/token/verifier.go
package token

import (
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	xerrors "prepwise-service/internal/pkg/errors"
)

type Verifier struct {
	secret []byte
	now    func() time.Time
}

func NewVerifier(secret []byte) *Verifier {
	return &Verifier{
		secret: secret,
		now:    time.Now,
	}
}

// Verify checks the signature and expiry of a token and returns its payload.
// Every failure wraps xerrors.ErrInvalidSession.
func (v *Verifier) Verify(tokenString string) (*Payload, error) {
	encoded, sig, ok := strings.Cut(tokenString, Delimiter)
	if !ok || encoded == "" || sig == "" {
		return nil, fmt.Errorf("%w: malformed token", xerrors.ErrInvalidSession)
	}

	expected, err := sign(v.secret, encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", xerrors.ErrInvalidSession, err)
	}

	a, b := []byte(sig), []byte(expected)
	if len(a) != len(b) || subtle.ConstantTimeCompare(a, b) != 1 {
		return nil, fmt.Errorf("%w: signature mismatch", xerrors.ErrInvalidSession)
	}

	body, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: undecodable payload", xerrors.ErrInvalidSession)
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: unparsable payload", xerrors.ErrInvalidSession)
	}
	if !payload.complete() {
		return nil, fmt.Errorf("%w: incomplete payload", xerrors.ErrInvalidSession)
	}
	if payload.Expired(v.now()) {
		return nil, fmt.Errorf("%w: token expired", xerrors.ErrInvalidSession)
	}

	return &payload, nil
}
