// internal/pkg/token/claims.go
package token

import "time"

// Payload is the signed body of a session token.
type Payload struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	// ExpiresAt is the expiry instant in epoch milliseconds.
	ExpiresAt int64 `json:"exp"`
}

// Expired reports whether the payload is past its expiry at now.
func (p *Payload) Expired(now time.Time) bool {
	return now.UnixMilli() > p.ExpiresAt
}

// ExpiresTime returns the expiry as a time.Time.
func (p *Payload) ExpiresTime() time.Time {
	return time.UnixMilli(p.ExpiresAt)
}

func (p *Payload) complete() bool {
	return p.UserID != "" && p.Email != "" && p.ExpiresAt != 0
}
