// internal/pkg/session/rate_limiter.go
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	maxSignInAttempts = 5
	signInWindow      = 15 * time.Minute
)

type RateLimiter struct {
	client *redis.Client
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// AllowSignIn counts a sign-in attempt and reports whether it is allowed.
func (r *RateLimiter) AllowSignIn(ctx context.Context, ip, email string) (bool, error) {
	key := signInKey(ip, email)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment sign-in attempt: %w", err)
	}

	// Set expiration on first attempt
	if count == 1 {
		r.client.Expire(ctx, key, signInWindow)
	}

	return count <= maxSignInAttempts, nil
}

// ResetSignIn clears the attempt counter after a successful sign-in.
func (r *RateLimiter) ResetSignIn(ctx context.Context, ip, email string) error {
	return r.client.Del(ctx, signInKey(ip, email)).Err()
}

// AcquireFeedbackSlot marks a feedback submission for interview+user as in flight.
// It returns false while another submission for the same pair holds the slot.
func (r *RateLimiter) AcquireFeedbackSlot(ctx context.Context, interviewID, userID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("feedback:inflight:%s:%s", interviewID, userID)
	ok, err := r.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire feedback slot: %w", err)
	}
	return ok, nil
}

// ReleaseFeedbackSlot frees the slot taken by AcquireFeedbackSlot.
func (r *RateLimiter) ReleaseFeedbackSlot(ctx context.Context, interviewID, userID string) error {
	key := fmt.Sprintf("feedback:inflight:%s:%s", interviewID, userID)
	return r.client.Del(ctx, key).Err()
}

func signInKey(ip, email string) string {
	return fmt.Sprintf("ratelimit:signin:%s:%s", ip, strings.ToLower(email))
}
