package redis

import (
	"context"
	"fmt"
	"time"
)

// RateLimiter throttles bot traffic per Telegram chat with a fixed window
// counter in Redis: first hit creates the key with the window TTL, later hits
// increment it, and the command is rejected once the count passes the limit.
// A window survives process restarts because the counter lives in Redis, not
// in the adapter.
type RateLimiter struct {
	client *Client
}

func NewRateLimiter(client *Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// Allow reports whether one more hit on key fits inside the window. Counting
// happens before the limit check, so even rejected hits keep the window warm.
func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := r.client.Incr(ctx, key)
	if err != nil {
		return false, err
	}
	if count == 1 {
		// First hit in the window owns the expiry.
		if err := r.client.Expire(ctx, key, window); err != nil {
			return false, err
		}
	}
	return count <= int64(limit), nil
}

// UserCommandKey scopes the counter to one Telegram user and one command, so
// a chat hammering /apply does not lock the same user out of /status. Inline
// button callbacks pass a "cb:"-prefixed command.
func UserCommandKey(telegramID int64, command string) string {
	return fmt.Sprintf("rate_limit:%d:%s", telegramID, command)
}
