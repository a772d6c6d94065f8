// Package ratelimit provides fixed-window admission control keyed by client
// identity, with a Redis-backed shared mode and an in-process fallback mode.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of one admission check. RetryAfter is zero when
// allowed; when denied it is the time until the current window resets.
type Decision struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// Limiter decides whether a request from the given key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

func decide(count, limit int64, windowEnds time.Duration) Decision {
	if count > limit {
		return Decision{Allowed: false, RetryAfter: windowEnds}
	}
	return Decision{Allowed: true, Remaining: limit - count}
}
