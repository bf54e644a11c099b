// Package ratelimit caps how many reports a single subject may file within a window.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter counts one submission for key and reports whether it is within quota.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}
