package ratelimit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// LocalLimiter is a per-process token bucket per key. It is used when Redis is unreachable,
// so limits are per replica rather than global.
type LocalLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	every    rate.Limit
	burst    int
}

// NewLocalLimiter refills limit tokens per window with the given burst.
func NewLocalLimiter(limit int, window time.Duration, burst int) *LocalLimiter {
	if burst <= 0 {
		burst = 1
	}
	every := rate.Inf
	if limit > 0 && window > 0 {
		every = rate.Limit(float64(limit) / window.Seconds())
	}
	return &LocalLimiter{limiters: make(map[string]*rate.Limiter), every: every, burst: burst}
}

func (l *LocalLimiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.every, l.burst)
		l.limiters[key] = lim
	}
	return lim
}

// Allow consumes a token for key if one is available.
func (l *LocalLimiter) Allow(_ context.Context, key string) (Decision, error) {
	lim := l.limiter(key)
	now := time.Now()
	reservation := lim.ReserveN(now, 1)
	if !reservation.OK() {
		return Decision{Allowed: false, RetryAfter: time.Second}, nil
	}
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return Decision{Allowed: false, RetryAfter: delay}, nil
	}
	return Decision{Allowed: true, Remaining: int(lim.TokensAt(now))}, nil
}

// Fallback tries primary first and switches to secondary for the call when primary errors.
type Fallback struct {
	primary   Limiter
	secondary Limiter
	logger    *zap.Logger
}

// NewFallback composes two limiters.
func NewFallback(primary, secondary Limiter, logger *zap.Logger) *Fallback {
	return &Fallback{primary: primary, secondary: secondary, logger: logger}
}

// Allow implements Limiter.
func (f *Fallback) Allow(ctx context.Context, key string) (Decision, error) {
	decision, err := f.primary.Allow(ctx, key)
	if err == nil {
		return decision, nil
	}
	f.logger.Warn("primary rate limiter failed; using local limiter", zap.Error(err))
	return f.secondary.Allow(ctx, key)
}
