package ratelimiter

import (
	"context"
	"time"
)

// Config defines a token bucket.
type Config struct {
	Capacity       int           `env:"RATE_LIMIT_CAPACITY" envDefault:"10"`
	RefillRate     int           `env:"RATE_LIMIT_REFILL_RATE" envDefault:"1"`
	RefillInterval time.Duration `env:"RATE_LIMIT_REFILL_INTERVAL" envDefault:"30s"`
	Backend        string        `env:"RATE_LIMIT_BACKEND" envDefault:"memory"` // memory or redis
}

// Result is the outcome of a rate limit check.
type Result struct {
	Limit     int
	Remaining int // negative when denied
	ResetAt   time.Time
}

// Allowed reports whether the request may proceed.
func (r Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter returns how long to wait before retrying. Zero when allowed.
func (r Result) RetryAfter(now time.Time) time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(r.ResetAt.Sub(now), 0)
}

// Store persists bucket state.
type Store interface {
	// ConsumeTokens takes tokens from key when enough are available and
	// returns the balance. When there are not enough tokens nothing is taken
	// and the returned balance is the shortfall as a negative number.
	ConsumeTokens(ctx context.Context, key string, tokens int, cfg Config) (remaining int, resetAt time.Time, err error)
	Reset(ctx context.Context, key string) error
}

// refill returns the balance after the intervals elapsed since last and the
// new refill mark.
func refill(balance int, last, now time.Time, cfg Config) (int, time.Time) {
	if now.Before(last) {
		return balance, last
	}
	intervals := int64(now.Sub(last) / cfg.RefillInterval)
	if intervals == 0 {
		return balance, last
	}
	capped := min(intervals, int64(cfg.Capacity/cfg.RefillRate+1))
	balance = min(balance+int(capped)*cfg.RefillRate, cfg.Capacity)
	return balance, last.Add(time.Duration(intervals) * cfg.RefillInterval)
}
