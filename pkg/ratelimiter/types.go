package ratelimiter

import (
	"fmt"
	"time"
)

// Config describes a token bucket.
type Config struct {
	Capacity       int           // burst size
	RefillRate     int           // tokens added per interval
	RefillInterval time.Duration
}

// PerMinute allows n requests per minute with bursts of up to n.
func PerMinute(n int) Config {
	return Config{Capacity: n, RefillRate: n, RefillInterval: time.Minute}
}

func (c Config) validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfig, c.Capacity)
	}
	if c.RefillRate <= 0 {
		return fmt.Errorf("%w: refill rate must be positive, got %d", ErrInvalidConfig, c.RefillRate)
	}
	if c.RefillInterval <= 0 {
		return fmt.Errorf("%w: refill interval must be positive, got %v", ErrInvalidConfig, c.RefillInterval)
	}
	return nil
}

// Result is the outcome of a single Allow call.
type Result struct {
	Limit     int
	Remaining int // negative when denied
	ResetAt   time.Time
}

func (r *Result) Allowed() bool { return r.Remaining >= 0 }

// RetryAfter returns how long to wait before retrying, or 0 if allowed.
func (r *Result) RetryAfter(now time.Time) time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(r.ResetAt.Sub(now), 0)
}
