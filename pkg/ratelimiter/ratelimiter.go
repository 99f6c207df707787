package ratelimiter

import (
	"context"
	"fmt"
	"time"
)

// Store keeps bucket state.
type Store interface {
	// Take removes n tokens from the bucket at key if it holds that many.
	// remaining is negative when the bucket had too few tokens; the bucket
	// is then left untouched.
	Take(ctx context.Context, key string, n int, cfg Config, now time.Time) (remaining int, resetAt time.Time, err error)
	Reset(ctx context.Context, key string) error
}

// Bucket is a token bucket limiter over a Store.
type Bucket struct {
	store Store
	cfg   Config
	now   func() time.Time
}

func NewBucket(store Store, cfg Config) (*Bucket, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Bucket{store: store, cfg: cfg, now: time.Now}, nil
}

func (b *Bucket) Allow(ctx context.Context, key string) (*Result, error) {
	return b.AllowN(ctx, key, 1)
}

func (b *Bucket) AllowN(ctx context.Context, key string, n int) (*Result, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: must be positive, got %d", ErrInvalidTokenCount, n)
	}
	remaining, resetAt, err := b.store.Take(ctx, key, n, b.cfg, b.now())
	if err != nil {
		return nil, err
	}
	return &Result{Limit: b.cfg.Capacity, Remaining: remaining, ResetAt: resetAt}, nil
}

func (b *Bucket) Reset(ctx context.Context, key string) error {
	return b.store.Reset(ctx, key)
}

// refill returns the tokens and refill time of a bucket observed at now.
func refill(tokens int, refilled, now time.Time, cfg Config) (int, time.Time) {
	intervals := int64(now.Sub(refilled) / cfg.RefillInterval)
	if intervals <= 0 {
		return tokens, refilled
	}
	// Cap to avoid overflow on long idle buckets.
	intervals = min(intervals, int64(cfg.Capacity/cfg.RefillRate+1))
	tokens = min(tokens+int(intervals)*cfg.RefillRate, cfg.Capacity)
	return tokens, refilled.Add(time.Duration(intervals) * cfg.RefillInterval)
}
