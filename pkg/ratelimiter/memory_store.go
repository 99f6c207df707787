package ratelimiter

import (
	"context"
	"sync"
	"time"
)

type bucketState struct {
	tokens   int
	refilled time.Time
	touched  time.Time
}

// MemoryStore keeps buckets in process memory. Buckets idle for longer
// than an hour are dropped by a background sweep until Close.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucketState
	stop    chan struct{}
	once    sync.Once
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		buckets: make(map[string]*bucketState),
		stop:    make(chan struct{}),
	}
	go s.sweep(5 * time.Minute)
	return s
}

func (s *MemoryStore) Take(_ context.Context, key string, n int, cfg Config, now time.Time) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[key]
	if !ok {
		b = &bucketState{tokens: cfg.Capacity, refilled: now}
		s.buckets[key] = b
	}
	b.tokens, b.refilled = refill(b.tokens, b.refilled, now, cfg)
	b.touched = now

	resetAt := b.refilled.Add(cfg.RefillInterval)
	if b.tokens < n {
		return b.tokens - n, resetAt, nil
	}
	b.tokens -= n
	return b.tokens, resetAt, nil
}

func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, key)
	return nil
}

// Close stops the background sweep. Safe to call more than once.
func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.stop) })
	return nil
}

func (s *MemoryStore) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for key, b := range s.buckets {
				if now.Sub(b.touched) > time.Hour {
					delete(s.buckets, key)
				}
			}
			s.mu.Unlock()
		}
	}
}
