package company

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// MemoryStore is a Store for tests and APP_STORAGE=memory.
type MemoryStore struct {
	mu     sync.RWMutex
	rows   map[int64]tenant.Tenant
	nextID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[int64]tenant.Tenant)}
}

func (s *MemoryStore) Create(_ context.Context, c *tenant.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTaken(c.Email, 0) {
		return ErrEmailTaken
	}
	s.nextID++
	now := time.Now()
	c.ID = s.nextID
	c.CreatedAt, c.UpdatedAt = now, now
	s.rows[c.ID] = *c
	return nil
}

func (s *MemoryStore) GetByID(_ context.Context, id int64) (*tenant.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *MemoryStore) GetByEmail(_ context.Context, email string) (*tenant.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.rows {
		if strings.EqualFold(c.Email, email) {
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) List(_ context.Context, limit, offset int) ([]*tenant.Tenant, error) {
	all := s.sorted(0)
	if offset >= len(all) {
		return []*tenant.Tenant{}, nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *MemoryStore) ListAfter(_ context.Context, afterID int64, limit int) ([]*tenant.Tenant, error) {
	all := s.sorted(afterID)
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *MemoryStore) Update(_ context.Context, c *tenant.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.rows[c.ID]
	if !ok {
		return ErrNotFound
	}
	if s.emailTaken(c.Email, c.ID) {
		return ErrEmailTaken
	}
	c.CreatedAt = old.CreatedAt
	c.UpdatedAt = time.Now()
	s.rows[c.ID] = *c
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[id]; !ok {
		return ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *MemoryStore) emailTaken(email string, self int64) bool {
	for id, c := range s.rows {
		if id != self && strings.EqualFold(c.Email, email) {
			return true
		}
	}
	return false
}

func (s *MemoryStore) sorted(afterID int64) []*tenant.Tenant {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*tenant.Tenant, 0, len(s.rows))
	for id, c := range s.rows {
		if id > afterID {
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *tenant.Tenant) int { return cmp.Compare(a.ID, b.ID) })
	return out
}
