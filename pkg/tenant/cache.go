package tenant

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// Cache keeps recently resolved tenants keyed by id.
type Cache interface {
	Get(ctx context.Context, id int64) (*Tenant, bool)
	Set(ctx context.Context, id int64, tenant *Tenant, ttl time.Duration)
	Delete(ctx context.Context, id int64)
	Close() error
}

// DefaultCacheSize is the default maximum number of items in the cache.
const DefaultCacheSize = 1000

// DefaultCacheTTL is how long the middleware keeps a resolved tenant.
const DefaultCacheTTL = 5 * time.Minute

type memoryCache struct {
	mu      sync.Mutex
	items   map[int64]*list.Element
	order   *list.List // front is most recently used
	maxSize int
	stop    chan struct{}
	done    chan struct{}
	closed  bool
}

type cacheEntry struct {
	id        int64
	tenant    *Tenant
	expiresAt time.Time
}

// NewMemoryCache creates an LRU cache bounded to maxSize entries.
// Expired entries are purged once a minute until Close is called.
func NewMemoryCache(maxSize int) Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}

	c := &memoryCache{
		items:   make(map[int64]*list.Element, maxSize),
		order:   list.New(),
		maxSize: maxSize,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go c.cleanup(time.Minute)

	return c
}

func (c *memoryCache) Get(_ context.Context, id int64) (*Tenant, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[id]
	if !ok {
		return nil, false
	}
	entry := el.Value.(*cacheEntry)
	if time.Now().After(entry.expiresAt) {
		c.remove(el)
		return nil, false
	}
	c.order.MoveToFront(el)

	return entry.tenant, true
}

func (c *memoryCache) Set(_ context.Context, id int64, tenant *Tenant, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[id]; ok {
		entry := el.Value.(*cacheEntry)
		entry.tenant = tenant
		entry.expiresAt = time.Now().Add(ttl)
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.maxSize {
		if oldest := c.order.Back(); oldest != nil {
			c.remove(oldest)
		}
	}
	c.items[id] = c.order.PushFront(&cacheEntry{
		id:        id,
		tenant:    tenant,
		expiresAt: time.Now().Add(ttl),
	})
}

func (c *memoryCache) Delete(_ context.Context, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[id]; ok {
		c.remove(el)
	}
}

// Close stops the cleanup goroutine and waits for it to finish.
func (c *memoryCache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.stop)
	<-c.done
	return nil
}

func (c *memoryCache) remove(el *list.Element) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*cacheEntry).id)
}

func (c *memoryCache) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	defer close(c.done)

	for {
		select {
		case <-ticker.C:
			c.purgeExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *memoryCache) purgeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if now.After(el.Value.(*cacheEntry).expiresAt) {
			c.remove(el)
		}
		el = prev
	}
}

type noOpCache struct{}

// NewNoOpCache creates a cache that never stores anything.
func NewNoOpCache() Cache { return noOpCache{} }

func (noOpCache) Get(context.Context, int64) (*Tenant, bool) { return nil, false }

func (noOpCache) Set(context.Context, int64, *Tenant, time.Duration) {}

func (noOpCache) Delete(context.Context, int64) {}

func (noOpCache) Close() error { return nil }
