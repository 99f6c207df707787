package tenant

import "sync"

// Cell holds the active tenant of one execution unit.
// The zero value is an empty cell ready to use.
type Cell struct {
	mu     sync.RWMutex
	tenant *Tenant
}

// Set installs t as the active tenant, replacing any previous one.
func (c *Cell) Set(t *Tenant) {
	c.mu.Lock()
	c.tenant = t
	c.mu.Unlock()
}

// Get returns the active tenant.
func (c *Cell) Get() (*Tenant, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tenant, c.tenant != nil
}

// CurrentID returns the id of the active tenant.
func (c *Cell) CurrentID() (int64, bool) {
	t, ok := c.Get()
	if !ok {
		return 0, false
	}
	return t.ID, true
}

// Clear empties the cell. Safe to call on an already empty cell.
func (c *Cell) Clear() {
	c.mu.Lock()
	c.tenant = nil
	c.mu.Unlock()
}
