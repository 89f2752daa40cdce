package view

import (
	"sync"

	"gridview/internal/domain"
)

// Cache memoizes derivations keyed by snapshot identity and selector. Snapshots
// are immutable, so pointer identity is a sound key. Entries for earlier snapshots
// are dropped the first time a different snapshot is looked up.
type Cache struct {
	mu       sync.Mutex
	snapshot *domain.Snapshot
	models   map[Selector]*Model
	hits     int
	misses   int
}

// NewCache creates an empty derivation cache
func NewCache() *Cache {
	return &Cache{models: make(map[Selector]*Model)}
}

// Derive returns the memoized model for (snapshot, sel), computing it on a miss.
// Returned models are shared; callers must not modify them.
func (c *Cache) Derive(snapshot *domain.Snapshot, sel Selector) *Model {
	c.mu.Lock()
	defer c.mu.Unlock()

	if snapshot != c.snapshot {
		c.snapshot = snapshot
		clear(c.models)
	}
	if m, ok := c.models[sel]; ok {
		c.hits++
		return m
	}
	c.misses++
	m := Derive(snapshot.Diagram(), sel)
	c.models[sel] = m
	return m
}

// Stats returns hit and miss counters
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
