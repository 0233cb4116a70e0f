package enrich

import (
	"sync"

	"github.com/umercadal/trippier/backend/internal/models"
)

// Cache maps a place identifier to its resolved enrichment data for the
// lifetime of the process. There is no eviction: enrichment is at-most-once
// per identifier per session, and the working set (one entry per distinct
// place ever enriched) stays small for a single-session deployment.
type Cache struct {
	mu    sync.Mutex
	items map[string]models.EnrichedData
}

// NewCache creates an empty enrichment cache.
func NewCache() *Cache {
	return &Cache{items: make(map[string]models.EnrichedData)}
}

// Get returns the cached enrichment for a place identifier, if present.
func (c *Cache) Get(placeID string) (models.EnrichedData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.items[placeID]
	return data, ok
}

// Set stores enrichment data for a place identifier. Concurrent writers for
// the same identifier compute from the same inputs, so last write wins.
func (c *Cache) Set(placeID string, data models.EnrichedData) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[placeID] = data
}

// Len reports the number of cached identifiers.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}
