package chart

import (
	"sync"

	"github.com/venuekit/seating-chart/internal/model"
)

// ResultCache memoizes segmentation output per filter key. Entries never
// expire within a dataset's lifetime; the day × event cardinality is
// small and finite, so growth is bounded by the tuples actually visited.
// Reset clears everything and is called whenever raw data is resupplied,
// since every memoized value is derived from it.
type ResultCache struct {
	mu      sync.Mutex
	entries map[model.FilterKey][]model.RowSegments
	hits    uint64
	misses  uint64
}

// NewResultCache returns an empty cache.
func NewResultCache() *ResultCache {
	return &ResultCache{entries: make(map[model.FilterKey][]model.RowSegments)}
}

// GetOrCompute returns the memoized value for key, invoking compute only
// on a miss. Keys compare by value equality of the (day, event) pair.
func (c *ResultCache) GetOrCompute(key model.FilterKey, compute func() []model.RowSegments) []model.RowSegments {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.entries[key]; ok {
		c.hits++
		return v
	}
	c.misses++
	v := compute()
	c.entries[key] = v
	return v
}

// Reset drops all entries.
func (c *ResultCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[model.FilterKey][]model.RowSegments)
}

// Stats reports cumulative hit and miss counts for diagnostics.
func (c *ResultCache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
