package cache

import (
	"context"
	"sync"
	"time"

	"github.com/askdb-io/askdb/internal/store"
)

const defaultResultEntries = 100

// ExecFunc runs a statement and returns its rows
type ExecFunc func(ctx context.Context) (*store.ResultSet, error)

// ResultCache memoizes query results by the exact statement text. Keys are
// content hashes of the text as given: two statements that differ only in
// whitespace are different queries and cache independently.
type ResultCache struct {
	mu sync.Mutex

	capacity int
	entries  map[string]*resultEntry

	hits      int64
	misses    int64
	evictions int64
}

type resultEntry struct {
	result   *store.ResultSet
	lastUsed time.Time
}

// NewResultCache creates a result cache holding up to capacity entries;
// zero or negative falls back to 100.
func NewResultCache(capacity int) *ResultCache {
	if capacity <= 0 {
		capacity = defaultResultEntries
	}

	return &ResultCache{
		capacity: capacity,
		entries:  make(map[string]*resultEntry),
	}
}

// GetOrRun returns the cached rows for sqlText, or runs exec and caches its
// result. Failed executions are returned to the caller and never cached, so
// a transient error does not poison later calls with the same statement.
func (c *ResultCache) GetOrRun(ctx context.Context, sqlText string, exec ExecFunc) (*store.ResultSet, error) {
	key := hashKey(sqlText)

	c.mu.Lock()

	if entry, ok := c.entries[key]; ok {
		entry.lastUsed = time.Now()
		c.hits++
		result := entry.result
		c.mu.Unlock()

		return result, nil
	}

	c.misses++
	c.mu.Unlock()

	result, err := exec(ctx)
	if err != nil {
		return nil, err
	}

	// A result produced under a context that was cancelled mid-run may be
	// truncated. Hand it back, but do not memoize it.
	if ctx.Err() != nil {
		return result, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &resultEntry{
		result:   result,
		lastUsed: time.Now(),
	}

	c.evictLocked()

	return result, nil
}

// Contains reports whether rows for sqlText are currently cached
func (c *ResultCache) Contains(sqlText string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries[hashKey(sqlText)]

	return ok
}

// Clear drops every cached result
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*resultEntry)
}

// Stats returns a point-in-time copy of the cache counters
func (c *ResultCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{
		Entries:   len(c.entries),
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
	stats.fillRates()

	return stats
}

// evictLocked removes least-recently-used results until the cache fits its
// capacity. Callers must hold the mutex.
func (c *ResultCache) evictLocked() {
	for len(c.entries) > c.capacity {
		var (
			oldestKey string
			oldest    time.Time
			found     bool
		)

		for key, entry := range c.entries {
			if !found || entry.lastUsed.Before(oldest) {
				oldestKey = key
				oldest = entry.lastUsed
				found = true
			}
		}

		delete(c.entries, oldestKey)
		c.evictions++
	}
}
