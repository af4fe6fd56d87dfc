package cache

import (
	"context"
	"sync"
	"time"

	"github.com/askdb-io/askdb/internal/schema"
)

const (
	defaultBucketWidth     = 5 * time.Minute
	defaultSnapshotEntries = 32
)

// BuildFunc produces a fresh schema snapshot
type BuildFunc func(ctx context.Context) (*schema.Snapshot, error)

// SnapshotCache hands out schema snapshots keyed by time bucket. Every call
// inside the same bucket gets the same *schema.Snapshot value, so downstream
// prompt rendering is stable for the bucket's lifetime; a new bucket forces
// a rebuild and picks up schema drift.
//
// The mutex is held across the build. That serializes concurrent first
// callers of a bucket, which is what guarantees they all observe one
// snapshot instead of racing to build their own.
type SnapshotCache struct {
	mu sync.Mutex

	build    BuildFunc
	capacity int
	width    time.Duration

	entries map[int64]*snapshotEntry

	hits      int64
	misses    int64
	evictions int64

	// now is swappable so tests can steer bucket boundaries
	now func() time.Time
}

type snapshotEntry struct {
	snapshot *schema.Snapshot
	lastUsed time.Time
}

// NewSnapshotCache creates a snapshot cache. capacity bounds the number of
// retained buckets and width sets the bucket duration; zero or negative
// values fall back to 32 entries and 5 minutes.
func NewSnapshotCache(build BuildFunc, capacity int, width time.Duration) *SnapshotCache {
	if capacity <= 0 {
		capacity = defaultSnapshotEntries
	}

	if width <= 0 {
		width = defaultBucketWidth
	}

	return &SnapshotCache{
		build:    build,
		capacity: capacity,
		width:    width,
		entries:  make(map[int64]*snapshotEntry),
		now:      time.Now,
	}
}

// Get returns the snapshot for the current time bucket, building it on
// first use. Build failures are returned to the caller and never cached, so
// the next call retries.
func (c *SnapshotCache) Get(ctx context.Context) (*schema.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	bucket := c.bucket(c.now())

	if entry, ok := c.entries[bucket]; ok {
		entry.lastUsed = c.now()
		c.hits++

		return entry.snapshot, nil
	}

	c.misses++

	snapshot, err := c.build(ctx)
	if err != nil {
		return snapshot, err
	}

	c.entries[bucket] = &snapshotEntry{
		snapshot: snapshot,
		lastUsed: c.now(),
	}

	c.evictLocked()

	return snapshot, nil
}

// Clear drops every cached bucket
func (c *SnapshotCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[int64]*snapshotEntry)
}

// Stats returns a point-in-time copy of the cache counters
func (c *SnapshotCache) Stats() Stats {
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

// bucket maps a wall-clock instant onto its bucket index
func (c *SnapshotCache) bucket(t time.Time) int64 {
	return t.Unix() / int64(c.width/time.Second)
}

// evictLocked removes least-recently-used buckets until the cache fits its
// capacity. Callers must hold the mutex.
func (c *SnapshotCache) evictLocked() {
	for len(c.entries) > c.capacity {
		var (
			oldestKey int64
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
