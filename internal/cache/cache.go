package cache

import (
	"sync"
	"sync/atomic"
)

// Cache is a thread-safe, append-only map from K to V.
//
// Cache must not be copied after creation (has mutex).
type Cache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V

	// Statistics (atomic for lock-free reads)
	hits    atomic.Uint64
	misses  atomic.Uint64
	creates atomic.Uint64
}

// New creates an empty cache.
func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		entries: make(map[K]V),
	}
}

// Get retrieves a value from the cache.
// Returns (value, true) if found, (zero, false) otherwise.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	v, ok := c.entries[key]
	c.mu.RUnlock()

	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// GetOrCreate returns the cached value for key, building it with create on
// first use. create runs under the write lock after a second lookup, so
// concurrent callers missing on the same key build it once. A create error
// is returned and nothing is stored; a later call retries.
func (c *Cache[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	// Fast path: read lock only
	c.mu.RLock()
	v, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		return v, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Re-check: another goroutine may have inserted while we waited.
	if v, ok := c.entries[key]; ok {
		c.hits.Add(1)
		return v, nil
	}
	c.misses.Add(1)

	v, err := create()
	if err != nil {
		var zero V
		return zero, err
	}
	c.creates.Add(1)
	c.entries[key] = v
	return v, nil
}

// Len returns the number of entries in the cache.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Keys returns a snapshot of the cached keys in unspecified order.
func (c *Cache[K, V]) Keys() []K {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]K, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return keys
}

// Stats returns cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}

	return Stats{
		Len:     c.Len(),
		Hits:    hits,
		Misses:  misses,
		Creates: c.creates.Load(),
		HitRate: rate,
	}
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Hits is the number of lookups answered from the cache.
	Hits uint64
	// Misses is the number of lookups that found no entry.
	Misses uint64
	// Creates is the number of values built by GetOrCreate.
	Creates uint64
	// HitRate is Hits/(Hits+Misses), 0 when no lookups happened.
	HitRate float64
}
