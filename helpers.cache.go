package main

import (
	"sync"
	"time"
)

// cacheEntry holds a cached value with the time it was stored.
type cacheEntry[V any] struct {
	value    V
	storedAt time.Time
}

// TTLCache is a keyed cache with time-based lazy eviction. Staleness is
// checked on read, there is no background sweeper. Entries are immutable
// once written and replaced atomically at the key level.
type TTLCache[V any] struct {
	clock   Clocker
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]cacheEntry[V]
}

// NewTTLCache provides a ready to use cache with the given time-to-live.
func NewTTLCache[V any](clock Clocker, ttl time.Duration) *TTLCache[V] {
	return &TTLCache[V]{
		clock:   clock,
		ttl:     ttl,
		entries: make(map[string]cacheEntry[V]),
	}
}

// Get returns the cached value for key when present and younger than the
// time-to-live. A stale entry is evicted before reporting a miss.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}
	if c.clock.Now().After(entry.storedAt.Add(c.ttl)) {
		c.mu.Lock()
		// Recheck under the write lock, another reader may have replaced it.
		if current, still := c.entries[key]; still && current.storedAt.Equal(entry.storedAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return zero, false
	}
	return entry.value, true
}

// Set stores the value for key with the current timestamp.
func (c *TTLCache[V]) Set(key string, value V) {
	c.mu.Lock()
	c.entries[key] = cacheEntry[V]{value: value, storedAt: c.clock.Now()}
	c.mu.Unlock()
}

// Len returns the number of entries including not-yet-evicted stale ones.
func (c *TTLCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
