// Package seen remembers which chat lines have already been handled.
//
// The chatbox is re-read on every poll and keeps reporting the same visible
// lines until they scroll away. Cache is a bounded membership set over line
// keys; once full it forgets the key that was remembered first.
package seen

import (
	lru "github.com/hashicorp/golang-lru/v2/simplelru"
)

// DefaultCapacity is how many line keys are remembered.
const DefaultCapacity = 250

// Cache is a fixed-capacity set of line keys with insertion-order eviction.
// Contains never refreshes a key, and Remember never re-inserts one, so the
// underlying LRU order is exactly insertion order.
//
// Cache is not safe for concurrent use.
type Cache struct {
	lru      *lru.LRU[string, struct{}]
	capacity int
}

// New returns a Cache holding at most capacity keys. A capacity below 1
// falls back to DefaultCapacity.
func New(capacity int) *Cache {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	l, err := lru.NewLRU[string, struct{}](capacity, nil)
	if err != nil {
		// Only returned for a non-positive size, which is ruled out above.
		panic(err)
	}
	return &Cache{lru: l, capacity: capacity}
}

// Contains reports whether key has been remembered and not yet evicted.
func (c *Cache) Contains(key string) bool {
	return c.lru.Contains(key)
}

// Remember inserts key, evicting the oldest key when over capacity.
// It is a no-op for a key that is already present.
func (c *Cache) Remember(key string) {
	if c.lru.Contains(key) {
		return
	}
	c.lru.Add(key, struct{}{})
}

// Len returns the number of remembered keys.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Capacity returns the configured bound.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Keys returns the remembered keys, oldest first.
func (c *Cache) Keys() []string {
	return c.lru.Keys()
}

// Purge forgets every key.
func (c *Cache) Purge() {
	c.lru.Purge()
}
