// Package cache provides a small generic LRU cache.
//
//	c := cache.New[*gg.ImageBuf, []byte](64)
//	c.Set(img, encoded)
//	data, ok := c.Get(img)
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache

import "sync"

// Cache is a thread-safe LRU cache holding at most Capacity entries.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]*entry[K, V]
	lru      lruList[K, V]
	capacity int

	hits      uint64
	misses    uint64
	evictions uint64
}

type entry[K comparable, V any] struct {
	key        K
	value      V
	prev, next *entry[K, V]
}

// New creates a cache holding at most capacity entries. A capacity below
// 1 is raised to 1.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	return &Cache[K, V]{
		entries:  make(map[K]*entry[K, V]),
		capacity: max(capacity, 1),
	}
}

// Get returns the value cached for key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.lru.moveToFront(e)
	return e.value, true
}

// Set stores value under key, evicting the least recently used entries
// once the cache is full.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.lru.moveToFront(e)
		return
	}
	for c.lru.len >= c.capacity {
		oldest := c.lru.tail
		c.lru.unlink(oldest)
		delete(c.entries, oldest.key)
		c.evictions++
	}
	e := &entry[K, V]{key: key, value: value}
	c.lru.pushFront(e)
	c.entries[key] = e
}

// Delete removes key. It reports whether the key was present.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	c.lru.unlink(e)
	delete(c.entries, key)
	return true
}

// Clear removes every entry. Statistics are kept.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*entry[K, V])
	c.lru = lruList[K, V]{}
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Len:       len(c.entries),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

// Stats contains cache statistics.
type Stats struct {
	Len       int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
	// HitRate is Hits / (Hits + Misses), 0 before the first lookup.
	HitRate float64
}
