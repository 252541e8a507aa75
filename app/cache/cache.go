// Package cache holds computed results keyed by the session version and the
// request that produced them, evicting the least recently used entry once
// the capacity is reached.
package cache

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// DefaultCapacity is the number of entries kept when none is given.
const DefaultCapacity = 32

// Logger interface for cache logging
type Logger interface {
	Log(level, message string)
}

type nopLogger struct{}

func (nopLogger) Log(string, string) {}

// Stats reports cache usage.
type Stats struct {
	Entries  int     `json:"entries"`
	Capacity int     `json:"capacity"`
	Hits     int64   `json:"hits"`
	Misses   int64   `json:"misses"`
	HitRate  float64 `json:"hitRate"`
}

// Cache is a fixed-capacity LRU cache, safe for concurrent use. Cached values
// are shared between callers and must be treated as read-only.
type Cache[V any] struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]V
	lru      *lruList
	logger   Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// New returns a cache holding at most capacity entries.
func New[V any](capacity int, logger Logger) *Cache[V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = nopLogger{}
	}
	return &Cache[V]{
		capacity: capacity,
		entries:  make(map[string]V),
		lru:      newLRUList(),
		logger:   logger,
	}
}

// Get returns the value under key and marks it as recently used.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		c.logger.Log("debug", fmt.Sprintf("[CACHE_MISS] %s", key))
		return v, false
	}
	c.hits.Add(1)
	c.lru.touch(key)
	c.logger.Log("debug", fmt.Sprintf("[CACHE_HIT] %s", key))
	return v, true
}

// Put stores v under key, evicting the oldest entries past capacity.
func (c *Cache[V]) Put(key string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = v
	c.lru.touch(key)
	for c.lru.len() > c.capacity {
		old, ok := c.lru.oldest()
		if !ok {
			break
		}
		delete(c.entries, old)
		c.logger.Log("debug", fmt.Sprintf("[CACHE_EVICT] %s", old))
	}
}

// Remove drops key if present.
func (c *Cache[V]) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	c.lru.remove(key)
}

// RemoveBefore drops every entry built for a version older than version.
func (c *Cache[V]) RemoveBefore(version int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.entries {
		if v, ok := KeyVersion(key); ok && v < version {
			delete(c.entries, key)
			c.lru.remove(key)
			removed++
		}
	}
	if removed > 0 {
		c.logger.Log("debug", fmt.Sprintf("[CACHE] dropped %d entries older than version %d", removed, version))
	}
	return removed
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	entries := len(c.entries)
	c.mu.Unlock()

	hits, misses := c.hits.Load(), c.misses.Load()
	s := Stats{Entries: entries, Capacity: c.capacity, Hits: hits, Misses: misses}
	if total := hits + misses; total > 0 {
		s.HitRate = float64(hits) / float64(total)
	}
	return s
}

// Key builds a cache key from a version and the parts of a request, e.g.
// "v:3|crosstab|Region|Date|monthly".
func Key(version int64, parts ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "v:%d", version)
	for _, p := range parts {
		b.WriteByte('|')
		b.WriteString(strings.ReplaceAll(p, "|", `\|`))
	}
	return b.String()
}

// KeyVersion extracts the version a key was built with.
func KeyVersion(key string) (int64, bool) {
	head, _, _ := strings.Cut(key, "|")
	var v int64
	if _, err := fmt.Sscanf(head, "v:%d", &v); err != nil {
		return 0, false
	}
	return v, true
}
