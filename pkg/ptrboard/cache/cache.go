// Package cache provides a content-addressed memoization cache.
//
// Entries are keyed by a hash of a function identity plus its arguments and
// live until Clear is called. There is no size or time based eviction.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
)

// Cache memoizes computed values by key. It is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]any
	gen     uint64
	hits    uint64
	misses  uint64
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Entries int
	Hits    uint64
	Misses  uint64
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string]any)}
}

// Key returns the SHA-256 hex digest of fn and args.
// Arguments are formatted with %q so that ("a b", "c") and ("a", "b c") differ.
func Key(fn string, args ...string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%q", fn)
	for _, a := range args {
		fmt.Fprintf(h, "\x00%q", a)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the value stored under key.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Clear drops every entry. Counters are kept.
// Computations started before Clear do not store their results.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]any)
	c.gen++
}

func (c *Cache) generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// setIfGeneration stores v under key unless Clear ran since gen was read.
func (c *Cache) setIfGeneration(key string, v any, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen == gen {
		c.entries[key] = v
	}
}

// Stats returns the current counters.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{Entries: len(c.entries), Hits: c.hits, Misses: c.misses}
}

func (c *Cache) record(hit bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if hit {
		c.hits++
	} else {
		c.misses++
	}
}

// Do returns the value cached under key, or calls compute and caches its
// result. Errors are returned but never cached. Concurrent misses on the same
// key may compute more than once; the last result wins. A result whose
// computation overlapped a Clear is returned but not cached.
func Do[T any](c *Cache, key string, compute func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			c.record(true)
			return typed, nil
		}
	}
	c.record(false)
	gen := c.generation()

	v, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}
	c.setIfGeneration(key, v, gen)
	return v, nil
}
