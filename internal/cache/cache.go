// Package cache provides time-boxed memoization for health and drift
// results, keyed by site and result kind. Concurrent misses for the
// same key share one computation via singleflight; recomputation is
// idempotent and side-effect-free, so a duplicate computation after a
// Forget race is harmless.
package cache

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Result kinds cached per site.
const (
	KindHealth = "health"
	KindDrift  = "drift"
)

// Cache is a TTL cache with single-flight recomputation.
type Cache struct {
	ttl     time.Duration
	mu      sync.Mutex
	entries map[string]entry
	group   singleflight.Group

	// now is swappable for tests
	now func() time.Time
}

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// New creates a cache whose entries expire after ttl.
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Key builds the cache key for a site and result kind.
func Key(siteID, kind string) string {
	return siteID + ":" + kind
}

// Do returns the cached value for key, or runs compute, caches its
// result, and returns it. Concurrent callers missing on the same key
// share one compute call. Errors are not cached.
func (c *Cache) Do(key string, compute func() (interface{}, error)) (interface{}, error) {
	if value, ok := c.get(key); ok {
		return value, nil
	}

	value, err, _ := c.group.Do(key, func() (interface{}, error) {
		// A concurrent caller may have populated the entry while this
		// caller waited on the flight group.
		if value, ok := c.get(key); ok {
			return value, nil
		}
		value, err := compute()
		if err != nil {
			return nil, err
		}
		c.set(key, value)
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Forget drops the given keys. Missing keys are ignored; forgetting is
// fire-and-forget by design.
func (c *Cache) Forget(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
}

// ForgetSite drops both result kinds for a site.
func (c *Cache) ForgetSite(siteID string) {
	c.Forget(Key(siteID, KindHealth), Key(siteID, KindDrift))
}

func (c *Cache) get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *Cache) set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	}
}
