package resolver

import (
	"strings"
	"sync"
	"time"
)

// idEntry holds a cached CID with its creation timestamp.
type idEntry struct {
	cid       int
	createdAt time.Time
}

// idCache is a TTL-bounded identifier-to-CID cache. Resolutions are stable
// (PubChem CIDs do not move), so the TTL mainly bounds memory, not staleness.
// Safe for concurrent use.
type idCache struct {
	mu         sync.RWMutex
	store      map[string]idEntry
	maxEntries int
	ttl        time.Duration
}

func newIDCache(maxEntries int, ttl time.Duration) *idCache {
	return &idCache{
		store:      make(map[string]idEntry),
		maxEntries: maxEntries,
		ttl:        ttl,
	}
}

// cacheKey normalizes an identifier for cache lookups. SMILES strings are
// case-sensitive, so only surrounding whitespace is stripped.
func cacheKey(identifier string) string {
	return strings.TrimSpace(identifier)
}

func (c *idCache) get(identifier string) (int, bool) {
	key := cacheKey(identifier)

	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	if !ok {
		return 0, false
	}
	if time.Since(e.createdAt) > c.ttl {
		// Remove the stale entry so capacity eviction only ever competes
		// with live ones. Re-check under the write lock: a concurrent put
		// may have refreshed the key since the read above.
		c.mu.Lock()
		if cur, still := c.store[key]; still && time.Since(cur.createdAt) > c.ttl {
			delete(c.store, key)
		}
		c.mu.Unlock()
		return 0, false
	}
	return e.cid, true
}

func (c *idCache) put(identifier string, cid int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.store) >= c.maxEntries {
		// Drop expired entries first; fall back to evicting one random
		// live entry (map iteration is random in Go).
		for k, e := range c.store {
			if time.Since(e.createdAt) > c.ttl {
				delete(c.store, k)
			}
		}
		if len(c.store) >= c.maxEntries {
			for k := range c.store {
				delete(c.store, k)
				break
			}
		}
	}

	c.store[cacheKey(identifier)] = idEntry{cid: cid, createdAt: time.Now()}
}
