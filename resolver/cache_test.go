package resolver

import (
	"testing"
	"time"
)

func TestIDCache_ExpiredEntryRemovedOnGet(t *testing.T) {
	c := newIDCache(10, time.Minute)
	c.put("aspirin", 2244)
	c.store["aspirin"] = idEntry{cid: 2244, createdAt: time.Now().Add(-2 * time.Minute)}

	if _, ok := c.get("aspirin"); ok {
		t.Fatal("expired entry served from cache")
	}
	c.mu.RLock()
	_, still := c.store["aspirin"]
	c.mu.RUnlock()
	if still {
		t.Error("expired entry left in the map after get")
	}
}

// At capacity, eviction must clear expired entries before touching live
// ones, so a freshly cached resolution cannot lose its slot to a stale one.
func TestIDCache_EvictionPrefersExpired(t *testing.T) {
	c := newIDCache(2, time.Minute)
	c.put("stale", 1)
	c.store["stale"] = idEntry{cid: 1, createdAt: time.Now().Add(-2 * time.Minute)}
	c.put("fresh", 2)

	c.put("newest", 3)

	if cid, ok := c.get("fresh"); !ok || cid != 2 {
		t.Errorf("fresh entry evicted while a stale one held capacity: got (%d, %v)", cid, ok)
	}
	if cid, ok := c.get("newest"); !ok || cid != 3 {
		t.Errorf("newest entry missing after put: got (%d, %v)", cid, ok)
	}
	if _, ok := c.get("stale"); ok {
		t.Error("stale entry survived eviction")
	}
}
