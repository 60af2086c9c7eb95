package lattice

import (
	"container/list"
	"sync"
	"time"
)

// Frame cache defaults. 120 entries covers a few seconds of scrubbing at
// typical frame rates without holding a whole render in memory.
const (
	DefaultCacheCapacity = 120
	DefaultCacheTTL      = 5 * time.Second
)

type cacheKey struct {
	comp  string
	frame int
}

type cacheEntry struct {
	key    cacheKey
	state  FrameState
	hash   uint64
	stored time.Time
}

// FrameCache memoizes evaluated frames keyed by composition and frame
// number. Each entry records the structural hash of its composition at store
// time; a read presenting a different hash drops every entry for that
// composition and reports a miss. Reads promote, the least recently used
// entry is evicted at capacity, and entries past the TTL are dropped when
// touched. Safe for concurrent use.
type FrameCache struct {
	mu      sync.Mutex
	cap     int
	ttl     time.Duration
	entries map[cacheKey]*list.Element
	order   *list.List // front is most recently used
	now     func() time.Time
	stats   CacheStats
}

// NewFrameCache builds a cache with the given capacity and entry lifetime.
// Non-positive arguments take the package defaults.
func NewFrameCache(capacity int, ttl time.Duration) *FrameCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &FrameCache{
		cap:     capacity,
		ttl:     ttl,
		entries: make(map[cacheKey]*list.Element, capacity),
		order:   list.New(),
		now:     time.Now,
	}
}

// Get returns the cached state for (compositionID, frame) if present, fresh,
// and stored under the same structural hash. A hash mismatch means the
// composition changed since the entry was stored: all of that composition's
// entries are purged before reporting the miss.
func (c *FrameCache) Get(compositionID string, frame int, hash uint64) (FrameState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[cacheKey{compositionID, frame}]
	if !ok {
		c.stats.Misses++
		return FrameState{}, false
	}
	ent := el.Value.(*cacheEntry)
	if ent.hash != hash {
		c.purgeComposition(compositionID)
		c.stats.Misses++
		return FrameState{}, false
	}
	if c.now().Sub(ent.stored) > c.ttl {
		c.remove(el)
		c.stats.Expired++
		c.stats.Misses++
		return FrameState{}, false
	}
	c.order.MoveToFront(el)
	c.stats.Hits++
	return ent.state, true
}

// Set stores an evaluated frame under its structural hash, replacing any
// existing entry for the same key and evicting from the cold end when the
// cache is full.
func (c *FrameCache) Set(compositionID string, frame int, hash uint64, state FrameState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey{compositionID, frame}
	if el, ok := c.entries[key]; ok {
		ent := el.Value.(*cacheEntry)
		ent.state = state
		ent.hash = hash
		ent.stored = c.now()
		c.order.MoveToFront(el)
		return
	}
	el := c.order.PushFront(&cacheEntry{key: key, state: state, hash: hash, stored: c.now()})
	c.entries[key] = el
	for len(c.entries) > c.cap {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.remove(oldest)
		c.stats.Evicted++
	}
}

// Invalidate drops one frame's entry if present.
func (c *FrameCache) Invalidate(compositionID string, frame int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[cacheKey{compositionID, frame}]; ok {
		c.remove(el)
	}
}

// InvalidateComposition drops every entry belonging to one composition.
func (c *FrameCache) InvalidateComposition(compositionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.purgeComposition(compositionID)
}

// Clear empties the cache.
func (c *FrameCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]*list.Element, c.cap)
	c.order.Init()
}

// Len reports the number of live entries.
func (c *FrameCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// remove unlinks one entry. Callers hold the lock.
func (c *FrameCache) remove(el *list.Element) {
	ent := el.Value.(*cacheEntry)
	delete(c.entries, ent.key)
	c.order.Remove(el)
}

// purgeComposition removes all entries for one composition. Callers hold
// the lock.
func (c *FrameCache) purgeComposition(compositionID string) {
	for key, el := range c.entries {
		if key.comp == compositionID {
			delete(c.entries, key)
			c.order.Remove(el)
		}
	}
}
