package assistant

import (
	"sync"
	"time"
)

// answerCache keeps recent completions so repeated questions do not pay
// for another API round trip while the underlying data is unchanged.
type answerCache struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[string]answerCacheEntry
}

type answerCacheEntry struct {
	answer    string
	expiresAt time.Time
}

func newAnswerCache(ttl time.Duration, maxEntries int, now func() time.Time) *answerCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if maxEntries <= 0 {
		maxEntries = 64
	}
	if now == nil {
		now = time.Now
	}
	return &answerCache{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]answerCacheEntry),
	}
}

func (c *answerCache) Get(key string) (string, bool) {
	if c == nil {
		return "", false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return "", false
	}
	return entry.answer, true
}

func (c *answerCache) Store(key, answer string) {
	if c == nil {
		return
	}
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[key] = answerCacheEntry{answer: answer, expiresAt: expiry}
}

func (c *answerCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]answerCacheEntry)
	c.mu.Unlock()
}

func (c *answerCache) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *answerCache) evictOneLocked() {
	for key := range c.entries {
		delete(c.entries, key)
		return
	}
}
