package core

import (
	"sync"
	"time"

	"github.com/nvollmar/sharefs/storage"
)

// cacheEntry is a cached stat result with expiration.
type cacheEntry struct {
	info      storage.FileInfo
	expiresAt time.Time
}

func (e cacheEntry) expired() bool {
	return time.Now().After(e.expiresAt)
}

// infoCache is a small TTL cache for stat results. Mutating operations
// invalidate affected paths, so staleness is bounded by the TTL for
// out-of-band backend changes only.
type infoCache struct {
	mu       sync.RWMutex
	cache    map[string]cacheEntry
	ttl      time.Duration
	maxSize  int
	stopChan chan struct{}
	stopOnce sync.Once
}

func newInfoCache(ttl time.Duration, maxSize int) *infoCache {
	c := &infoCache{
		cache:    make(map[string]cacheEntry),
		ttl:      ttl,
		maxSize:  maxSize,
		stopChan: make(chan struct{}),
	}

	go c.cleanupLoop()

	return c
}

// Get retrieves a cached stat result.
func (c *infoCache) Get(path string) (storage.FileInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.cache[path]
	if !ok || entry.expired() {
		return storage.FileInfo{}, false
	}

	return entry.info, true
}

// Set stores a stat result.
func (c *infoCache) Set(path string, fi storage.FileInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.cache) >= c.maxSize {
		c.evictOne()
	}

	c.cache[path] = cacheEntry{
		info:      fi,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Invalidate removes a single entry.
func (c *infoCache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.cache, path)
}

// InvalidatePrefix removes all entries under the given path prefix.
func (c *infoCache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for path := range c.cache {
		if len(path) >= len(prefix) && path[:len(prefix)] == prefix {
			delete(c.cache, path)
		}
	}
}

// Stop terminates the background cleanup goroutine.
func (c *infoCache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopChan)
	})
}

// evictOne makes room for a new entry; caller must hold the lock.
func (c *infoCache) evictOne() {
	now := time.Now()

	for path, entry := range c.cache {
		if now.After(entry.expiresAt) {
			delete(c.cache, path)
			return
		}
	}

	for path := range c.cache {
		delete(c.cache, path)
		return
	}
}

func (c *infoCache) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stopChan:
			return
		}
	}
}

func (c *infoCache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for path, entry := range c.cache {
		if now.After(entry.expiresAt) {
			delete(c.cache, path)
		}
	}
}
