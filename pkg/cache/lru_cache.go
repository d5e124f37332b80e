package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/annealworks/qknap/core"
	lru "github.com/hashicorp/golang-lru/v2"
)

// LRUCache caches sampler responses by model fingerprint with TTL support.
// Identical models share an energy landscape, so a ranked sample set can be
// reused verbatim until it expires.
type LRUCache struct {
	cache    *lru.Cache[CacheKey, *CacheEntry]
	config   *CacheConfig
	stats    *CacheStats
	mu       sync.RWMutex
	stopChan chan struct{}
}

// NewLRUCache creates a new LRU cache. Non-positive TTL or cleanup
// interval fall back to the defaults; the cleanup ticker cannot run on a
// zero interval.
func NewLRUCache(config *CacheConfig) (*LRUCache, error) {
	defaults := DefaultCacheConfig()
	if config == nil {
		config = defaults
	} else {
		cfg := *config
		if cfg.DefaultTTL <= 0 {
			cfg.DefaultTTL = defaults.DefaultTTL
		}
		if cfg.CleanupInterval <= 0 {
			cfg.CleanupInterval = defaults.CleanupInterval
		}
		config = &cfg
	}

	cache, err := lru.New[CacheKey, *CacheEntry](config.MaxSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}

	c := &LRUCache{
		cache:    cache,
		config:   config,
		stats:    &CacheStats{MaxSize: config.MaxSize},
		stopChan: make(chan struct{}),
	}

	go c.cleanup()

	return c, nil
}

// Get retrieves a sample set from the cache
func (c *LRUCache) Get(key CacheKey) (*CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.cache.Get(key)
	if !exists {
		c.stats.Misses++
		return nil, false
	}

	if entry.IsExpired() {
		c.cache.Remove(key)
		c.stats.Expirations++
		c.stats.Misses++
		return nil, false
	}

	entry.Touch()
	c.stats.Hits++
	return entry, true
}

// Set stores a sample set in the cache
func (c *LRUCache) Set(key CacheKey, samples core.SampleSet, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl <= 0 {
		ttl = c.config.DefaultTTL
	}

	now := time.Now()
	entry := &CacheEntry{
		Samples:      samples,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
		LastAccessed: now,
	}

	if c.cache.Len() >= c.config.MaxSize {
		if oldestKey, _, ok := c.cache.GetOldest(); ok {
			c.cache.Remove(oldestKey)
			c.stats.Evictions++
		}
	}

	c.cache.Add(key, entry)
	c.stats.Size = c.cache.Len()
}

// Delete removes an entry from the cache
func (c *LRUCache) Delete(key CacheKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Remove(key)
	c.stats.Size = c.cache.Len()
}

// Clear removes all entries from the cache
func (c *LRUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Purge()
	c.stats.Size = 0
}

// Stats returns cache statistics
func (c *LRUCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := *c.stats
	stats.Size = c.cache.Len()
	stats.CalculateHitRate()
	return stats
}

// Len returns the number of items in the cache
func (c *LRUCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.cache.Len()
}

// Close stops the cache and cleans up resources
func (c *LRUCache) Close() {
	close(c.stopChan)
}

// cleanup periodically removes expired entries
func (c *LRUCache) cleanup() {
	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpired()
		case <-c.stopChan:
			return
		}
	}
}

// cleanupExpired removes expired entries
func (c *LRUCache) cleanupExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	expired := 0
	for _, key := range c.cache.Keys() {
		if entry, exists := c.cache.Peek(key); exists && entry.IsExpired() {
			c.cache.Remove(key)
			expired++
		}
	}

	if expired > 0 {
		c.stats.Expirations += int64(expired)
		c.stats.Size = c.cache.Len()
	}
}
