package cache

import (
	"context"
	"sync"
	"time"

	"github.com/annealworks/qknap/core"
	"golang.org/x/sync/singleflight"
)

// Deduplicator collapses concurrent submissions of the same model into a
// single in-flight sampler call. Hosted samplers bill per submission, so
// duplicate work is pure waste.
type Deduplicator struct {
	group singleflight.Group
	mu    sync.RWMutex
	stats map[CacheKey]*DedupStats
}

// DedupStats represents deduplication statistics
type DedupStats struct {
	Requests     int64 `json:"requests"`
	Deduplicated int64 `json:"deduplicated"`
	CacheHits    int64 `json:"cache_hits"`
}

// NewDeduplicator creates a new deduplicator
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{
		stats: make(map[CacheKey]*DedupStats),
	}
}

// Execute runs fn with deduplication on the model key
func (d *Deduplicator) Execute(ctx context.Context, key CacheKey, fn func() (core.SampleSet, error)) (core.SampleSet, error) {
	d.updateStats(key, false, false)

	result, err, shared := d.group.Do(string(key), func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return nil, err
	}

	if shared {
		d.updateStats(key, true, false)
	}

	return result.(core.SampleSet), nil
}

// ExecuteWithCache runs fn with both deduplication and caching
func (d *Deduplicator) ExecuteWithCache(
	ctx context.Context,
	key CacheKey,
	cache *LRUCache,
	ttl time.Duration,
	fn func() (core.SampleSet, error),
) (core.SampleSet, error) {
	if cache != nil {
		if entry, exists := cache.Get(key); exists {
			d.updateStats(key, false, true)
			return entry.Samples, nil
		}
	}

	d.updateStats(key, false, false)

	result, err, shared := d.group.Do(string(key), func() (interface{}, error) {
		samples, err := fn()
		if err != nil {
			return nil, err
		}

		if cache != nil {
			cache.Set(key, samples, ttl)
		}

		return samples, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		d.updateStats(key, true, false)
	}

	return result.(core.SampleSet), nil
}

// updateStats updates deduplication statistics
func (d *Deduplicator) updateStats(key CacheKey, deduplicated, cacheHit bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	stats, exists := d.stats[key]
	if !exists {
		stats = &DedupStats{}
		d.stats[key] = stats
	}

	stats.Requests++
	if deduplicated {
		stats.Deduplicated++
	}
	if cacheHit {
		stats.CacheHits++
	}
}

// GetStats returns deduplication statistics for a key
func (d *Deduplicator) GetStats(key CacheKey) *DedupStats {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if stats, exists := d.stats[key]; exists {
		return &DedupStats{
			Requests:     stats.Requests,
			Deduplicated: stats.Deduplicated,
			CacheHits:    stats.CacheHits,
		}
	}

	return &DedupStats{}
}

// Reset resets all statistics
func (d *Deduplicator) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stats = make(map[CacheKey]*DedupStats)
}
