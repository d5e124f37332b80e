package cache

import (
	"time"

	"github.com/annealworks/qknap/core"
)

// CacheKey identifies a cached sample set; it is the model fingerprint.
type CacheKey string

// KeyForModel derives the cache key for a model.
func KeyForModel(m *core.Model) CacheKey {
	return CacheKey(m.Fingerprint())
}

// CacheEntry represents a cached sampler response
type CacheEntry struct {
	Samples      core.SampleSet `json:"samples"`
	CreatedAt    time.Time      `json:"created_at"`
	ExpiresAt    time.Time      `json:"expires_at"`
	AccessCount  int            `json:"access_count"`
	LastAccessed time.Time      `json:"last_accessed"`
}

// IsExpired checks if the cache entry is expired
func (e *CacheEntry) IsExpired() bool {
	return time.Now().After(e.ExpiresAt)
}

// Touch updates the access time and count
func (e *CacheEntry) Touch() {
	e.LastAccessed = time.Now()
	e.AccessCount++
}

// CacheConfig holds cache configuration
type CacheConfig struct {
	MaxSize         int           `json:"max_size"`         // Maximum number of entries
	DefaultTTL      time.Duration `json:"default_ttl"`      // Default TTL for entries
	CleanupInterval time.Duration `json:"cleanup_interval"` // How often to clean expired entries
}

// DefaultCacheConfig returns a default cache configuration
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		MaxSize:         256,
		DefaultTTL:      10 * time.Minute,
		CleanupInterval: time.Minute,
	}
}

// CacheStats holds cache statistics
type CacheStats struct {
	Hits        int64   `json:"hits"`
	Misses      int64   `json:"misses"`
	Evictions   int64   `json:"evictions"`
	Expirations int64   `json:"expirations"`
	Size        int     `json:"size"`
	MaxSize     int     `json:"max_size"`
	HitRate     float64 `json:"hit_rate"`
}

// CalculateHitRate recomputes the hit rate from hits and misses
func (s *CacheStats) CalculateHitRate() {
	total := s.Hits + s.Misses
	if total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}
}
