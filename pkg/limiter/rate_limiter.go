package limiter

import (
	"context"
	"fmt"
	"sync"

	"github.com/annealworks/qknap/pkg/registry"
	"golang.org/x/time/rate"
)

// RateLimiter manages submission rate limits for sampler endpoints
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
	}
}

// GetLimiter returns or creates a rate limiter for an endpoint
func (rl *RateLimiter) GetLimiter(endpoint registry.EndpointConfig) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, exists := rl.limiters[endpoint.Name]; exists {
		return limiter
	}

	// Hosted samplers meter submissions per minute; default generously
	// when the profile does not say.
	rpm := endpoint.MaxRPM
	if rpm <= 0 {
		rpm = 600
	}

	limiter := rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1)
	rl.limiters[endpoint.Name] = limiter
	return limiter
}

// Wait blocks until the endpoint's limiter admits one submission
func (rl *RateLimiter) Wait(ctx context.Context, endpoint registry.EndpointConfig) error {
	if err := rl.GetLimiter(endpoint).Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait for %s: %w", endpoint.Name, err)
	}
	return nil
}

// Allow reports whether one submission may proceed immediately
func (rl *RateLimiter) Allow(endpoint registry.EndpointConfig) bool {
	return rl.GetLimiter(endpoint).Allow()
}

// Reset removes the limiter for an endpoint
func (rl *RateLimiter) Reset(name string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	delete(rl.limiters, name)
}
