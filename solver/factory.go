package solver

import (
	"fmt"

	"github.com/annealworks/qknap/core"
	"github.com/annealworks/qknap/pkg/cache"
	"github.com/annealworks/qknap/pkg/limiter"
	"github.com/annealworks/qknap/pkg/metrics"
	"github.com/annealworks/qknap/pkg/registry"
	"github.com/annealworks/qknap/sampler/exact"
	"github.com/annealworks/qknap/sampler/remote"
)

// NewSamplerFromConfig resolves the configured sampler: "exact" builds the
// classical exhaustive sampler, anything else is looked up in the endpoint
// registry, with SAMPLER_URL as an ad-hoc fallback profile.
func NewSamplerFromConfig(cfg *Config) (core.Sampler, error) {
	return newSampler(cfg, nil)
}

func newSampler(cfg *Config, m *metrics.PrometheusMetrics) (core.Sampler, error) {
	if cfg.SamplerMode == "exact" {
		return exact.New(), nil
	}

	reg, err := registry.NewLoader(cfg.RegistryPath).LoadRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to load sampler registry: %w", err)
	}

	endpoint := reg.GetEndpointByName(cfg.SamplerMode)
	if endpoint == nil {
		if cfg.SamplerURL == "" {
			return nil, fmt.Errorf("unknown sampler %q and no SAMPLER_URL fallback", cfg.SamplerMode)
		}
		endpoint = &registry.EndpointConfig{Name: cfg.SamplerMode, BaseURL: cfg.SamplerURL}
	}

	breakers := limiter.NewCircuitBreakerManager()
	if m != nil {
		breakers.OnStateChange(func(endpoint, from, to string) {
			if to == "open" {
				m.RecordCircuitOpen(endpoint)
			}
		})
	}

	return remote.New(*endpoint, breakers, limiter.NewRateLimiter()), nil
}

// NewFromConfig assembles a Solver with cache, dedup and metrics wired in.
func NewFromConfig(cfg *Config) (*Solver, error) {
	m := metrics.NewPrometheusMetrics()

	smp, err := newSampler(cfg, m)
	if err != nil {
		return nil, err
	}

	sampleCache, err := cache.NewLRUCache(&cache.CacheConfig{
		MaxSize:         cfg.CacheSize,
		DefaultTTL:      cfg.CacheTTL,
		CleanupInterval: cfg.CacheTTL / 2,
	})
	if err != nil {
		return nil, err
	}

	return &Solver{
		Sampler:         smp,
		Cache:           sampleCache,
		Dedup:           cache.NewDeduplicator(),
		Metrics:         m,
		Label:           cfg.Label,
		NumReads:        cfg.NumReads,
		Lagrange:        cfg.Lagrange,
		RequireFeasible: cfg.RequireFeasible,
	}, nil
}
