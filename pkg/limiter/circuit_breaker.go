package limiter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/annealworks/qknap/pkg/registry"
	"github.com/sony/gobreaker"
)

// CircuitBreakerConfig holds circuit breaker configuration
type CircuitBreakerConfig struct {
	Name        string                             `json:"name"`
	MaxRequests uint32                             `json:"max_requests"`
	Interval    time.Duration                      `json:"interval"`
	Timeout     time.Duration                      `json:"timeout"`
	ReadyToTrip func(counts gobreaker.Counts) bool `json:"-"`
}

// DefaultCircuitBreakerConfig returns a default circuit breaker configuration
func DefaultCircuitBreakerConfig(name string) *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		Name:        name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Open circuit if failure rate is > 50% and we have at least 5 submissions
			return counts.Requests >= 5 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
	}
}

// CircuitBreakerManager manages circuit breakers for sampler endpoints
type CircuitBreakerManager struct {
	breakers      map[string]*gobreaker.CircuitBreaker
	configs       map[string]*CircuitBreakerConfig
	onStateChange []func(endpoint, from, to string)
	mu            sync.RWMutex
}

// NewCircuitBreakerManager creates a new circuit breaker manager
func NewCircuitBreakerManager() *CircuitBreakerManager {
	return &CircuitBreakerManager{
		breakers: make(map[string]*gobreaker.CircuitBreaker),
		configs:  make(map[string]*CircuitBreakerConfig),
	}
}

// OnStateChange registers a callback invoked whenever any endpoint's
// breaker changes state. Callbacks must be registered before the first
// submission to the endpoint.
func (cbm *CircuitBreakerManager) OnStateChange(fn func(endpoint, from, to string)) {
	cbm.mu.Lock()
	defer cbm.mu.Unlock()
	cbm.onStateChange = append(cbm.onStateChange, fn)
}

// GetBreaker returns or creates a circuit breaker for an endpoint
func (cbm *CircuitBreakerManager) GetBreaker(endpoint registry.EndpointConfig) *gobreaker.CircuitBreaker {
	cbm.mu.Lock()
	defer cbm.mu.Unlock()

	if breaker, exists := cbm.breakers[endpoint.Name]; exists {
		return breaker
	}

	cbConfig := cbm.getConfigForEndpoint(endpoint)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cbConfig.Name,
		MaxRequests: cbConfig.MaxRequests,
		Interval:    cbConfig.Interval,
		Timeout:     cbConfig.Timeout,
		ReadyToTrip: cbConfig.ReadyToTrip,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("circuit breaker state changed", "endpoint", name, "from", from.String(), "to", to.String())

			cbm.mu.RLock()
			callbacks := append(([]func(string, string, string))(nil), cbm.onStateChange...)
			cbm.mu.RUnlock()
			for _, fn := range callbacks {
				fn(endpoint.Name, from.String(), to.String())
			}
		},
	})

	cbm.breakers[endpoint.Name] = breaker
	cbm.configs[endpoint.Name] = cbConfig

	return breaker
}

// getConfigForEndpoint returns circuit breaker configuration for an endpoint
func (cbm *CircuitBreakerManager) getConfigForEndpoint(endpoint registry.EndpointConfig) *CircuitBreakerConfig {
	if cbConfig, exists := cbm.configs[endpoint.Name]; exists {
		return cbConfig
	}

	cbConfig := DefaultCircuitBreakerConfig(fmt.Sprintf("sampler-%s", endpoint.Name))

	// High-throughput endpoints get more lenient settings; slow hybrid
	// solvers trip earlier so queued submissions fail fast.
	if endpoint.MaxRPM >= 120 {
		cbConfig.MaxRequests = 5
		cbConfig.ReadyToTrip = func(counts gobreaker.Counts) bool {
			return counts.Requests >= 10 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		}
	}

	return cbConfig
}

// Execute executes a submission through the endpoint's circuit breaker
func (cbm *CircuitBreakerManager) Execute(ctx context.Context, endpoint registry.EndpointConfig, fn func() (interface{}, error)) (interface{}, error) {
	breaker := cbm.GetBreaker(endpoint)

	result, err := breaker.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return nil, fmt.Errorf("circuit breaker execution failed: %w", err)
	}

	return result, nil
}

// GetState returns the current state of an endpoint's circuit breaker
func (cbm *CircuitBreakerManager) GetState(endpoint registry.EndpointConfig) gobreaker.State {
	return cbm.GetBreaker(endpoint).State()
}

// GetStats returns circuit breaker statistics for an endpoint
func (cbm *CircuitBreakerManager) GetStats(endpoint registry.EndpointConfig) map[string]interface{} {
	breaker := cbm.GetBreaker(endpoint)
	counts := breaker.Counts()

	return map[string]interface{}{
		"endpoint":             endpoint.Name,
		"state":                breaker.State().String(),
		"requests":             counts.Requests,
		"total_success":        counts.TotalSuccesses,
		"total_failures":       counts.TotalFailures,
		"consecutive_success":  counts.ConsecutiveSuccesses,
		"consecutive_failures": counts.ConsecutiveFailures,
	}
}

// IsOpen checks if the circuit breaker is open for an endpoint
func (cbm *CircuitBreakerManager) IsOpen(endpoint registry.EndpointConfig) bool {
	return cbm.GetBreaker(endpoint).State() == gobreaker.StateOpen
}

// Reset removes the circuit breaker for an endpoint
func (cbm *CircuitBreakerManager) Reset(name string) {
	cbm.mu.Lock()
	defer cbm.mu.Unlock()

	delete(cbm.breakers, name)
	delete(cbm.configs, name)
}
