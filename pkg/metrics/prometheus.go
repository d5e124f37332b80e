package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics holds all Prometheus metrics
type PrometheusMetrics struct {
	// Submission metrics
	SubmissionsTotal *prometheus.CounterVec
	LatencyHistogram *prometheus.HistogramVec

	// Model size metrics
	ModelVariables    prometheus.Histogram
	ModelInteractions prometheus.Histogram

	// Solve outcome metrics
	SolveEnergy     prometheus.Histogram
	InfeasibleTotal prometheus.Counter

	// Cache metrics
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	// Circuit breaker metrics
	CircuitOpenTotal *prometheus.CounterVec
}

// NewPrometheusMetrics creates a new Prometheus metrics instance
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{
		SubmissionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qknap_submissions_total",
				Help: "Total number of sampler submissions",
			},
			[]string{"sampler", "status"},
		),

		LatencyHistogram: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "qknap_sample_latency_seconds",
				Help:    "Sampler submission latency in seconds",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
			},
			[]string{"sampler"},
		),

		ModelVariables: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "qknap_model_variables",
				Help:    "Number of binary variables per submitted model",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),

		ModelInteractions: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "qknap_model_interactions",
				Help:    "Number of quadratic terms per submitted model",
				Buckets: prometheus.ExponentialBuckets(1, 4, 10),
			},
		),

		SolveEnergy: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "qknap_solve_energy",
				Help:    "Best energy returned per solve",
				Buckets: prometheus.LinearBuckets(-1000, 100, 21),
			},
		),

		InfeasibleTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "qknap_infeasible_best_total",
				Help: "Total number of solves whose best-ranked sample was infeasible",
			},
		),

		CacheHitsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "qknap_cache_hits_total",
				Help: "Total number of sample cache hits",
			},
		),

		CacheMissesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "qknap_cache_misses_total",
				Help: "Total number of sample cache misses",
			},
		),

		CircuitOpenTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qknap_circuit_open_total",
				Help: "Total number of circuit breaker opens",
			},
			[]string{"endpoint"},
		),
	}
}

// RecordSubmission records a submission metric
func (m *PrometheusMetrics) RecordSubmission(sampler, status string) {
	m.SubmissionsTotal.WithLabelValues(sampler, status).Inc()
}

// RecordLatency records a latency metric
func (m *PrometheusMetrics) RecordLatency(sampler string, duration time.Duration) {
	m.LatencyHistogram.WithLabelValues(sampler).Observe(duration.Seconds())
}

// RecordModelSize records the size of a submitted model
func (m *PrometheusMetrics) RecordModelSize(variables, interactions int) {
	m.ModelVariables.Observe(float64(variables))
	m.ModelInteractions.Observe(float64(interactions))
}

// RecordEnergy records the best energy of a solve
func (m *PrometheusMetrics) RecordEnergy(energy float64) {
	m.SolveEnergy.Observe(energy)
}

// RecordInfeasibleBest records a solve whose best-ranked sample was infeasible
func (m *PrometheusMetrics) RecordInfeasibleBest() {
	m.InfeasibleTotal.Inc()
}

// RecordCacheHit records a cache hit
func (m *PrometheusMetrics) RecordCacheHit() {
	m.CacheHitsTotal.Inc()
}

// RecordCacheMiss records a cache miss
func (m *PrometheusMetrics) RecordCacheMiss() {
	m.CacheMissesTotal.Inc()
}

// RecordCircuitOpen records a circuit breaker open
func (m *PrometheusMetrics) RecordCircuitOpen(endpoint string) {
	m.CircuitOpenTotal.WithLabelValues(endpoint).Inc()
}
