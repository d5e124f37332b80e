// Package knapsack formulates the 0/1 knapsack problem as a binary
// quadratic model and decodes sampler assignments back into item
// selections. The encoding follows Lucas: the capacity inequality is
// turned into an equality against a binary slack register and enforced
// with a squared penalty weighted by a Lagrange multiplier.
package knapsack

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/annealworks/qknap/core"
)

// ErrInvalidInput is returned for a malformed or inconsistent problem
// instance. It is raised before any coefficient is computed; no partial
// model is ever built.
var ErrInvalidInput = errors.New("knapsack: invalid input")

// Problem is one knapsack instance: per-item costs and integer weights of
// equal length, plus a positive integer capacity.
type Problem struct {
	Costs    []float64 `json:"costs"`
	Weights  []int     `json:"weights"`
	Capacity int       `json:"capacity"`
}

// Validate checks the problem invariants: at least one item, equal
// sequence lengths, non-negative costs and weights, capacity >= 1.
func (p Problem) Validate() error {
	if len(p.Costs) == 0 {
		return fmt.Errorf("%w: no items", ErrInvalidInput)
	}
	if len(p.Costs) != len(p.Weights) {
		return fmt.Errorf("%w: %d costs but %d weights", ErrInvalidInput, len(p.Costs), len(p.Weights))
	}
	for i, c := range p.Costs {
		if c < 0 {
			return fmt.Errorf("%w: negative cost %v for item %d", ErrInvalidInput, c, i)
		}
	}
	for i, w := range p.Weights {
		if w < 0 {
			return fmt.Errorf("%w: negative weight %d for item %d", ErrInvalidInput, w, i)
		}
	}
	if p.Capacity < 1 {
		return fmt.Errorf("%w: capacity must be >= 1, got %d", ErrInvalidInput, p.Capacity)
	}
	return nil
}

// MaxCost returns the largest item cost, the default Lagrange multiplier.
func (p Problem) MaxCost() float64 {
	var max float64
	for _, c := range p.Costs {
		if c > max {
			max = c
		}
	}
	return max
}

type buildConfig struct {
	lagrange    float64
	lagrangeSet bool
}

// Option adjusts model construction.
type Option func(*buildConfig)

// WithLagrange overrides the default max(costs) penalty multiplier. The
// default is the standard first-guess heuristic; callers with instances it
// under- or over-penalizes supply a tighter value here.
func WithLagrange(v float64) Option {
	return func(c *buildConfig) {
		c.lagrange = v
		c.lagrangeSet = true
	}
}

// SlackWeights returns the coefficients of the slack register for the
// given capacity: 2^k for k < M and capacity+1-2^M for the final bit,
// M = floor(log2(capacity)). The irregular last coefficient makes the
// register span every integer in [0, capacity]; the coefficients sum to
// exactly the capacity.
func SlackWeights(capacity int) []int {
	m := bits.Len(uint(capacity)) - 1
	ws := make([]int, m+1)
	for k := 0; k < m; k++ {
		ws[k] = 1 << k
	}
	ws[m] = capacity + 1 - (1 << m)
	return ws
}

// BuildModel converts the problem into a binary quadratic model with one
// x variable per item and one y variable per slack bit. The model encodes
//
//	lagrange * (sum_i w_i*x_i - sum_k c_k*y_k)^2 - sum_i cost_i*x_i
//
// expanded into linear and pairwise terms: a feasible selection can zero
// the penalty by pointing the slack register at its own total weight,
// while the negated costs reward valuable selections under minimization.
// Every variable is declared with a linear term even when it is zero.
func BuildModel(p Problem, opts ...Option) (*core.Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	cfg := buildConfig{lagrange: p.MaxCost()}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.lagrangeSet && cfg.lagrange <= 0 {
		return nil, fmt.Errorf("%w: lagrange multiplier must be positive, got %v", ErrInvalidInput, cfg.lagrange)
	}

	var (
		n        = len(p.Costs)
		lagrange = cfg.lagrange
		slack    = SlackWeights(p.Capacity)
		m        = core.NewModel()
	)

	// Item terms: the squared weight is the diagonal of the penalty, the
	// cost enters negated because samplers minimize.
	for i := 0; i < n; i++ {
		w := float64(p.Weights[i])
		m.SetLinear(core.Item(i), lagrange*w*w-p.Costs[i])
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			bias := 2 * lagrange * float64(p.Weights[i]) * float64(p.Weights[j])
			if err := m.AddQuadratic(core.Item(i), core.Item(j), bias); err != nil {
				return nil, err
			}
		}
	}

	// Slack register terms.
	for k, yk := range slack {
		m.SetLinear(core.Slack(k), lagrange*float64(yk)*float64(yk))
	}
	for k := 0; k < len(slack); k++ {
		for l := k + 1; l < len(slack); l++ {
			bias := 2 * lagrange * float64(slack[k]) * float64(slack[l])
			if err := m.AddQuadratic(core.Slack(k), core.Slack(l), bias); err != nil {
				return nil, err
			}
		}
	}

	// Cross terms couple item weight against the slack register.
	for i := 0; i < n; i++ {
		for k, yk := range slack {
			bias := -2 * lagrange * float64(p.Weights[i]) * float64(yk)
			if err := m.AddQuadratic(core.Item(i), core.Slack(k), bias); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}
