// Package exact provides a deterministic exhaustive sampler. It stands in
// for the remote hybrid solver in tests and small demos, behind the same
// core.Sampler interface.
package exact

import (
	"context"
	"errors"
	"fmt"

	"github.com/annealworks/qknap/core"
)

// ErrTooManyVariables is returned when a model is too large to enumerate
// exhaustively.
var ErrTooManyVariables = errors.New("exact: too many variables for exhaustive enumeration")

// DefaultMaxVariables bounds enumeration to 2^24 assignments.
const DefaultMaxVariables = 24

// DefaultNumReads is the number of ranked samples returned when the
// caller does not ask for a specific count.
const DefaultNumReads = 10

// Sampler enumerates every assignment of a model and returns the
// lowest-energy ones, ranked ascending.
type Sampler struct {
	// MaxVariables overrides DefaultMaxVariables when positive.
	MaxVariables int
}

// New creates an exhaustive sampler with default limits.
func New() *Sampler { return &Sampler{} }

// Name implements core.Sampler.
func (s *Sampler) Name() string { return "exact" }

// Sample implements core.Sampler by brute force. Enumeration order is
// deterministic: variables in canonical order form the bit positions of a
// counter, so equal-energy assignments rank reproducibly.
func (s *Sampler) Sample(ctx context.Context, m *core.Model, p core.SampleParams) (core.SampleSet, error) {
	vars := m.Variables()

	limit := s.MaxVariables
	if limit <= 0 {
		limit = DefaultMaxVariables
	}
	if len(vars) > limit {
		return nil, fmt.Errorf("%w: %d variables, limit %d", ErrTooManyVariables, len(vars), limit)
	}

	reads := p.NumReads
	if reads <= 0 {
		reads = DefaultNumReads
	}

	total := 1 << len(vars)
	set := make(core.SampleSet, 0, total)
	for mask := 0; mask < total; mask++ {
		if mask&1023 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		assignment := make(map[core.Variable]int8, len(vars))
		for i, v := range vars {
			assignment[v] = int8((mask >> i) & 1)
		}

		energy, err := m.Energy(assignment)
		if err != nil {
			return nil, err
		}
		set = append(set, core.Sample{Assignment: assignment, Energy: energy})
	}

	set.Sort()
	if reads < len(set) {
		set = set[:reads]
	}
	return set, nil
}
