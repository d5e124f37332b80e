package core

import "context"

// SampleParams controls a single submission to a sampler.
type SampleParams struct {
	// Label is an optional human-readable tag attached to the submission.
	Label string
	// NumReads is the number of ranked samples requested; samplers apply
	// their own default when it is zero or negative.
	NumReads int
}

// Sampler is the oracle capability: it minimizes a model and returns
// assignments ranked by ascending energy. Implementations may call a
// remote hybrid solver or enumerate classically; callers treat the call
// as a single blocking submission and own any retry policy.
type Sampler interface {
	Name() string
	Sample(ctx context.Context, m *Model, p SampleParams) (SampleSet, error)
}
