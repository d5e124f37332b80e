package core

import "errors"

var (
	// ErrSelfLoop is returned when a quadratic term pairs a variable with
	// itself; squared binary terms belong in the linear bias.
	ErrSelfLoop = errors.New("core: self-loop quadratic term")

	// ErrMalformedSolution signals that a sampler returned an assignment
	// outside the model contract: an unknown variable name or a
	// non-binary value. This is an integrity violation, not a retryable
	// condition.
	ErrMalformedSolution = errors.New("core: malformed solution")

	// ErrIncompleteAssignment is returned by Energy when the assignment
	// is missing a variable declared in the model.
	ErrIncompleteAssignment = errors.New("core: assignment missing model variable")
)
