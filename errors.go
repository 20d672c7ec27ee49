package segsim

import (
	"errors"

	"github.com/jamesainslie/go-segsim/boundary"
)

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrAlignment indicates a reference and hypothesis that do not share
	// the same candidate positions.
	ErrAlignment = boundary.ErrAlignment

	// ErrUnknownLabel indicates a mark outside the active label universe.
	ErrUnknownLabel = boundary.ErrUnknownLabel

	// ErrMissingDocument indicates a document present on one side of the
	// corpus only.
	ErrMissingDocument = errors.New("segsim: document missing from corpus")

	// ErrNoBoundaries indicates a corpus without any reference boundary,
	// for which the weighted mean is undefined.
	ErrNoBoundaries = errors.New("segsim: corpus has no reference boundaries")

	// ErrInvalidConfig indicates an option value the evaluator cannot use.
	ErrInvalidConfig = errors.New("segsim: invalid configuration")
)
