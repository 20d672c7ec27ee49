package boundary

import "errors"

var (
	// ErrAlignment indicates two segmentations do not share the same
	// candidate positions.
	ErrAlignment = errors.New("boundary: segmentations are not aligned")

	// ErrInvalidWindow indicates a negative near-miss window.
	ErrInvalidWindow = errors.New("boundary: invalid near-miss window")

	// ErrUnknownLabel indicates a tag outside the section label set.
	ErrUnknownLabel = errors.New("boundary: unknown label")
)
