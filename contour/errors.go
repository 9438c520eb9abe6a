package contour

import "errors"

var (
	// ErrInvalidInput marks fatal problems with the input table, the field or
	// the configuration. It aborts the pipeline before any contouring.
	ErrInvalidInput = errors.New("contour: invalid input")

	// ErrInvariantViolation marks a computed value that would corrupt the
	// persisted artifact (non-finite coordinate, null-coerced age).
	ErrInvariantViolation = errors.New("contour: invariant violation")
)
