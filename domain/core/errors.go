package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound         = errors.New("resource not found")
	ErrAnalysisNotFound = fmt.Errorf("%w: analysis", ErrNotFound)

	// Validation errors
	ErrInvalidInput     = errors.New("invalid input")
	ErrEmptySample      = fmt.Errorf("%w: empty sample", ErrInvalidInput)
	ErrInsufficientData = fmt.Errorf("%w: insufficient data for analysis", ErrInvalidInput)
	ErrLengthMismatch   = fmt.Errorf("%w: mismatched lengths", ErrInvalidInput)
	ErrRaggedMatrix     = fmt.Errorf("%w: ragged rating matrix", ErrInvalidInput)
	ErrNonFinite        = fmt.Errorf("%w: non-finite value", ErrInvalidInput)
	ErrRatingOutOfRange = fmt.Errorf("%w: rating out of range", ErrInvalidInput)
	ErrZeroVariance     = fmt.Errorf("%w: zero variance", ErrInvalidInput)
)

// NewNotFoundError reports a missing resource by id.
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// NewInvalidInputError wraps one of the validation sentinels with context.
func NewInvalidInputError(kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalidInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
