package embedding

import "errors"

// Common sentinel errors
var (
	ErrEmptyMatrix       = errors.New("empty embedding matrix")
	ErrInvalidDimensions = errors.New("invalid dimensions")
	ErrNonFiniteValue    = errors.New("non-finite value")
	ErrDimensionMismatch = errors.New("vector dimensions mismatch")
)
