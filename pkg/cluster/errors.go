package cluster

import (
	"errors"
	"fmt"
)

// Kind classifies an engine failure.
type Kind string

const (
	// KindInvalidInput covers bad parameters and malformed embeddings:
	// non-finite values, empty cell sets, k out of range, resolution <= 0.
	KindInvalidInput Kind = "invalid_input"
	// KindResourceExhausted is returned before allocation when the
	// estimated graph size exceeds the configured budget.
	KindResourceExhausted Kind = "resource_exhausted"
	// KindInternal covers everything else.
	KindInternal Kind = "internal"
)

// Common sentinel errors
var (
	ErrNilEmbedding = errors.New("embedding matrix is nil")
	ErrGraphTooBig  = errors.New("estimated graph exceeds edge budget")
)

// EngineError provides structured error information for engine operations.
type EngineError struct {
	Op      string // Operation that failed (e.g., "knn", "build-graph", "detect")
	Kind    Kind
	Cells   int    // Cell count at the failure point, when known
	Context string // Offending parameter or other detail
	Cause   error
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s (%s, cells=%d): %v", e.Op, e.Context, e.Cells, e.Cause)
	}
	return fmt.Sprintf("%s (cells=%d): %v", e.Op, e.Cells, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *EngineError) Unwrap() error {
	return e.Cause
}

// IsInvalidInput reports whether err is an invalid-input engine error.
func IsInvalidInput(err error) bool {
	var ee *EngineError
	return errors.As(err, &ee) && ee.Kind == KindInvalidInput
}

// IsResourceExhausted reports whether err is a resource-budget engine error.
func IsResourceExhausted(err error) bool {
	var ee *EngineError
	return errors.As(err, &ee) && ee.Kind == KindResourceExhausted
}

func invalidInput(op string, cells int, context string, cause error) error {
	return &EngineError{Op: op, Kind: KindInvalidInput, Cells: cells, Context: context, Cause: cause}
}

func resourceExhausted(op string, cells int, context string, cause error) error {
	return &EngineError{Op: op, Kind: KindResourceExhausted, Cells: cells, Context: context, Cause: cause}
}
