package port

import (
	"errors"
	"fmt"
)

// Sentinel errors used across ports.
var (
	// ErrShapeMismatch means vectors and metadata rows disagree in length at
	// build time. Fatal: no index is produced.
	ErrShapeMismatch = errors.New("vector and metadata row counts differ")

	// ErrDimensionMismatch means a query vector does not match the index
	// dimensionality. Fatal for the query, harmless for the index.
	ErrDimensionMismatch = errors.New("query vector dimension differs from index")

	// ErrCorruptIndex means persisted index artifacts are inconsistent.
	// A serving process must refuse to start against such a snapshot.
	ErrCorruptIndex = errors.New("persisted index artifacts are inconsistent")

	// ErrSearchUnavailable distinguishes a failed query from a valid empty
	// result set.
	ErrSearchUnavailable = errors.New("search unavailable")
)

// EncodingError wraps a failed or malformed embedding call. It is retryable
// by the caller with backoff and must never be defaulted to a zero vector.
type EncodingError struct {
	Model string
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("embedding with model %s failed: %v", e.Model, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// IsEncodingError reports whether err is (or wraps) an EncodingError.
func IsEncodingError(err error) bool {
	var ee *EncodingError
	return errors.As(err, &ee)
}
