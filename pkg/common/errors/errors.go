package errors

import "errors"

// Common error types used across the taskpool library

var (
	// ErrAlreadyPrepared indicates that Prepare was called on a pool that
	// already holds a live backend
	ErrAlreadyPrepared = errors.New("pool is already prepared")

	// ErrClosed indicates that an operation was attempted on a stopped resource
	ErrClosed = errors.New("resource is closed")

	// ErrInvalidConfiguration indicates invalid configuration parameters
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrNilJob indicates that a nil job was submitted
	ErrNilJob = errors.New("job cannot be nil")
)

// IsContractError returns true if the error indicates an API contract
// violation by the caller rather than a runtime condition
func IsContractError(err error) bool {
	return errors.Is(err, ErrAlreadyPrepared) || errors.Is(err, ErrNilJob) ||
		errors.Is(err, ErrInvalidConfiguration)
}

// IsTemporary returns true if the error indicates a temporary condition
// that may clear once in-flight work finishes
func IsTemporary(err error) bool {
	return errors.Is(err, ErrClosed)
}
