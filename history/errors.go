package history

import (
	"errors"
	"fmt"
)

// ==================== Sentinel Errors ====================

var (
	// ErrEmptyJail is returned when a jail parameter is empty
	ErrEmptyJail = fmt.Errorf("jail cannot be empty")

	// ErrEmptyAction is returned when a record has no action
	ErrEmptyAction = fmt.Errorf("action cannot be empty")

	// ErrBucketNotFound is returned when the history bucket is missing
	ErrBucketNotFound = fmt.Errorf("database bucket not found")
)

// ==================== Structured Error Types ====================

// DatabaseError wraps bbolt errors with the operation and bucket involved.
type DatabaseError struct {
	// Op is the operation that failed (e.g., "open", "create bucket", "put")
	Op string

	// Bucket is the bucket name involved in the operation (empty if not applicable)
	Bucket string

	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface
func (e *DatabaseError) Error() string {
	if e.Bucket != "" {
		return fmt.Sprintf("history database %s [bucket: %s]: %v", e.Op, e.Bucket, e.Err)
	}
	return fmt.Sprintf("history database %s: %v", e.Op, e.Err)
}

// Unwrap allows errors.Is() and errors.As() to work with wrapped errors
func (e *DatabaseError) Unwrap() error {
	return e.Err
}

// ValidationError reports a record field that failed validation.
type ValidationError struct {
	Field string
	Err   error
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed [%s]: %v", e.Field, e.Err)
}

// Unwrap allows errors.Is() and errors.As() to work with wrapped errors
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidationError checks if the error is a validation error.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
