package errors

import (
	"errors"
	"fmt"
)

// Common application errors with proper types for error handling

var (
	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")

	// ErrRateLimited indicates the caller exceeded a submission quota
	ErrRateLimited = errors.New("rate limited")

	// ErrStorageUnavailable indicates a key-value backend could not be reached
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal error")
)

// InvalidInputError creates an invalid input error with context
func InvalidInputError(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrInvalidInput)
}

// StorageError wraps a backend failure for the named operation
func StorageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}

// InternalError creates an internal error with context
func InternalError(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrInternal)
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}
