package service

import (
	"errors"
	"fmt"
)

// Common error types for the practice services.
var (
	// ErrSessionExpired indicates that the requested session could not
	// be found. Sessions are ephemeral by design, so at this boundary a
	// missing session is presented as expired rather than unknown.
	ErrSessionExpired = errors.New("session expired or not found")

	// ErrSessionComplete indicates that an answer was submitted to a
	// session that has already been completed.
	ErrSessionComplete = errors.New("session is already complete")

	// ErrNoCardsRequested indicates a session was requested with a
	// non-positive card limit.
	ErrNoCardsRequested = errors.New("max cards must be positive")
)

// ServiceError wraps errors from the practice services with additional
// context. Consumers differentiate error kinds with errors.Is/errors.As
// instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "create_session").
	Operation string
	// Message is a human-readable description of the error.
	Message string
	// Err is the underlying error that caused the failure.
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError for the given operation.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
