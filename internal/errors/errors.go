package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrLoadFailed is returned when the search index could not be fetched or decoded
	ErrLoadFailed = errors.New("search index load failed")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// LoadError represents a failure to fetch or decode the search index.
// Status is the HTTP status code when the transport answered, 0 otherwise.
type LoadError struct {
	Source string
	Status int
	Err    error
}

func (e *LoadError) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("failed to load search index from '%s': unexpected status %d", e.Source, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("failed to load search index from '%s': %v", e.Source, e.Err)
	default:
		return fmt.Sprintf("failed to load search index from '%s'", e.Source)
	}
}

func (e *LoadError) Is(target error) bool {
	return target == ErrLoadFailed
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new LoadError wrapping the underlying cause
func NewLoadError(source string, err error) *LoadError {
	return &LoadError{Source: source, Err: err}
}

// NewStatusLoadError creates a new LoadError for a non-success HTTP response
func NewStatusLoadError(source string, status int) *LoadError {
	return &LoadError{Source: source, Status: status}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
