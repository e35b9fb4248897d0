package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNoRecentEntries refuses recap generation when the trailing window is empty.
	// It is a caller-correctable condition, not a fault.
	ErrNoRecentEntries = errors.New("no entries found in the recap window")

	// ErrGeneratorUnavailable means no recap provider is configured or the provider
	// circuit is open.
	ErrGeneratorUnavailable = errors.New("recap generator unavailable")

	// ErrUpstream wraps failures returned by the recap provider.
	ErrUpstream = errors.New("upstream failure")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects field-level problems with a request.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message}}}
}
