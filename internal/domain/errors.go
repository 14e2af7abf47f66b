package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexNotFound signals a missing index.
	ErrIndexNotFound = errors.New("index not found")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrInvalidSchema signals an invalid schema definition.
	ErrInvalidSchema = errors.New("invalid schema")
	// ErrUnknownField signals a write to a field the schema does not declare.
	ErrUnknownField = errors.New("unknown field")
	// ErrValidation signals a strict-level validation failure.
	ErrValidation = errors.New("validation failed")
	// ErrNoConnection signals a registry read before Connect.
	ErrNoConnection = errors.New("connection not configured")
)

// ValidationError wraps ErrValidation with the failing field and reason.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: field %q: %s", ErrValidation.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a validation error for a single field.
func NewValidationError(fieldName, reason string) error {
	return &ValidationError{Field: fieldName, Reason: reason}
}
