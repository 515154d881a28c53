package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation signals a payload that violates its record schema.
	ErrValidation = errors.New("validation failed")
	// ErrUnknownSchema signals a record type that was never registered.
	ErrUnknownSchema = errors.New("unknown schema")
	// ErrDuplicateSchema signals a second registration of the same record type.
	ErrDuplicateSchema = errors.New("duplicate schema")
	// ErrNotFound signals a missing document.
	ErrNotFound = errors.New("not found")
	// ErrInvalidIdentifier signals an external identifier that cannot be decoded.
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrStorageUnavailable signals an unreachable or failing storage backend.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrAlreadyExists signals a unique natural key collision on create.
	ErrAlreadyExists = errors.New("already exists")
)

// FieldError describes a single violated field constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) String() string { return e.Field + ": " + e.Message }

// ValidationError wraps ErrValidation with every violated field.
type ValidationError struct {
	RecordType string
	Fields     []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation.Error(), e.RecordType, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// FieldNames returns the names of the violated fields in report order.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return names
}

// NewValidationError returns nil when fields is empty.
func NewValidationError(recordType string, fields []FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{RecordType: recordType, Fields: fields}
}
