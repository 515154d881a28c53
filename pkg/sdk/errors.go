package docgate

import "github.com/kailas-cloud/docgate/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrValidation         = domain.ErrValidation
	ErrNotFound           = domain.ErrNotFound
	ErrInvalidIdentifier  = domain.ErrInvalidIdentifier
	ErrAlreadyExists      = domain.ErrAlreadyExists
	ErrStorageUnavailable = domain.ErrStorageUnavailable
)

// ValidationError lists every violated field of a rejected record.
type ValidationError = domain.ValidationError

// FieldError is a single violated field constraint.
type FieldError = domain.FieldError
