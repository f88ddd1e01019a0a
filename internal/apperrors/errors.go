// internal/apperrors/errors.go
package apperrors

import "errors"

// Sentinel errors forming the service-level error taxonomy. Services wrap
// these with context via fmt.Errorf("%w: ..."); handlers match with
// errors.Is and map each to its HTTP status.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrValidation      = errors.New("validation failed")
	ErrDependency      = errors.New("dependency failure")
)
