// internal/services/errors.go
package services

import "errors"

// Error taxonomy shared by every service. Handlers translate these with
// errors.Is into 401/403/404/400/409. Business-rule checks happen at
// the point of mutation and fail the whole operation; no partial
// application.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
)
