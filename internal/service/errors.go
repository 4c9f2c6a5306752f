package service

import "errors"

var (
	// ErrInvalidCredentials is returned for a wrong email or password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCategoryNotFound is returned when a slug resolves to no category.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrUnknownAction is returned for an unsupported state transition.
	ErrUnknownAction = errors.New("unknown state action")
	// ErrStorageUnavailable is returned when an operation needs Postgres and
	// none is configured.
	ErrStorageUnavailable = errors.New("listing storage not configured")
)

// CSVValidationError indicates that the provided CSV payload is invalid.
type CSVValidationError struct {
	Message string
}

func (e CSVValidationError) Error() string {
	return e.Message
}
