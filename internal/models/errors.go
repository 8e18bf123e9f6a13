package models

import "fmt"

// NotFoundError indicates a referenced resource does not exist.
// The HTTP layer maps it to 404.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NewNotFound builds a NotFoundError for the given resource and id.
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError indicates the caller supplied invalid input (payer equals
// payee, non-positive amount, split sums out of tolerance, unknown member).
// The HTTP layer maps it to 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidation builds a ValidationError with a formatted message.
func NewValidation(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// AuthorizationError indicates the caller may not act on the resource
// (not a group member, or lacking the required role). Maps to 403.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

// NewAuthorization builds an AuthorizationError with a formatted message.
func NewAuthorization(format string, args ...any) *AuthorizationError {
	return &AuthorizationError{Message: fmt.Sprintf(format, args...)}
}
