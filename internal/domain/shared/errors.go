package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so that wrapped copies of the common
// errors below compare equal with errors.Is.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound               = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists          = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput           = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict    = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized           = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden              = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState           = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrCompanyProfileRequired = NewDomainError("COMPANY_PROFILE_REQUIRED", "A company profile is required before issuing documents")
	ErrSubscriptionRequired   = NewDomainError("SUBSCRIPTION_REQUIRED", "An active subscription is required")
)

// IsNotFound reports whether err is (or wraps) ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
