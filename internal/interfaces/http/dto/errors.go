package dto

import (
	"net/http"
	"strings"
)

// Error codes produced by the HTTP layer itself. Domain errors keep the code
// they were created with.
const (
	ErrCodeInternal             = "INTERNAL_ERROR"
	ErrCodeValidation           = "VALIDATION_ERROR"
	ErrCodeBadRequest           = "BAD_REQUEST"
	ErrCodeInvalidInput         = "INVALID_INPUT"
	ErrCodeUnauthorized         = "UNAUTHORIZED"
	ErrCodeForbidden            = "FORBIDDEN"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeAlreadyExists        = "ALREADY_EXISTS"
	ErrCodeConflict             = "CONFLICT"
	ErrCodeInvalidState         = "INVALID_STATE"
	ErrCodeSubscriptionRequired = "SUBSCRIPTION_REQUIRED"
	ErrCodeRateLimited          = "RATE_LIMIT_EXCEEDED"
	ErrCodeRequestTooLarge      = "REQUEST_TOO_LARGE"
	ErrCodeUnavailable          = "SERVICE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	// Input errors
	ErrCodeValidation:       http.StatusBadRequest,
	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeInvalidInput:     http.StatusBadRequest,
	"EMPTY_UPLOAD":          http.StatusBadRequest,
	"UNSUPPORTED_FILE_TYPE": http.StatusUnsupportedMediaType,
	"UPLOAD_TOO_LARGE":      http.StatusRequestEntityTooLarge,
	ErrCodeRequestTooLarge:  http.StatusRequestEntityTooLarge,

	// Auth errors
	ErrCodeUnauthorized:   http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_REVOKED":       http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH":   http.StatusUnauthorized,
	ErrCodeForbidden:      http.StatusForbidden,

	// Resource errors
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeAlreadyExists:   http.StatusConflict,
	ErrCodeConflict:        http.StatusConflict,
	"DUPLICATE_NUMBER":     http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// Business rule errors
	ErrCodeInvalidState:         http.StatusUnprocessableEntity,
	"COMPANY_PROFILE_REQUIRED":  http.StatusUnprocessableEntity,
	"TOTALS_MISMATCH":           http.StatusUnprocessableEntity,
	"NUMBER_IMMUTABLE":          http.StatusUnprocessableEntity,
	ErrCodeSubscriptionRequired: http.StatusPaymentRequired,

	ErrCodeRateLimited: http.StatusTooManyRequests,
	ErrCodeUnavailable: http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unlisted INVALID_* codes are field-level input errors and map to 400;
// anything else is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
