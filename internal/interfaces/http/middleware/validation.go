package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/facturo/backend/internal/domain/invoicing"
	"github.com/facturo/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RequestIDKey is the header carrying the request ID
const RequestIDKey = "X-Request-ID"

var setupOnce sync.Once

// SetupValidator configures gin's validator: JSON field names in errors and
// the decimal tags used by invoice and product payloads.
func SetupValidator() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
		// Decimals are validated through their string form.
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.String()
			}
			return nil
		}, decimal.Decimal{})
		_ = v.RegisterValidation("tva", validateTVA)
		_ = v.RegisterValidation("dec_gt0", validateDecimalPositive)
		_ = v.RegisterValidation("dec_gte0", validateDecimalNonNegative)
	})
}

func fieldDecimal(fl validator.FieldLevel) (decimal.Decimal, bool) {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	return d, err == nil
}

func validateTVA(fl validator.FieldLevel) bool {
	d, ok := fieldDecimal(fl)
	return ok && invoicing.ValidateTVA(d) == nil
}

func validateDecimalPositive(fl validator.FieldLevel) bool {
	d, ok := fieldDecimal(fl)
	return ok && d.IsPositive()
}

func validateDecimalNonNegative(fl validator.FieldLevel) bool {
	d, ok := fieldDecimal(fl)
	return ok && !d.IsNegative()
}

// FormatValidationErrors formats validation errors into a standard response.
// Errors that are not field validations (malformed JSON) become BAD_REQUEST.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return dto.NewErrorResponseWithRequestID(dto.ErrCodeBadRequest, "Malformed request body", requestID)
	}

	details := make([]dto.ValidationDetail, 0, len(validationErrors))
	for _, e := range validationErrors {
		details = append(details, dto.ValidationDetail{
			Field:   fieldPath(e),
			Message: getValidationMessage(e),
		})
	}
	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// fieldPath drops the struct name from the namespace: items[0].tva
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

// HandleValidationError returns a validation error response
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}

// getValidationMessage returns a human-readable validation message
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		if e.Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		if e.Kind() == reflect.Slice {
			return "Must contain at least " + e.Param() + " items"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		if e.Kind() == reflect.Slice {
			return "Must contain at most " + e.Param() + " items"
		}
		return "Must be at most " + e.Param()
	case "uuid":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "url":
		return "Invalid URL format"
	case "datetime":
		return "Must be a date formatted " + e.Param()
	case "hexcolor":
		return "Must be a hex color such as #1f2937"
	case "tva":
		return "TVA must be between 0 and 100"
	case "dec_gt0":
		return "Must be greater than 0"
	case "dec_gte0":
		return "Must not be negative"
	default:
		return "Invalid value"
	}
}
