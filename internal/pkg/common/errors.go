package common

import (
	"errors"
	"net/http"
)

// ErrorResponse API error body
type ErrorResponse struct {
	Code    string `json:"code"`              // error code
	Message string `json:"message"`           // error message
	Details string `json:"details,omitempty"` // cause, only shown in debug mode
}

// CustomError application error carrying a code and an HTTP status
type CustomError struct {
	Code    string // error code
	Message string // error message
	Err     error  // underlying cause
	Status  int    // HTTP status
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is matches any CustomError with the same code, so errors.Is works against the
// predefined errors below even after Wrap.
func (e *CustomError) Is(target error) bool {
	t, ok := target.(*CustomError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Wrap returns a copy of e carrying err as its cause
func (e *CustomError) Wrap(err error) *CustomError {
	return NewError(e.Code, e.Message, e.Status, err)
}

// NewError creates a new CustomError
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// AsCustomError extracts a CustomError from err, falling back to ErrInternalError
func AsCustomError(err error) *CustomError {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce
	}
	return ErrInternalError.Wrap(err)
}

// ValidationError input validation error
type ValidationError struct {
	message string
}

// Error implements error
func (e *ValidationError) Error() string {
	return e.message
}

// NewValidationError creates a new ValidationError
func NewValidationError(message string) error {
	return &ValidationError{
		message: message,
	}
}

// IsValidationError reports whether err is a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Error codes
const (
	// client errors (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"     // 400
	ErrCodeUnauthorized    = "UNAUTHORIZED"        // 401
	ErrCodeNotFound        = "NOT_FOUND"           // 404
	ErrCodeRequestTimeout  = "REQUEST_TIMEOUT"     // 408
	ErrCodeEntityTooLarge  = "ENTITY_TOO_LARGE"    // 413
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS"   // 429
	ErrCodeInvalidPrefs    = "INVALID_PREFERENCES" // 400

	// server errors (5xx)
	ErrCodeInternalError         = "INTERNAL_ERROR"         // 500
	ErrCodeServiceUnavailable    = "SERVICE_UNAVAILABLE"    // 503
	ErrCodeGatewayTimeout        = "GATEWAY_TIMEOUT"        // 504
	ErrCodeDataSource            = "DATA_SOURCE_ERROR"      // 503
	ErrCodeCacheUnavailable      = "CACHE_UNAVAILABLE"      // never surfaced
	ErrCodeGenerationUnavailable = "GENERATION_UNAVAILABLE" // 503
	ErrCodeGenerationParse       = "GENERATION_PARSE_ERROR" // never surfaced
)

// Predefined errors
var (
	// client errors
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "invalid request", http.StatusBadRequest, nil)
	ErrUnauthorized    = NewError(ErrCodeUnauthorized, "unauthorized", http.StatusUnauthorized, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "resource not found", http.StatusNotFound, nil)
	ErrRequestTimeout  = NewError(ErrCodeRequestTimeout, "request timeout", http.StatusRequestTimeout, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "too many requests", http.StatusTooManyRequests, nil)

	// server errors
	ErrInternalError      = NewError(ErrCodeInternalError, "internal server error", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "service temporarily unavailable", http.StatusServiceUnavailable, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "gateway timeout", http.StatusGatewayTimeout, nil)

	// business errors
	ErrInvalidPreferences    = NewError(ErrCodeInvalidPrefs, "invalid preferences", http.StatusBadRequest, nil)
	ErrDataSource            = NewError(ErrCodeDataSource, "menu data source unavailable", http.StatusServiceUnavailable, nil)
	ErrCacheUnavailable      = NewError(ErrCodeCacheUnavailable, "cache unavailable", http.StatusServiceUnavailable, nil)
	ErrCacheMiss             = NewError("CACHE_MISS", "cache miss", http.StatusNotFound, nil)
	ErrCacheFull             = NewError("CACHE_FULL", "cache full", http.StatusServiceUnavailable, nil)
	ErrGenerationUnavailable = NewError(ErrCodeGenerationUnavailable, "generation service unavailable", http.StatusServiceUnavailable, nil)
	ErrGenerationParse       = NewError(ErrCodeGenerationParse, "generation response could not be parsed", http.StatusBadGateway, nil)
)
