package errors

import "fmt"

// ErrorCode represents a Sprout error code.
type ErrorCode string

const (
	ErrInvalidRequest      ErrorCode = "INVALID_REQUEST"      // 400
	ErrNotFound            ErrorCode = "NOT_FOUND"            // 404
	ErrConflict            ErrorCode = "CONFLICT"             // 409
	ErrProviderError       ErrorCode = "PROVIDER_ERROR"       // 502
	ErrMalformedCompletion ErrorCode = "MALFORMED_COMPLETION" // 502
	ErrStoreUnavailable    ErrorCode = "STORE_UNAVAILABLE"    // 503
	ErrInternal            ErrorCode = "INTERNAL"             // 500
)

// SproutError represents a structured error with code, status, and details.
type SproutError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *SproutError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *SproutError {
	return &SproutError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for an absent record.
// Absence is a valid outcome for reads; callers that treat it as
// "not there" should check with Is(err, ErrNotFound).
func NewNotFound(entity, id string) *SproutError {
	return &SproutError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("%s not found: %s", entity, id),
		Details: map[string]any{"entity": entity, "id": id},
	}
}

// NewConflict creates a 409 error for general conflicts.
func NewConflict(msg string) *SproutError {
	return &SproutError{
		Code:    ErrConflict,
		Status:  409,
		Message: msg,
	}
}

// NewProviderError creates a 502 error for completion-provider failures
// (network, auth, upstream). These must never crash a surface; callers
// render them inline in the chat or report context.
func NewProviderError(provider string, err error) *SproutError {
	msg := "completion provider error"
	if err != nil {
		msg = err.Error()
	}
	return &SproutError{
		Code:    ErrProviderError,
		Status:  502,
		Message: msg,
		Details: map[string]any{"provider": provider},
	}
}

// NewMalformedCompletion creates a 502 error for structured completions
// that contained no parseable JSON payload.
func NewMalformedCompletion(msg string) *SproutError {
	return &SproutError{
		Code:    ErrMalformedCompletion,
		Status:  502,
		Message: msg,
	}
}

// NewStoreUnavailable creates a 503 error when the backing store cannot
// be reached or a store operation fails. Read paths that drive initial
// render must surface this rather than showing an empty state.
func NewStoreUnavailable(err error) *SproutError {
	msg := "record store unavailable"
	if err != nil {
		msg = err.Error()
	}
	return &SproutError{
		Code:    ErrStoreUnavailable,
		Status:  503,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *SproutError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &SproutError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a SproutError with the given code.
func Is(err error, code ErrorCode) bool {
	if sErr, ok := err.(*SproutError); ok {
		return sErr.Code == code
	}
	return false
}

// StatusOf returns the HTTP status for an error, defaulting to 500.
func StatusOf(err error) int {
	if sErr, ok := err.(*SproutError); ok {
		return sErr.Status
	}
	return 500
}
