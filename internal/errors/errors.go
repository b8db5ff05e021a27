package errors

import "fmt"

// ErrorCode represents a braindump error code.
type ErrorCode string

const (
	ErrInvalidRequest      ErrorCode = "INVALID_REQUEST"      // 400
	ErrNotFound            ErrorCode = "NOT_FOUND"            // 404
	ErrConflict            ErrorCode = "CONFLICT"             // 409
	ErrConfigMissing       ErrorCode = "CONFIG_MISSING"       // 412
	ErrParseFailure        ErrorCode = "PARSE_FAILURE"        // 422
	ErrInternal            ErrorCode = "INTERNAL"             // 500
	ErrProviderUnavailable ErrorCode = "PROVIDER_UNAVAILABLE" // 502
)

// Error represents a structured error with code, status, and details.
type Error struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *Error {
	return &Error{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing task, run, or document region.
func NewNotFound(identifier string) *Error {
	return &Error{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewConflict creates a 409 error for general conflicts.
func NewConflict(msg string) *Error {
	return &Error{
		Code:    ErrConflict,
		Status:  409,
		Message: msg,
	}
}

// NewConfigMissing creates a 412 error for provider settings that must exist
// before any network call is attempted (API key, endpoint, deployment).
func NewConfigMissing(field string) *Error {
	return &Error{
		Code:    ErrConfigMissing,
		Status:  412,
		Message: fmt.Sprintf("missing provider configuration: %s", field),
		Details: map[string]any{"field": field},
	}
}

// NewParseFailure creates a 422 error for replies that arrived but carried no
// usable JSON. Most parse problems are downgraded to defaults instead; this
// code only surfaces where an operation has no best-effort shape to return.
func NewParseFailure(msg string) *Error {
	return &Error{
		Code:    ErrParseFailure,
		Status:  422,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *Error {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &Error{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// NewProviderUnavailable creates a 502 error for transport-level LLM failures.
// Callers treat this as the signal to switch to the heuristic mock path.
func NewProviderUnavailable(err error) *Error {
	msg := "llm provider unavailable"
	if err != nil {
		msg = err.Error()
	}
	return &Error{
		Code:    ErrProviderUnavailable,
		Status:  502,
		Message: msg,
	}
}

// Is checks if an error is an *Error with the given code.
func Is(err error, code ErrorCode) bool {
	if e, ok := err.(*Error); ok {
		return e.Code == code
	}
	return false
}
