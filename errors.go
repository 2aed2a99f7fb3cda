package blogsmith

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyResponse is returned when a provider replies without any content.
var ErrEmptyResponse = errors.New("empty response")

// ErrorCategory classifies errors by how they should be handled.
type ErrorCategory string

const (
	// ErrorTransient indicates the error is temporary and the operation can be retried.
	// Examples: rate limits, temporary network issues, server overload.
	ErrorTransient ErrorCategory = "transient"

	// ErrorPermanent indicates the error is not recoverable through retry.
	// Examples: invalid API key, insufficient permissions, model not found.
	ErrorPermanent ErrorCategory = "permanent"

	// ErrorUserInput indicates the request itself was rejected.
	// Examples: malformed request, invalid parameters, content policy violation.
	ErrorUserInput ErrorCategory = "user_input"
)

// CategorizedError is an error that provides information about how it should be handled.
type CategorizedError interface {
	error
	Category() ErrorCategory
	StatusCode() int
	RetryAfter() time.Duration
}

// Error is a categorized error with metadata for error handling decisions.
type Error struct {
	Msg        string
	Cat        ErrorCategory
	Code       int           // HTTP status code, 0 if not applicable
	RetryDelay time.Duration // from Retry-After header, 0 if not available
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Category returns the error category.
func (e *Error) Category() ErrorCategory { return e.Cat }

// StatusCode returns the HTTP status code, or 0 if not applicable.
func (e *Error) StatusCode() int { return e.Code }

// RetryAfter returns the suggested retry delay, or 0 if not available.
func (e *Error) RetryAfter() time.Duration { return e.RetryDelay }

// NewTransientError creates a transient error that can be retried.
// A positive retryAfter records the server's requested delay.
func NewTransientError(msg string, statusCode int, retryAfter time.Duration, cause error) *Error {
	return &Error{Msg: msg, Cat: ErrorTransient, Code: statusCode, RetryDelay: retryAfter, Cause: cause}
}

// NewPermanentError creates a permanent error that should not be retried.
func NewPermanentError(msg string, statusCode int, cause error) *Error {
	return &Error{Msg: msg, Cat: ErrorPermanent, Code: statusCode, Cause: cause}
}

// NewUserInputError creates an error indicating the request was rejected.
func NewUserInputError(msg string, statusCode int, cause error) *Error {
	return &Error{Msg: msg, Cat: ErrorUserInput, Code: statusCode, Cause: cause}
}

// CategorizeStatus maps an HTTP status code to an error category.
// Providers share it so that a 429 means the same thing everywhere.
func CategorizeStatus(code int) ErrorCategory {
	switch {
	case code == 408 || code == 429:
		return ErrorTransient
	case code >= 500 && code < 600:
		return ErrorTransient
	case code == 401 || code == 403:
		return ErrorPermanent
	case code == 400 || code == 404 || code == 422:
		return ErrorUserInput
	default:
		return ErrorPermanent
	}
}

// NewStatusError builds a categorized error from an HTTP status code.
func NewStatusError(msg string, statusCode int, retryAfter time.Duration, cause error) *Error {
	switch CategorizeStatus(statusCode) {
	case ErrorTransient:
		return NewTransientError(msg, statusCode, retryAfter, cause)
	case ErrorUserInput:
		return NewUserInputError(msg, statusCode, cause)
	default:
		return NewPermanentError(msg, statusCode, cause)
	}
}

func categoryOf(err error) (ErrorCategory, bool) {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category(), true
	}
	return "", false
}

// IsTransient returns true if the error or any wrapped error is transient.
func IsTransient(err error) bool {
	cat, ok := categoryOf(err)
	return ok && cat == ErrorTransient
}

// IsPermanent returns true if the error or any wrapped error is permanent.
func IsPermanent(err error) bool {
	cat, ok := categoryOf(err)
	return ok && cat == ErrorPermanent
}

// IsUserInput returns true if the error or any wrapped error is a rejected request.
func IsUserInput(err error) bool {
	cat, ok := categoryOf(err)
	return ok && cat == ErrorUserInput
}

// RetryAfterOf returns the retry delay from a categorized error, or 0.
func RetryAfterOf(err error) time.Duration {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.RetryAfter()
	}
	return 0
}

// SchemaError reports a structured reply that could not be decoded into,
// or did not satisfy, the requested schema. It is never retried.
type SchemaError struct {
	Schema  string // schema name
	Content string // raw model output
	Err     error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("response does not match schema %q: %v", e.Schema, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// IsSchemaError reports whether err wraps a *SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}
