package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the client. Each kind maps to exactly one HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidInput
	KindConflict
	KindForbidden
	KindUnauthenticated
)

// AppError is a custom error type that includes an HTTP status code and a user-facing message.
type AppError struct {
	Code    int    // HTTP Status Code (e.g., 400, 404)
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Kind reports the taxonomy bucket derived from the status code.
func (e *AppError) Kind() Kind {
	switch e.Code {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindInvalidInput
	case http.StatusConflict:
		return KindConflict
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusUnauthorized:
		return KindUnauthenticated
	default:
		return KindInternal
	}
}

// New creates a new AppError with a status code and message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NotFound(message string) *AppError     { return New(http.StatusNotFound, message) }
func InvalidInput(message string) *AppError { return New(http.StatusBadRequest, message) }
func Conflict(message string) *AppError     { return New(http.StatusConflict, message) }
func Forbidden(message string) *AppError    { return New(http.StatusForbidden, message) }

func Unauthenticated(message string) *AppError {
	return New(http.StatusUnauthorized, message)
}

// Internal wraps an unexpected failure. The message sent to clients is always generic.
func Internal(err error) *AppError {
	return Wrap(err, http.StatusInternalServerError, "internal server error")
}

// KindOf returns the Kind of err. Errors that are not AppErrors are Internal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind()
	}
	return KindInternal
}
