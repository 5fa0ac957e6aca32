package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation is returned when a request is malformed or missing fields.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized is returned when no valid session is present.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when the caller does not own the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound is returned when a resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique key is already taken.
	ErrConflict = errors.New("conflict")
)

// Error carries a client-facing message for one of the error kinds above.
// Code, when set, replaces the kind's default machine-readable code.
type Error struct {
	Kind    error
	Message string
	Code    string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Validation returns an ErrValidation with the given message.
func Validation(msg string) error { return &Error{Kind: ErrValidation, Message: msg} }

// Forbidden returns an ErrForbidden with the given message.
func Forbidden(msg string) error { return &Error{Kind: ErrForbidden, Message: msg} }

// NotFound returns an ErrNotFound with the given message.
func NotFound(msg string) error { return &Error{Kind: ErrNotFound, Message: msg} }

// ErrorResponse is the body returned by the auth endpoints on failure.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// IsInternal reports whether the error maps to a 500.
func (e *HTTPError) IsInternal() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything that is not one
// of the known kinds becomes a 500 carrying fallback as its message.
func MapErrorToHTTP(err error, fallback string) *HTTPError {
	var httpErr *HTTPError
	switch {
	case errors.Is(err, ErrValidation):
		httpErr = NewHTTPError(http.StatusBadRequest, messageOf(err, err.Error()), "VALIDATION_ERROR")
	case errors.Is(err, ErrUnauthorized):
		httpErr = NewHTTPError(http.StatusUnauthorized, messageOf(err, "Unauthorized"), "UNAUTHORIZED")
	case errors.Is(err, ErrForbidden):
		httpErr = NewHTTPError(http.StatusForbidden, messageOf(err, err.Error()), "FORBIDDEN")
	case errors.Is(err, ErrNotFound):
		httpErr = NewHTTPError(http.StatusNotFound, messageOf(err, err.Error()), "NOT_FOUND")
	case errors.Is(err, ErrConflict):
		httpErr = NewHTTPError(http.StatusConflict, messageOf(err, err.Error()), "CONFLICT")
	default:
		if fallback == "" {
			fallback = "Internal server error"
		}
		return NewHTTPError(http.StatusInternalServerError, fallback, "INTERNAL_ERROR")
	}

	var e *Error
	if errors.As(err, &e) && e.Code != "" {
		httpErr.Code = e.Code
	}
	return httpErr
}

// messageOf returns the message of the *Error in err's chain, or def.
func messageOf(err error, def string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return def
}
