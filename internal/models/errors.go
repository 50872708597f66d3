package models

import (
	"errors"
	"net/http"
)

// AppError is a typed error carrying the HTTP status that should be
// reported for it. Services return AppErrors; the fiber error handler
// renders them as {statusCode, message} JSON.
type AppError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return e.Message
}

// Taxonomy constructors. Persistence failures are re-signaled as a generic
// ServerError at the service boundary; the original cause is logged, not
// exposed to clients.

// ErrConflict reports a uniqueness violation (duplicate email).
func ErrConflict(message string) *AppError {
	return &AppError{StatusCode: http.StatusConflict, Message: message}
}

// ErrUnauthorized reports bad credentials or an invalid token.
func ErrUnauthorized(message string) *AppError {
	if message == "" {
		message = "Unauthorized"
	}
	return &AppError{StatusCode: http.StatusUnauthorized, Message: message}
}

// ErrNotFound reports a missing entity.
func ErrNotFound(message string) *AppError {
	return &AppError{StatusCode: http.StatusNotFound, Message: message}
}

// ErrBadRequest reports a malformed or invalid payload.
func ErrBadRequest(message string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Message: message}
}

// ErrServer reports a persistence or downstream failure.
func ErrServer(message string) *AppError {
	if message == "" {
		message = "Internal server error"
	}
	return &AppError{StatusCode: http.StatusInternalServerError, Message: message}
}

// AsAppError unwraps err into an *AppError if it is one.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
