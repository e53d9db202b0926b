package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors used across repository and usecase layers.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrUnavailable   = errors.New("service unavailable")
	ErrOTPExpired    = errors.New("otp expired")
	ErrOTPMismatch   = errors.New("otp mismatch")
)

// AppError carries an HTTP status code alongside a user-facing message
// and an optional wrapped cause.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewBadRequest creates a 400 error
func NewBadRequest(message string, err error) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: err}
}

// NewUnauthorized creates a 401 error
func NewUnauthorized(message string, err error) *AppError {
	return &AppError{Code: http.StatusUnauthorized, Message: message, Err: err}
}

// NewForbidden creates a 403 error
func NewForbidden(message string, err error) *AppError {
	return &AppError{Code: http.StatusForbidden, Message: message, Err: err}
}

// NewNotFound creates a 404 error
func NewNotFound(message string, err error) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: err}
}

// NewConflict creates a 409 error
func NewConflict(message string, err error) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Err: err}
}

// NewInternal creates a 500 error
func NewInternal(message string, err error) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: message, Err: err}
}

// NewUnavailable creates a 503 error
func NewUnavailable(message string, err error) *AppError {
	return &AppError{Code: http.StatusServiceUnavailable, Message: message, Err: err}
}

// FromError maps known sentinel errors onto AppError status codes,
// defaulting to 500 for anything unrecognized.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NewNotFound(err.Error(), err)
	case errors.Is(err, ErrAlreadyExists):
		return NewConflict(err.Error(), err)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrOTPExpired), errors.Is(err, ErrOTPMismatch):
		return NewBadRequest(err.Error(), err)
	case errors.Is(err, ErrUnauthorized):
		return NewUnauthorized(err.Error(), err)
	case errors.Is(err, ErrUnavailable):
		return NewUnavailable(err.Error(), err)
	default:
		return NewInternal("internal server error", err)
	}
}
