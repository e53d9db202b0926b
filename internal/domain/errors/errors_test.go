package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorError(t *testing.T) {
	cause := stderrors.New("db down")
	appErr := NewInternal("query failed", cause)
	assert.Equal(t, "query failed: db down", appErr.Error())

	bare := NewNotFound("user not found", nil)
	assert.Equal(t, "user not found", bare.Error())
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	appErr := NewBadRequest("bad payload", cause)
	assert.True(t, stderrors.Is(appErr, cause))
}

func TestFromErrorSentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", ErrNotFound, http.StatusNotFound},
		{"already exists", ErrAlreadyExists, http.StatusConflict},
		{"invalid input", ErrInvalidInput, http.StatusBadRequest},
		{"otp expired", ErrOTPExpired, http.StatusBadRequest},
		{"otp mismatch", ErrOTPMismatch, http.StatusBadRequest},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"unavailable", ErrUnavailable, http.StatusServiceUnavailable},
		{"unknown", stderrors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, FromError(tt.err).Code)
		})
	}
}

func TestFromErrorPassesThroughAppError(t *testing.T) {
	appErr := NewConflict("duplicate vouch", nil)
	got := FromError(appErr)
	assert.Same(t, appErr, got)
}

func TestFromErrorWrappedSentinel(t *testing.T) {
	wrapped := stderrors.Join(stderrors.New("fetch issue"), ErrNotFound)
	assert.Equal(t, http.StatusNotFound, FromError(wrapped).Code)
}
