package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	e := InvalidInput("quantity must be positive")
	assert.Equal(t, "INVALID_INPUT: quantity must be positive: invalid input", e.Error())

	bare := &AppError{Code: "INVALID_INPUT", Message: "quantity must be positive"}
	assert.Equal(t, "INVALID_INPUT: quantity must be positive", bare.Error())
}

func TestAppError_ErrorWithWrapped(t *testing.T) {
	inner := errors.New("boom")
	e := &AppError{Code: "INTERNAL_ERROR", Message: "oops", Status: 500, Err: inner}
	assert.Contains(t, e.Error(), "boom")
}

func TestAppError_Unwrap(t *testing.T) {
	e := NotFound("cart", "sess-1")
	assert.ErrorIs(t, e, ErrNotFound)
}

func TestWrap(t *testing.T) {
	inner := errors.New("redis down")
	wrapped := Wrap(inner, "save cart")
	assert.ErrorIs(t, wrapped, inner)
	assert.Contains(t, wrapped.Error(), "save cart")
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{NotFound("cart", "s1"), http.StatusNotFound},
		{InvalidInput("bad"), http.StatusBadRequest},
		{Unauthorized("no session"), http.StatusUnauthorized},
		{Conflict("stale write"), http.StatusConflict},
		{Gone("expired"), http.StatusGone},
		{ServiceUnavailable("order api down"), http.StatusServiceUnavailable},
		{fmt.Errorf("wrapped: %w", ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", ErrConflict), http.StatusConflict},
		{errors.New("unknown"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, HTTPStatus(tt.err), "error: %v", tt.err)
	}
}
