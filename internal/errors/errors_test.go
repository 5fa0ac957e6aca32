package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", Validation("Project name is required"), http.StatusBadRequest, "Project name is required"},
		{"wrapped forbidden", fmt.Errorf("update project: %w", Forbidden("Forbidden")), http.StatusForbidden, "Forbidden"},
		{"not found", NotFound("Project not found"), http.StatusNotFound, "Project not found"},
		{"conflict", &Error{Kind: ErrConflict, Message: "Email already registered"}, http.StatusConflict, "Email already registered"},
		{"bare sentinel", ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
		{"unauthorized with message", &Error{Kind: ErrUnauthorized, Message: "Not authenticated"}, http.StatusUnauthorized, "Not authenticated"},
		{"unknown", errors.New("dial tcp: refused"), http.StatusInternalServerError, "Failed to load"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err, "Failed to load")
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantMsg, httpErr.Message)
		})
	}
}

func TestMapErrorToHTTP_DefaultFallback(t *testing.T) {
	httpErr := MapErrorToHTTP(errors.New("boom"), "")
	assert.True(t, httpErr.IsInternal())
	assert.Equal(t, "Internal server error", httpErr.Message)
}

func TestMapErrorToHTTP_Code(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantBody ErrorResponse
	}{
		{"kind default", NotFound("Project not found"), ErrorResponse{Error: "Project not found", Code: "NOT_FOUND"}},
		{"explicit code", &Error{Kind: ErrConflict, Message: "User with this email already exists", Code: "USER_ALREADY_EXISTS"},
			ErrorResponse{Error: "User with this email already exists", Code: "USER_ALREADY_EXISTS"}},
		{"wrapped explicit code", fmt.Errorf("login: %w", &Error{Kind: ErrUnauthorized, Message: "Invalid email or password", Code: "INVALID_CREDENTIALS"}),
			ErrorResponse{Error: "Invalid email or password", Code: "INVALID_CREDENTIALS"}},
		{"internal", errors.New("boom"), ErrorResponse{Error: "Failed to login", Code: "INTERNAL_ERROR"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantBody, MapErrorToHTTP(tt.err, "Failed to login").ToErrorResponse())
		})
	}
}

func TestEnvelope(t *testing.T) {
	ok := OK([]int{1}, "done")
	assert.True(t, ok.Success)
	assert.Equal(t, "done", ok.Message)

	fail := Fail("nope")
	assert.False(t, fail.Success)
	assert.Equal(t, "nope", fail.Error)
	assert.Nil(t, fail.Data)
}
