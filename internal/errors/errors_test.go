package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"invalid request", InvalidRequestWithError(errors.New("unexpected EOF")), http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format"},
		{"field validation", ErrValidation("value", "required"), http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed"},
		{"unknown tab", UnknownTabError("settings"), http.StatusBadRequest, "UNKNOWN_TAB", `unknown tab "settings"`},
		{"simple validation", NewValidationError("bad format"), http.StatusBadRequest, "VALIDATION_FAILED", "bad format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantCode, tt.err.ErrorCode)
			assert.Equal(t, tt.wantMsg, tt.err.Error())
		})
	}
}

func TestNewValidationErrors(t *testing.T) {
	err := NewValidationErrors([]ValidationError{
		{Field: "type", Message: "required"},
		{Field: "tab", Message: "oneof"},
	})

	details, ok := err.Details.(ValidationErrors)
	require.True(t, ok)
	assert.Len(t, details.Errors, 2)
	assert.Equal(t, "tab", details.Errors[1].Field)
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, ErrUnknownEvent)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp struct {
		Success bool     `json:"success"`
		Error   APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "UNKNOWN_EVENT", resp.Error.ErrorCode)
	assert.Equal(t, http.StatusBadRequest, resp.Error.StatusCode)
}
