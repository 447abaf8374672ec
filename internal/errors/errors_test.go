package errors

import (
	stderrors "errors"
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
		wantCode   string
		wantMsg    string
	}{
		{"invalid credentials", ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHENTICATED", "Invalid credentials"},
		{"conflict", ErrUserAlreadyExists, http.StatusConflict, "CONFLICT", "User already exists"},
		{"forbidden", ErrAccessDenied, http.StatusForbidden, "FORBIDDEN", "Access denied"},
		{"not found wrapped", fmt.Errorf("get: %w", ErrDocumentNotFound), http.StatusNotFound, "NOT_FOUND", "Document not found"},
		{"unsupported type", ErrUnsupportedFileType, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", "Invalid file type"},
		{"storage", Storage("Error deleting stored file", stderrors.New("timeout")), http.StatusInternalServerError, "STORAGE_ERROR", "Error deleting stored file"},
		{"unclassified", stderrors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.Code)
			assert.Equal(t, tt.wantMsg, httpErr.Message)
		})
	}
}

func TestValidationCarriesFields(t *testing.T) {
	err := Validation("Invalid input", FieldError{Field: "title", Tag: "required", Message: "title is required"})

	httpErr := MapErrorToHTTP(fmt.Errorf("upload: %w", err))

	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	resp := httpErr.ToErrorResponse()
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)
	assert.Len(t, resp.Fields, 1)
	assert.Equal(t, "title", resp.Fields[0].Field)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("wrap: %w", ErrUserNotFound)))
	assert.Equal(t, KindInternal, KindOf(stderrors.New("plain")))
}

func TestFromStatus(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", FromStatus(http.StatusNotFound, "").Code)
	assert.Equal(t, "Not Found", FromStatus(http.StatusNotFound, "").Message)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", FromStatus(http.StatusRequestEntityTooLarge, "Request Entity Too Large").Code)
	assert.Equal(t, "METHOD_NOT_ALLOWED", FromStatus(http.StatusMethodNotAllowed, "").Code)
	assert.Equal(t, "HTTP_ERROR", FromStatus(http.StatusTeapot, "").Code)
	assert.Equal(t, "INTERNAL_ERROR", FromStatus(http.StatusBadGateway, "").Code)
}
