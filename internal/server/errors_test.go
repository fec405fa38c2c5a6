package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jonathan/network-overlap/internal/enrichment"
	"github.com/jonathan/network-overlap/internal/extraction"
	"github.com/jonathan/network-overlap/internal/overlap"
	"github.com/jonathan/network-overlap/internal/settings"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusAndCode(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"session expired", enrichment.ErrSessionExpired, http.StatusUnauthorized, CodeSessionExpired},
		{"wrapped session expired", fmt.Errorf("%w: %w", enrichment.ErrSessionExpired, errors.New("redirected")), http.StatusUnauthorized, CodeSessionExpired},
		{"extraction failed", enrichment.ErrExtractionFailed, http.StatusUnprocessableEntity, CodeExtractionFailed},
		{"not found", enrichment.ErrNotFound, http.StatusNotFound, CodeNotFound},
		{"candidate not found", overlap.ErrCandidateNotFound, http.StatusNotFound, CodeNotFound},
		{"batch running", enrichment.ErrBatchRunning, http.StatusConflict, CodeBatchRunning},
		{"invalid input", enrichment.ErrInvalidInput, http.StatusBadRequest, CodeInvalidInput},
		{"no profile url", enrichment.ErrNoProfileURL, http.StatusBadRequest, CodeInvalidInput},
		{"not configured", extraction.ErrNotConfigured, http.StatusBadRequest, CodeNotConfigured},
		{"invalid setting", settings.ErrInvalidValue, http.StatusBadRequest, CodeInvalidInput},
		{"validation", &ErrValidation{Field: "id", Message: "must be a UUID"}, http.StatusBadRequest, CodeInvalidInput},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
			assert.Equal(t, tt.code, ErrorCode(tt.err))
		})
	}
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Internal server error", userMessage(errors.New("pq: password authentication failed")))
	assert.Equal(t, "validation error: id - must be a UUID", userMessage(&ErrValidation{Field: "id", Message: "must be a UUID"}))
	assert.Contains(t, userMessage(enrichment.ErrSessionExpired), "session cookie")
}
