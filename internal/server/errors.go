package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/network-overlap/internal/enrichment"
	"github.com/jonathan/network-overlap/internal/extraction"
	"github.com/jonathan/network-overlap/internal/overlap"
	"github.com/jonathan/network-overlap/internal/settings"
)

// Error codes returned in the "error" field of failure responses.
const (
	CodeSessionExpired   = "SESSION_EXPIRED"
	CodeExtractionFailed = "EXTRACTION_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeNotConfigured    = "NOT_CONFIGURED"
	CodeBatchRunning     = "BATCH_RUNNING"
	CodeInternal         = "INTERNAL_ERROR"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validation *ErrValidation
	switch {
	case errors.Is(err, enrichment.ErrSessionExpired):
		return http.StatusUnauthorized
	case errors.Is(err, enrichment.ErrExtractionFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, enrichment.ErrNotFound), errors.Is(err, overlap.ErrCandidateNotFound):
		return http.StatusNotFound
	case errors.Is(err, enrichment.ErrBatchRunning):
		return http.StatusConflict
	case errors.Is(err, enrichment.ErrInvalidInput),
		errors.Is(err, enrichment.ErrNoProfileURL),
		errors.Is(err, extraction.ErrNotConfigured),
		errors.Is(err, settings.ErrInvalidValue),
		errors.As(err, &validation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ErrorCode returns the machine-readable code for an error.
func ErrorCode(err error) string {
	var validation *ErrValidation
	switch {
	case errors.Is(err, enrichment.ErrSessionExpired):
		return CodeSessionExpired
	case errors.Is(err, enrichment.ErrExtractionFailed):
		return CodeExtractionFailed
	case errors.Is(err, enrichment.ErrNotFound), errors.Is(err, overlap.ErrCandidateNotFound):
		return CodeNotFound
	case errors.Is(err, enrichment.ErrBatchRunning):
		return CodeBatchRunning
	case errors.Is(err, extraction.ErrNotConfigured):
		return CodeNotConfigured
	case errors.Is(err, enrichment.ErrInvalidInput),
		errors.Is(err, enrichment.ErrNoProfileURL),
		errors.Is(err, settings.ErrInvalidValue),
		errors.As(err, &validation):
		return CodeInvalidInput
	default:
		return CodeInternal
	}
}

// userMessage is the human-readable text sent with an error response.
// Internal errors are not echoed back.
func userMessage(err error) string {
	switch ErrorCode(err) {
	case CodeSessionExpired:
		return "Session expired. Please update your session cookie."
	case CodeExtractionFailed:
		return "Could not extract work history. The AI may have timed out or the profile may be private."
	case CodeInternal:
		return "Internal server error"
	default:
		return err.Error()
	}
}
