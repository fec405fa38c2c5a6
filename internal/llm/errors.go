package llm

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned when the Gemini provider has no API key.
var ErrMissingAPIKey = errors.New("API key is required")

// APICallError wraps a failed call to a provider.
type APICallError struct {
	Provider Provider
	Model    string
	Cause    error
}

func (e *APICallError) Error() string {
	return fmt.Sprintf("%s generate content (%s): %v", e.Provider, e.Model, e.Cause)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}
