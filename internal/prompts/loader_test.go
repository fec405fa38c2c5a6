package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	prompt, err := Get("extraction.json", "profile-description")
	require.NoError(t, err)
	assert.Contains(t, prompt, "LinkedIn profile page")
}

func TestGet_InvalidFile(t *testing.T) {
	_, err := Get("nonexistent.json", "some-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGet_InvalidKey(t *testing.T) {
	_, err := Get("extraction.json", "nonexistent-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `prompt key "nonexistent-key" not found`)
}

func TestMustGet(t *testing.T) {
	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
	assert.NotPanics(t, func() {
		assert.NotEmpty(t, MustGet("extraction.json", "experience-rules"))
	})
}
