package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"name\": \"Jane\"}\n```",
			expected: `{"name": "Jane"}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"name\": \"Jane\"}\n```",
			expected: `{"name": "Jane"}`,
		},
		{
			name:     "code block with language",
			input:    "```javascript\n{\"name\": \"Jane\"}\n```",
			expected: `{"name": "Jane"}`,
		},
		{
			name:     "plain JSON",
			input:    `{"name": "Jane"}`,
			expected: `{"name": "Jane"}`,
		},
		{
			name:     "preamble before object",
			input:    "Here is the profile:\n{\"name\": \"Jane\", \"experiences\": []}",
			expected: `{"name": "Jane", "experiences": []}`,
		},
		{
			name:     "preamble before array",
			input:    "Items:\n[\"a\", \"b\"]",
			expected: `["a", "b"]`,
		},
		{
			name:     "trailing chatter",
			input:    "{\"name\": \"Jane\"}\n\nLet me know if you need anything else!",
			expected: `{"name": "Jane"}`,
		},
		{
			name:     "escaped quotes",
			input:    "Result: {\"headline\": \"Builds \\\"things\\\"\"}",
			expected: `{"headline": "Builds \"things\""}`,
		},
		{
			name:     "no JSON",
			input:    "  I could not find a profile.  ",
			expected: "I could not find a profile.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestFirstJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", `{"a": 1}`, `{"a": 1}`},
		{"nested", `text {"a": {"b": [1, 2]}} more {"c": 3}`, `{"a": {"b": [1, 2]}}`},
		{"braces inside strings", `{"template": "Hello {name}!"}`, `{"template": "Hello {name}!"}`},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"first balanced object wins", `x {"a": "b"} }{ "c"`, `{"a": "b"}`},
		{"never balanced", `{"a": {"b": 1}`, `{"a": {"b": 1}`},
		{"empty", "", ""},
		{"no object", "not json", ""},
		{"array only", `[1, 2]`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FirstJSONObject(tt.input))
		})
	}
}

func TestExtractBalanced(t *testing.T) {
	assert.Equal(t, `{"k": "v"}`, extractJSONObject(`{"k": "v"} tail`))
	assert.Equal(t, "", extractJSONObject(`not json`))
	assert.Equal(t, "", extractJSONObject(`{"open": true`))
	assert.Equal(t, `[1, [2, 3]]`, extractJSONArray(`[1, [2, 3]] tail`))
	assert.Equal(t, `{"s": "back\\slash"}`, extractJSONObject(`{"s": "back\\slash"}`))
}
