// Package llm - extractor.go builds structured-extraction prompts from a schema.
package llm

import (
	"fmt"
	"strings"

	"github.com/jonathan/network-overlap/internal/prompts"
)

const promptFile = "extraction.json"

// ExtractionSchema defines the structure for LLM-based content extraction.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "Profile", "Resume")
	Description string        // Preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
	Rules       string        // Extra instructions, one per line
	InputLabel  string        // Heading for the input text
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint as a JSON example
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	// Output schema
	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "\"string\""
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("Rules:\n")
	if schema.Rules != "" {
		sb.WriteString(strings.TrimRight(schema.Rules, "\n"))
		sb.WriteString("\n")
	}
	sb.WriteString("- Extract information directly from the text, do not invent or summarize.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	label := schema.InputLabel
	if label == "" {
		label = "Input text"
	}
	sb.WriteString(label)
	sb.WriteString(":\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

var experienceField = SchemaField{
	Name:        "experiences",
	Type:        `[{"company_name": "Company", "title": "Job Title", "start_year": 2020, "start_month": 1, "end_year": 2023, "end_month": 12, "is_current": false}]`,
	Description: "Every employment entry, most recent first",
	Required:    true,
}

var educationField = SchemaField{
	Name:        "education",
	Type:        `[{"school_name": "University", "degree": "Degree", "field_of_study": "Field", "start_year": 2016, "end_year": 2020}]`,
	Description: "Every education entry",
	Required:    true,
}

// ProfileSchema returns the extraction schema for a scraped profile page.
func ProfileSchema() ExtractionSchema {
	return ExtractionSchema{
		Name:        "Profile",
		Description: prompts.MustGet(promptFile, "profile-description"),
		Fields: []SchemaField{
			{Name: "name", Description: "Full name of the person"},
			{Name: "headline", Description: "Their job title or headline"},
			experienceField,
			educationField,
		},
		Rules:      prompts.MustGet(promptFile, "experience-rules"),
		InputLabel: "Page text",
	}
}

// ResumeSchema returns the extraction schema for pasted resume text.
func ResumeSchema() ExtractionSchema {
	return ExtractionSchema{
		Name:        "Resume",
		Description: prompts.MustGet(promptFile, "resume-description"),
		Fields:      []SchemaField{experienceField, educationField},
		Rules:       prompts.MustGet(promptFile, "experience-rules"),
		InputLabel:  "Resume",
	}
}
