package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	genaisdk "google.golang.org/genai"
)

// VertexClient implements Client for Vertex AI using application default credentials.
type VertexClient struct {
	client *genaisdk.Client
	config *Config
}

// NewVertexClient creates a Vertex AI client for the configured project and location.
func NewVertexClient(ctx context.Context, config *Config) (*VertexClient, error) {
	if config.Project == "" {
		return nil, fmt.Errorf("vertex project is required")
	}

	client, err := genaisdk.NewClient(ctx, &genaisdk.ClientConfig{
		Project:  config.Project,
		Location: config.Location,
		Backend:  genaisdk.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}

	return &VertexClient{client: client, config: config}, nil
}

// GenerateJSON sends prompt and returns the cleaned JSON text.
func (c *VertexClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	name := c.config.ModelName()
	cfg := &genaisdk.GenerateContentConfig{
		Temperature:      genaisdk.Ptr(c.config.Temperature),
		ResponseMIMEType: jsonMIMEType,
	}

	resp, err := c.client.Models.GenerateContent(ctx, name, genaisdk.Text(prompt), cfg)
	if err != nil {
		return "", &APICallError{Provider: ProviderVertex, Model: name, Cause: err}
	}

	text, err := joinCandidateText(resp)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

func (c *VertexClient) Model() string {
	return c.config.ModelName()
}

// Close is a no-op; the underlying client holds no closable resources.
func (c *VertexClient) Close() error {
	return nil
}

func joinCandidateText(resp *genaisdk.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("empty response")
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Text == "" {
				continue
			}
			builder.WriteString(part.Text)
		}
		// Only the first candidate with content is used
		if builder.Len() > 0 {
			break
		}
	}

	if builder.Len() == 0 {
		return "", errors.New("no text parts in response")
	}
	return builder.String(), nil
}
