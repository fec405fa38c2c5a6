// Package llm provides LLM configuration and client abstractions over the
// Gemini API and Vertex AI.
package llm

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Gemini API, authenticated with an API key
	ProviderGemini Provider = "gemini"
	// ProviderVertex is Vertex AI, authenticated with application default credentials
	ProviderVertex Provider = "vertex"
)

// DefaultModel is the model used for extraction when no override is configured.
const DefaultModel = "gemini-2.5-flash"

// DefaultTemperature keeps extraction output close to deterministic.
const DefaultTemperature float32 = 0.1

// Config selects the provider and model for extraction calls.
type Config struct {
	Provider    Provider
	Model       string
	Temperature float32

	// Vertex AI only
	Project  string
	Location string
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderGemini,
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
	}
}

// DefaultVertexConfig returns a Vertex AI configuration with the default model.
func DefaultVertexConfig(project, location string) *Config {
	cfg := DefaultConfig()
	cfg.Provider = ProviderVertex
	cfg.Project = project
	cfg.Location = location
	return cfg
}

// ModelName returns the configured model, or DefaultModel when unset.
func (c *Config) ModelName() string {
	if c == nil || c.Model == "" {
		return DefaultModel
	}
	return c.Model
}

// WithModel returns a copy of c using model. An empty model keeps the current one.
func (c *Config) WithModel(model string) *Config {
	cp := *c
	if model != "" {
		cp.Model = model
	}
	return &cp
}
