package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, DefaultModel, config.ModelName())
	assert.Equal(t, DefaultTemperature, config.Temperature)
}

func TestDefaultVertexConfig(t *testing.T) {
	config := DefaultVertexConfig("my-project", "europe-west4")

	assert.Equal(t, ProviderVertex, config.Provider)
	assert.Equal(t, "my-project", config.Project)
	assert.Equal(t, "europe-west4", config.Location)
	assert.Equal(t, DefaultModel, config.ModelName())
}

func TestModelName_Unset(t *testing.T) {
	assert.Equal(t, DefaultModel, (&Config{Provider: ProviderGemini}).ModelName())

	var nilConfig *Config
	assert.Equal(t, DefaultModel, nilConfig.ModelName())
}

func TestWithModel(t *testing.T) {
	config := DefaultVertexConfig("p", "us-central1")
	custom := config.WithModel("custom-model")

	// Original should be unchanged
	assert.Equal(t, DefaultModel, config.ModelName())

	assert.Equal(t, "custom-model", custom.ModelName())
	assert.Equal(t, "p", custom.Project)
	assert.Equal(t, ProviderVertex, custom.Provider)

	assert.Equal(t, DefaultModel, config.WithModel("").ModelName())
}
