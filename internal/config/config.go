// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Supported AI providers
const (
	ProviderGemini = "gemini"
	ProviderVertex = "vertex"
)

// Config represents the process configuration. It can be loaded from a JSON
// file and overlaid with environment variables; all fields are optional.
type Config struct {
	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	// AI
	APIKey         string `json:"api_key,omitempty"`         // Gemini API key, overrides the stored setting
	Model          string `json:"model,omitempty"`           // Model name, overrides the stored setting
	Provider       string `json:"provider,omitempty"`        // gemini or vertex
	VertexProject  string `json:"vertex_project,omitempty"`  // GCP project for the vertex provider
	VertexLocation string `json:"vertex_location,omitempty"` // GCP region for the vertex provider

	// Server
	Port int `json:"port,omitempty"`

	// Browser
	ChromePath string `json:"chrome_path,omitempty"` // Chrome/Chromium executable, auto-detected when empty
	Headless   *bool  `json:"headless,omitempty"`

	// Logging
	JSONLogs bool `json:"json_logs,omitempty"`
	Debug    bool `json:"debug,omitempty"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	headless := true
	return Config{
		Provider:       ProviderGemini,
		VertexLocation: "us-central1",
		Port:           8080,
		Headless:       &headless,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads configuration from environment variables using getenv.
// Unset variables leave the corresponding field empty.
func FromEnv(getenv func(string) string) Config {
	cfg := Config{
		DatabaseURL:    getenv("DATABASE_URL"),
		APIKey:         firstNonEmpty(getenv("GOOGLE_GENERATIVE_AI_API_KEY"), getenv("GEMINI_API_KEY")),
		Model:          getenv("AI_MODEL"),
		Provider:       strings.ToLower(getenv("AI_PROVIDER")),
		VertexProject:  getenv("VERTEX_PROJECT"),
		VertexLocation: getenv("VERTEX_LOCATION"),
		ChromePath:     getenv("CHROME_PATH"),
		JSONLogs:       parseBool(getenv("LOG_JSON")),
		Debug:          parseBool(getenv("DEBUG")),
	}

	if port, err := strconv.Atoi(getenv("PORT")); err == nil {
		cfg.Port = port
	}
	if v := getenv("HEADLESS"); v != "" {
		headless := parseBool(v)
		cfg.Headless = &headless
	}

	return cfg
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	switch c.Provider {
	case "", ProviderGemini:
	case ProviderVertex:
		if c.VertexProject == "" {
			return fmt.Errorf("config error: 'vertex_project' is required for the vertex provider")
		}
	default:
		return fmt.Errorf("config error: unknown provider %q", c.Provider)
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}

	if c.ChromePath != "" {
		if _, err := os.Stat(c.ChromePath); os.IsNotExist(err) {
			return fmt.Errorf("config error: chrome executable not found: %s", c.ChromePath)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// Environment values are merged over file values the same way.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.VertexProject == "" {
		result.VertexProject = defaults.VertexProject
	}
	if result.VertexLocation == "" {
		result.VertexLocation = defaults.VertexLocation
	}
	if result.ChromePath == "" {
		result.ChromePath = defaults.ChromePath
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Pointer fields: use default if unset
	if result.Headless == nil {
		result.Headless = defaults.Headless
	}

	// Bool fields: either side enabling wins
	result.JSONLogs = result.JSONLogs || defaults.JSONLogs
	result.Debug = result.Debug || defaults.Debug

	return result
}

// IsHeadless reports whether the browser should run without a window.
func (c *Config) IsHeadless() bool {
	return c.Headless == nil || *c.Headless
}

// Load resolves the effective configuration: environment over the optional
// config file over Defaults.
func Load(path string, getenv func(string) string) (*Config, error) {
	base := Defaults()
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		base = fileCfg.MergeWithDefaults(base)
	}

	env := FromEnv(getenv)
	merged := env.MergeWithDefaults(base)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
