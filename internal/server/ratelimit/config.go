package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig builds the rate limiting configuration from environment
// variables read through getenv. A nil getenv reads the process environment.
func LoadConfig(getenv func(string) string) *Config {
	if getenv == nil {
		getenv = os.Getenv
	}
	env := envReader(getenv)
	if !env.bool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    env.int("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   env.duration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: env.duration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: Operations that drive the browser or the AI service (strictest limits).
		// The enrichment pipeline paces fetches itself; these only stop runaway clients.
		{Path: "/api/colleagues/", Method: "POST", Limit: 1200, Window: time.Hour, Burst: 20},
		{Path: "/api/candidates", Method: "POST", Limit: 120, Window: time.Hour, Burst: 10},
		{Path: "/api/candidates/resume", Method: "POST", Limit: 120, Window: time.Hour, Burst: 10},
		{Path: "/api/settings/test-linkedin", Method: "POST", Limit: 60, Window: time.Hour, Burst: 5},

		// Tier 2: Write operations (moderate limits)
		{Path: "/api/settings/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/colleagues/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/candidates/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},

		// Tier 3: Read operations (more lenient) - handled by default limit
		// Tier 4: Health check (unlimited) - handled by special case in matcher
	}
}

type envReader func(string) string

func (e envReader) int(key string, defaultValue int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(e(key))); err == nil {
		return v
	}
	return defaultValue
}

func (e envReader) bool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(strings.TrimSpace(e(key))); err == nil {
		return v
	}
	return defaultValue
}

func (e envReader) duration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(strings.TrimSpace(e(key))); err == nil && v > 0 {
		return v
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	if list == "" {
		return result
	}

	ips := strings.Split(list, ",")
	for _, ip := range ips {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}

	return result
}

