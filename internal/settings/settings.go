// Package settings exposes the runtime-mutable key-value settings with typed
// accessors and defaults.
package settings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/network-overlap/internal/llm"
)

// Setting keys
const (
	KeySessionCookie  = "li_at_cookie"
	KeyRateLimitMS    = "rate_limit_ms"
	KeyAPIKey         = "gemini_api_key"
	KeyModel          = "ai_model"
	KeyCurrentCompany = "current_company"
)

// Defaults are seeded into an empty store and used when a key is missing.
var Defaults = map[string]string{
	KeyCurrentCompany: "Shopify",
	KeySessionCookie:  "",
	KeyRateLimitMS:    "2000",
	KeyAPIKey:         "",
	KeyModel:          llm.DefaultModel,
}

// ErrInvalidValue is returned by Set for a key or value that cannot be stored.
var ErrInvalidValue = errors.New("invalid setting")

// DefaultRateLimit applies when rate_limit_ms is missing or invalid.
const DefaultRateLimit = 2 * time.Second

// KV is the persistent key-value store behind the settings.
type KV interface {
	GetSetting(ctx context.Context, key string) (string, bool, error)
	SetSetting(ctx context.Context, key, value string) error
	ListSettings(ctx context.Context) (map[string]string, error)
}

// Overrides are process-level values that win over stored settings.
type Overrides struct {
	APIKey string
	Model  string
}

// ChangeFunc is called after a setting is written.
type ChangeFunc func(key, value string)

// Service reads and writes settings.
type Service struct {
	kv        KV
	overrides Overrides

	mu        sync.Mutex
	listeners []ChangeFunc
}

// NewService creates a settings service.
func NewService(kv KV, overrides Overrides) *Service {
	return &Service{kv: kv, overrides: overrides}
}

// OnChange registers fn to run after every Set.
func (s *Service) OnChange(fn ChangeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// OnSessionChange registers fn to run after the session cookie is written.
func (s *Service) OnSessionChange(fn func()) {
	s.OnChange(func(key, _ string) {
		if key == KeySessionCookie {
			fn()
		}
	})
}

// Get returns the stored value or the default for key.
func (s *Service) Get(ctx context.Context, key string) (string, error) {
	value, ok, err := s.kv.GetSetting(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to read setting %q: %w", key, err)
	}
	if !ok {
		return Defaults[key], nil
	}
	return value, nil
}

// Set writes a setting and notifies listeners.
func (s *Service) Set(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: key is empty", ErrInvalidValue)
	}
	if key == KeyRateLimitMS {
		if _, err := parseRateLimit(value); err != nil {
			return err
		}
	}
	if err := s.kv.SetSetting(ctx, key, value); err != nil {
		return fmt.Errorf("failed to write setting %q: %w", key, err)
	}

	s.mu.Lock()
	listeners := append([]ChangeFunc(nil), s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(key, value)
	}
	return nil
}

// All returns every setting, with defaults filled in for missing keys.
func (s *Service) All(ctx context.Context) (map[string]string, error) {
	stored, err := s.kv.ListSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	out := make(map[string]string, len(stored)+len(Defaults))
	for k, v := range Defaults {
		out[k] = v
	}
	for k, v := range stored {
		out[k] = v
	}
	return out, nil
}

// Keys returns the keys of m in sorted order.
func Keys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SessionCookie returns the stored session cookie, trimmed.
func (s *Service) SessionCookie(ctx context.Context) (string, error) {
	v, err := s.Get(ctx, KeySessionCookie)
	return strings.TrimSpace(v), err
}

// RateLimitDelay returns the minimum spacing between fetches.
// Invalid stored values fall back to DefaultRateLimit.
func (s *Service) RateLimitDelay(ctx context.Context) (time.Duration, error) {
	v, err := s.Get(ctx, KeyRateLimitMS)
	if err != nil {
		return 0, err
	}
	d, err := parseRateLimit(v)
	if err != nil {
		return DefaultRateLimit, nil
	}
	return d, nil
}

// AICredential returns the AI API key. The process override wins.
func (s *Service) AICredential(ctx context.Context) (string, error) {
	if s.overrides.APIKey != "" {
		return s.overrides.APIKey, nil
	}
	v, err := s.Get(ctx, KeyAPIKey)
	return strings.TrimSpace(v), err
}

// AIModel returns the model name. The process override wins.
func (s *Service) AIModel(ctx context.Context) (string, error) {
	if s.overrides.Model != "" {
		return s.overrides.Model, nil
	}
	v, err := s.Get(ctx, KeyModel)
	return strings.TrimSpace(v), err
}

// CompanyFilter returns the lowercased import filter. Empty means import everything.
func (s *Service) CompanyFilter(ctx context.Context) (string, error) {
	v, err := s.Get(ctx, KeyCurrentCompany)
	return strings.ToLower(strings.TrimSpace(v)), err
}

func parseRateLimit(v string) (time.Duration, error) {
	ms, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || ms <= 0 {
		return 0, fmt.Errorf("%w: %s %q must be a positive integer", ErrInvalidValue, KeyRateLimitMS, v)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
