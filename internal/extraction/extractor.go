package extraction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/network-overlap/internal/llm"
	"github.com/jonathan/network-overlap/internal/logger"
	"go.uber.org/zap"
)

// Default limits for a single extraction call.
const (
	DefaultMaxInputChars = 30000
	DefaultTimeout       = 60 * time.Second
)

// ErrNotConfigured is returned when no AI credential is available.
var ErrNotConfigured = errors.New("AI API key not configured")

// ConfigSource resolves the AI credential and model at call time, so that
// settings changes apply without a restart.
type ConfigSource interface {
	AICredential(ctx context.Context) (string, error)
	AIModel(ctx context.Context) (string, error)
}

// ClientFactory creates an LLM client for one extraction call.
type ClientFactory func(ctx context.Context, cfg *llm.Config, apiKey string) (llm.Client, error)

// Extractor sends text to an LLM and decodes the structured response.
type Extractor struct {
	base          *llm.Config
	source        ConfigSource
	newClient     ClientFactory
	logger        *zap.Logger
	maxInputChars int
	timeout       time.Duration
	retry         llm.RetryConfig
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithClientFactory replaces the provider client constructor.
func WithClientFactory(f ClientFactory) Option {
	return func(e *Extractor) { e.newClient = f }
}

// WithTimeout sets the bound on one extraction call, retries included.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) { e.timeout = d }
}

// WithRetry sets the retry policy for provider calls.
func WithRetry(rc llm.RetryConfig) Option {
	return func(e *Extractor) { e.retry = rc }
}

// WithMaxInputChars sets how much input text is sent to the model.
func WithMaxInputChars(n int) Option {
	return func(e *Extractor) { e.maxInputChars = n }
}

// New creates an Extractor. base selects the provider and its default models.
func New(base *llm.Config, source ConfigSource, log *zap.Logger, opts ...Option) *Extractor {
	if base == nil {
		base = llm.DefaultConfig()
	}
	e := &Extractor{
		base:          base,
		source:        source,
		newClient:     llm.NewClient,
		logger:        logger.OrNop(log),
		maxInputChars: DefaultMaxInputChars,
		timeout:       DefaultTimeout,
		retry:         llm.DefaultRetryConfig,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractProfile extracts name, headline, employment and education from page text.
func (e *Extractor) ExtractProfile(ctx context.Context, pageText string) (*Profile, error) {
	return e.extract(ctx, llm.ProfileSchema(), pageText)
}

// ExtractResume extracts employment and education from resume text.
func (e *Extractor) ExtractResume(ctx context.Context, resumeText string) (*Profile, error) {
	return e.extract(ctx, llm.ResumeSchema(), resumeText)
}

// extract returns an error only when the provider could not be reached or
// answered with an error. An unparseable answer yields an empty Profile.
func (e *Extractor) extract(ctx context.Context, schema llm.ExtractionSchema, text string) (*Profile, error) {
	cfg, apiKey, err := e.resolveConfig(ctx)
	if err != nil {
		return nil, err
	}

	input := truncateRunes(text, e.maxInputChars)
	log := e.logger.With(append(logger.AIFields(string(cfg.Provider), cfg.ModelName()),
		zap.String("schema", schema.Name),
		zap.Int("input_chars", len([]rune(input))),
	)...)

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	client, err := e.newClient(ctx, cfg, apiKey)
	if err != nil {
		if errors.Is(err, llm.ErrMissingAPIKey) {
			return nil, ErrNotConfigured
		}
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			log.Warn("failed to close LLM client", zap.Error(cerr))
		}
	}()

	prompt := llm.BuildExtractionPrompt(schema, input)
	start := time.Now()
	response, err := llm.GenerateJSONWithRetry(ctx, client, prompt, e.retry)
	if err != nil {
		log.Error("extraction call failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return nil, fmt.Errorf("%s extraction failed: %w", schema.Name, err)
	}

	log.Debug("extraction response", zap.String("preview", logger.Truncate(response, 300)))

	profile, err := Decode(response)
	if err != nil {
		log.Warn("unparseable extraction response, treating as empty", zap.Error(err))
		return &Profile{}, nil
	}

	log.Info("extraction complete",
		zap.Int("experiences", len(profile.Experiences)),
		zap.Int("education", len(profile.Education)),
		zap.Int("dropped", profile.Dropped),
		zap.Duration("elapsed", time.Since(start)),
	)
	return profile, nil
}

func (e *Extractor) resolveConfig(ctx context.Context) (*llm.Config, string, error) {
	cfg := e.base
	if e.source == nil {
		return cfg, "", nil
	}

	model, err := e.source.AIModel(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve AI model: %w", err)
	}
	cfg = cfg.WithModel(model)

	apiKey, err := e.source.AICredential(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve AI credential: %w", err)
	}
	return cfg, apiKey, nil
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
