package extraction

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/network-overlap/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

type fakeSource struct {
	key   string
	model string
	err   error
}

func (f *fakeSource) AICredential(context.Context) (string, error) { return f.key, f.err }
func (f *fakeSource) AIModel(context.Context) (string, error)      { return f.model, nil }

type fakeClient struct {
	mu       sync.Mutex
	response string
	errs     []error
	prompts  []string
	model    string
	closed   bool
}

func (c *fakeClient) GenerateJSON(_ context.Context, prompt string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, prompt)
	if len(c.errs) > 0 {
		err := c.errs[0]
		c.errs = c.errs[1:]
		if err != nil {
			return "", err
		}
	}
	return c.response, nil
}

func (c *fakeClient) Model() string { return c.model }
func (c *fakeClient) Close() error  { c.closed = true; return nil }

func newTestExtractor(source ConfigSource, client *fakeClient, opts ...Option) (*Extractor, *[]*llm.Config) {
	var configs []*llm.Config
	factory := func(_ context.Context, cfg *llm.Config, apiKey string) (llm.Client, error) {
		if cfg.Provider == llm.ProviderGemini && apiKey == "" {
			return nil, llm.ErrMissingAPIKey
		}
		configs = append(configs, cfg)
		client.model = cfg.ModelName()
		return client, nil
	}
	opts = append([]Option{
		WithClientFactory(factory),
		WithRetry(llm.RetryConfig{MaxRetries: 2, InitialWait: time.Millisecond, Multiplier: 1}),
	}, opts...)
	return New(nil, source, nil, opts...), &configs
}

func TestExtractProfile(t *testing.T) {
	client := &fakeClient{response: `{"name": "Jane", "headline": "Engineer", "experiences": [{"company_name": "Acme", "start_year": 2020}], "education": []}`}
	extractor, configs := newTestExtractor(&fakeSource{key: "k", model: "gemini-custom"}, client)

	profile, err := extractor.ExtractProfile(context.Background(), "Jane Doe\nEngineer at Acme")
	require.NoError(t, err)

	assert.Equal(t, "Jane", profile.Name)
	require.Len(t, profile.Experiences, 1)
	assert.Equal(t, "Acme", profile.Experiences[0].CompanyName)

	require.Len(t, *configs, 1)
	assert.Equal(t, "gemini-custom", (*configs)[0].ModelName())
	assert.True(t, client.closed)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "Page text:")
	assert.Contains(t, client.prompts[0], "Jane Doe\nEngineer at Acme")
}

func TestExtractResume_UsesResumeSchema(t *testing.T) {
	client := &fakeClient{response: `{"experiences": [], "education": []}`}
	extractor, _ := newTestExtractor(&fakeSource{key: "k"}, client)

	profile, err := extractor.ExtractResume(context.Background(), "resume body")
	require.NoError(t, err)
	assert.True(t, profile.Empty())
	assert.Contains(t, client.prompts[0], "Resume:")
}

func TestExtract_TruncatesInput(t *testing.T) {
	client := &fakeClient{response: `{}`}
	extractor, _ := newTestExtractor(&fakeSource{key: "k"}, client, WithMaxInputChars(10))

	_, err := extractor.ExtractProfile(context.Background(), strings.Repeat("é", 50))
	require.NoError(t, err)
	assert.Contains(t, client.prompts[0], strings.Repeat("é", 10)+"\n")
	assert.NotContains(t, client.prompts[0], strings.Repeat("é", 11))
}

func TestExtract_UnparseableResponseIsEmpty(t *testing.T) {
	client := &fakeClient{response: "Sorry, I cannot help with that."}
	extractor, _ := newTestExtractor(&fakeSource{key: "k"}, client)

	profile, err := extractor.ExtractProfile(context.Background(), "text")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.True(t, profile.Empty())
}

func TestExtract_RetriesTransientErrors(t *testing.T) {
	client := &fakeClient{
		response: `{"experiences": [{"company_name": "Acme"}]}`,
		errs:     []error{&googleapi.Error{Code: 503}, &googleapi.Error{Code: 429}},
	}
	extractor, _ := newTestExtractor(&fakeSource{key: "k"}, client)

	profile, err := extractor.ExtractProfile(context.Background(), "text")
	require.NoError(t, err)
	assert.Len(t, profile.Experiences, 1)
	assert.Len(t, client.prompts, 3)
}

func TestExtract_ProviderErrorIsSurfaced(t *testing.T) {
	client := &fakeClient{errs: []error{&googleapi.Error{Code: 400, Message: "bad request"}}}
	extractor, _ := newTestExtractor(&fakeSource{key: "k"}, client)

	profile, err := extractor.ExtractProfile(context.Background(), "text")
	assert.Nil(t, profile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Profile extraction failed")
}

func TestExtract_Timeout(t *testing.T) {
	client := &fakeClient{errs: []error{context.DeadlineExceeded}}
	extractor, _ := newTestExtractor(&fakeSource{key: "k"}, client, WithTimeout(time.Second))

	_, err := extractor.ExtractProfile(context.Background(), "text")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestExtract_MissingCredential(t *testing.T) {
	extractor, _ := newTestExtractor(&fakeSource{}, &fakeClient{})

	_, err := extractor.ExtractProfile(context.Background(), "text")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestExtract_SourceError(t *testing.T) {
	extractor, _ := newTestExtractor(&fakeSource{err: errors.New("db down")}, &fakeClient{})

	_, err := extractor.ExtractProfile(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", truncateRunes("abc", 5))
	assert.Equal(t, "ab", truncateRunes("abc", 2))
	assert.Equal(t, "abc", truncateRunes("abc", 0))
}
