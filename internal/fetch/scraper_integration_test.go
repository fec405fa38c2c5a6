//go:build integration

package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findChrome(t *testing.T) string {
	t.Helper()
	if p := os.Getenv("CHROME_PATH"); p != "" {
		return p
	}
	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if p, err := exec.LookPath(name); err == nil {
			return p
		}
	}
	t.Skip("no Chrome or Chromium found")
	return ""
}

func fastScrapeConfig() ScrapeConfig {
	cfg := DefaultScrapeConfig()
	cfg.CookieDomain = "127.0.0.1"
	cfg.CookieSecure = false
	cfg.PageTimeout = 30 * time.Second
	cfg.SettleDelay = 100 * time.Millisecond
	cfg.ScrollInterval = 10 * time.Millisecond
	cfg.PostScrollDelay = 10 * time.Millisecond
	cfg.MaxScrollSteps = 3
	return cfg
}

func TestProfileScraper_Fetch(t *testing.T) {
	chrome := findChrome(t)

	body := strings.Repeat("Worked at Shopify as Staff Engineer. ", 10)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" {
			_, _ = w.Write([]byte("<html><body>Sign in</body></html>"))
			return
		}
		if r.URL.Path == "/in/expired" {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		_, _ = w.Write([]byte("<html><body><nav>Nav</nav><main><h1>Jane Doe</h1><p>" + body + "</p></main></body></html>"))
	}))
	defer server.Close()

	cfg := DefaultBrowserConfig()
	cfg.ExecPath = chrome
	manager := NewBrowserManager(cfg, nil)
	defer func() { _ = manager.Close() }()

	scraper := NewProfileScraper(manager, fastScrapeConfig(), nil)

	page, err := scraper.Fetch(context.Background(), server.URL+"/in/jane", "cookie")
	require.NoError(t, err)
	assert.Contains(t, page.Text, "Jane Doe")
	assert.NotContains(t, page.Text, "Nav")
	assert.False(t, page.FromFallback)

	_, err = scraper.Fetch(context.Background(), server.URL+"/in/expired", "cookie")
	require.ErrorIs(t, err, ErrSessionExpired)

	// The browser is reused across fetches
	assert.Equal(t, 1, manager.Launches())

	manager.Invalidate()
	_, err = scraper.Fetch(context.Background(), server.URL+"/in/jane", "cookie")
	require.NoError(t, err)
	assert.Equal(t, 2, manager.Launches())
}

func TestProfileScraper_EmptyCookie(t *testing.T) {
	scraper := NewProfileScraper(NewBrowserManager(DefaultBrowserConfig(), nil), fastScrapeConfig(), nil)
	_, err := scraper.Fetch(context.Background(), "https://www.linkedin.com/in/jane", "")
	require.ErrorIs(t, err, ErrSessionExpired)
}
