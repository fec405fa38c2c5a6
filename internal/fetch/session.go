package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultFeedURL is an authenticated-only page used to probe the session.
const DefaultFeedURL = "https://www.linkedin.com/feed/"

// SessionChecker probes whether a session cookie is still accepted without
// starting a browser.
type SessionChecker struct {
	FeedURL    string
	CookieName string
	UserAgent  string
	client     *http.Client
}

// NewSessionChecker creates a checker that never follows redirects, so a
// bounce to the login page is observed as a non-200 status.
func NewSessionChecker(timeout time.Duration) *SessionChecker {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &SessionChecker{
		FeedURL:    DefaultFeedURL,
		CookieName: "li_at",
		UserAgent:  DefaultUserAgent,
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Check reports whether cookie is accepted. An empty cookie is never valid.
func (c *SessionChecker) Check(ctx context.Context, cookie string) (bool, error) {
	cookie = strings.TrimSpace(cookie)
	if cookie == "" {
		return false, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.FeedURL, nil)
	if err != nil {
		return false, &Error{URL: c.FeedURL, Message: "invalid URL", Cause: err}
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.AddCookie(&http.Cookie{Name: c.CookieName, Value: cookie})

	resp, err := c.client.Do(req)
	if err != nil {
		return false, &Error{URL: c.FeedURL, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode >= 300 && resp.StatusCode < 500:
		return false, nil
	default:
		return false, &Error{URL: c.FeedURL, Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}
}
