// Package fetch loads authenticated profile pages in a shared headless browser
// and turns them into plain text.
package fetch

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultUserAgent is the desktop Chrome user agent presented to the target site.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// ErrSessionExpired means the session credential is missing or was rejected.
// Callers should ask the user to refresh it rather than retry.
var ErrSessionExpired = errors.New("session expired")

// Error represents an error while loading a page.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// authSegments are the leading path segments of the pages the target site
// redirects to when a session is not accepted.
var authSegments = map[string]bool{"login": true, "checkpoint": true, "authwall": true}

// IsAuthRedirect reports whether a post-navigation URL is a login or verification page.
// Only the leading path segment is compared, so profile slugs such as
// /in/login-expert/ never count.
func IsAuthRedirect(location string) bool {
	path := location
	if u, err := url.Parse(location); err == nil {
		path = u.Path
	}

	segments := strings.FieldsFunc(strings.ToLower(path), func(r rune) bool { return r == '/' })
	if len(segments) == 0 {
		return false
	}
	if authSegments[segments[0]] {
		return true
	}
	return segments[0] == "uas" && len(segments) > 1 && segments[1] == "login"
}

// ExtractMainText parses HTML and returns the readable text of the first
// element matching contentSelectors, falling back to the body.
// Scripts, styles and other noise are removed first.
func ExtractMainText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, svg, template, iframe").Remove()

	if len(noiseSelectors) > 0 {
		if noiseSelector := strings.Join(noiseSelectors, ", "); noiseSelector != "" {
			doc.Find(noiseSelector).Remove()
		}
	}

	var mainContent *goquery.Selection
	for _, selector := range contentSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			mainContent = selection.First()
			break
		}
	}

	if mainContent == nil {
		mainContent = doc.Find("body")
	}

	// Block elements are joined with newlines so entries do not run together
	mainContent.Find("br").ReplaceWithHtml("\n")
	mainContent.Find("p, div, li, section, h1, h2, h3, h4").AppendHtml("\n")

	return cleanWhitespace(mainContent.Text()), nil
}

// ProfileNoiseSelectors are page regions that never belong to the profile itself.
func ProfileNoiseSelectors() []string {
	return []string{
		"nav",
		"footer",
		"header.global-nav",
		"aside",
		".msg-overlay-list-bubble",
		".artdeco-toasts",
	}
}

// cleanWhitespace trims every line and drops empty ones.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
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
