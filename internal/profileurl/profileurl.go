// Package profileurl validates and canonicalizes public profile URLs.
package profileurl

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalid is returned for anything that is not a linkedin.com/in/<handle> URL.
var ErrInvalid = errors.New("invalid LinkedIn URL. Expected format: linkedin.com/in/username")

var profilePattern = regexp.MustCompile(`(?i)^https?://(www\.)?linkedin\.com/in/[\w-]+/?$`)

// Valid reports whether raw is a profile URL with an explicit http(s) scheme.
func Valid(raw string) bool {
	return profilePattern.MatchString(strings.TrimSpace(raw))
}

// Normalize trims whitespace, adds https:// when no scheme is present and
// drops a trailing slash. It does not validate.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(strings.ToLower(s), "http") {
		s = "https://" + s
	}
	return strings.TrimSuffix(s, "/")
}

// Parse normalizes raw and returns it if the result is a valid profile URL.
func Parse(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrInvalid
	}
	normalized := Normalize(raw)
	if !Valid(normalized) {
		return "", ErrInvalid
	}
	return normalized, nil
}
