// Package enrichment fetches profile pages for colleagues and candidates,
// extracts their employment history and persists it.
package enrichment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/network-overlap/internal/extraction"
	"github.com/jonathan/network-overlap/internal/fetch"
	"github.com/jonathan/network-overlap/internal/types"
)

// State is a step of a single enrichment.
type State string

// Enrichment states. PERSISTED, SESSION_EXPIRED and EXTRACTION_FAILED are terminal.
const (
	StateIdle             State = "IDLE"
	StateRateLimitedWait  State = "RATE_LIMITED_WAIT"
	StateFetching         State = "FETCHING"
	StateExtracting       State = "EXTRACTING"
	StatePersisted        State = "PERSISTED"
	StateSessionExpired   State = "SESSION_EXPIRED"
	StateExtractionFailed State = "EXTRACTION_FAILED"
)

// Terminal reports whether no further transition follows s.
func (s State) Terminal() bool {
	switch s {
	case StatePersisted, StateSessionExpired, StateExtractionFailed:
		return true
	}
	return false
}

var (
	// ErrSessionExpired means no session cookie is configured or the target
	// site rejected it. The user has to refresh the cookie; retrying will not help.
	ErrSessionExpired = errors.New("session expired")

	// ErrExtractionFailed means the page was fetched but no employment entry
	// could be extracted. Stored data is left untouched.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrNotFound means the colleague does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoProfileURL means the colleague has no profile URL to fetch.
	ErrNoProfileURL = errors.New("no profile URL")

	// ErrInvalidInput means a caller-supplied value was rejected.
	ErrInvalidInput = errors.New("invalid input")

	// ErrBatchRunning means another batch enrichment is in progress.
	ErrBatchRunning = errors.New("batch enrichment already running")
)

// Store is the record store used by the pipeline.
// Getters return nil, nil when the record does not exist.
type Store interface {
	GetColleague(ctx context.Context, id uuid.UUID) (*types.Colleague, error)
	ListColleagues(ctx context.Context) ([]types.Colleague, error)
	ReplaceColleagueProfile(ctx context.Context, id uuid.UUID, update types.ProfileUpdate) error
	GetCandidateByURL(ctx context.Context, profileURL string) (*types.Candidate, error)
	CreateCandidate(ctx context.Context, candidate *types.Candidate) error
}

// Settings supplies the runtime settings the pipeline reads on every call.
type Settings interface {
	SessionCookie(ctx context.Context) (string, error)
	RateLimitDelay(ctx context.Context) (time.Duration, error)
}

// Scraper loads a profile page with the session cookie attached.
type Scraper interface {
	Fetch(ctx context.Context, pageURL, cookie string) (*fetch.Page, error)
}

// Extractor turns text into a typed profile.
type Extractor interface {
	ExtractProfile(ctx context.Context, pageText string) (*extraction.Profile, error)
	ExtractResume(ctx context.Context, resumeText string) (*extraction.Profile, error)
}

// StateObserver is notified on every state transition. subject is the
// colleague ID or candidate URL being enriched.
type StateObserver func(subject string, state State)

// StateOf reports the terminal state an enrichment error corresponds to,
// or the empty state for errors that are not one of the two domain failures.
func StateOf(err error) State {
	switch {
	case errors.Is(err, ErrSessionExpired):
		return StateSessionExpired
	case errors.Is(err, ErrExtractionFailed):
		return StateExtractionFailed
	}
	return ""
}
