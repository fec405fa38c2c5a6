package enrichment

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/network-overlap/internal/extraction"
	"github.com/jonathan/network-overlap/internal/fetch"
	"github.com/jonathan/network-overlap/internal/types"
)

type fakeStore struct {
	mu         sync.Mutex
	colleagues []*types.Colleague
	replaced   map[uuid.UUID]types.ProfileUpdate
	candidates []*types.Candidate
}

func newFakeStore(colleagues ...*types.Colleague) *fakeStore {
	return &fakeStore{colleagues: colleagues, replaced: map[uuid.UUID]types.ProfileUpdate{}}
}

func (s *fakeStore) GetColleague(_ context.Context, id uuid.UUID) (*types.Colleague, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.colleagues {
		if c.ID == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) ListColleagues(_ context.Context) ([]types.Colleague, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Colleague, 0, len(s.colleagues))
	for _, c := range s.colleagues {
		out = append(out, *c)
	}
	return out, nil
}

func (s *fakeStore) ReplaceColleagueProfile(_ context.Context, id uuid.UUID, update types.ProfileUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaced[id] = update
	return nil
}

func (s *fakeStore) GetCandidateByURL(_ context.Context, profileURL string) (*types.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.candidates {
		if c.ProfileURL == profileURL {
			return c, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) CreateCandidate(_ context.Context, candidate *types.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates = append(s.candidates, candidate)
	return nil
}

type fakeSettings struct {
	cookie string
	delay  time.Duration
}

func (s fakeSettings) SessionCookie(context.Context) (string, error)         { return s.cookie, nil }
func (s fakeSettings) RateLimitDelay(context.Context) (time.Duration, error) { return s.delay, nil }

type fakeScraper struct {
	mu    sync.Mutex
	calls []string
	fetch func(ctx context.Context, pageURL string) (*fetch.Page, error)
}

func (s *fakeScraper) Fetch(ctx context.Context, pageURL, _ string) (*fetch.Page, error) {
	s.mu.Lock()
	s.calls = append(s.calls, pageURL)
	s.mu.Unlock()
	if s.fetch != nil {
		return s.fetch(ctx, pageURL)
	}
	return &fetch.Page{URL: pageURL, Text: "profile text for " + pageURL}, nil
}

func (s *fakeScraper) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

type fakeExtractor struct {
	mu      sync.Mutex
	calls   int
	profile func(text string) (*extraction.Profile, error)
	resume  func(text string) (*extraction.Profile, error)
}

func (e *fakeExtractor) ExtractProfile(_ context.Context, text string) (*extraction.Profile, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	if e.profile != nil {
		return e.profile(text)
	}
	return sampleProfile(), nil
}

func (e *fakeExtractor) ExtractResume(_ context.Context, text string) (*extraction.Profile, error) {
	if e.resume != nil {
		return e.resume(text)
	}
	return sampleProfile(), nil
}

func sampleProfile() *extraction.Profile {
	return &extraction.Profile{
		Name:     "Jane Doe",
		Headline: "Staff Engineer at Shopify",
		Experiences: []extraction.Experience{
			{CompanyName: "Shopify Inc.", Title: "Staff Engineer", StartYear: types.IntPtr(2019), StartMonth: types.IntPtr(3), IsCurrent: true},
			{CompanyName: "facebook", Title: "Engineer", StartYear: types.IntPtr(2015), EndYear: types.IntPtr(2019)},
		},
		Education: []extraction.Education{
			{SchoolName: "University of Waterloo", Degree: "BMath"},
		},
	}
}

func noSleepPacer() *Pacer {
	p := NewPacer()
	p.sleep = func(context.Context, time.Duration) error { return nil }
	return p
}

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type recorder struct {
	mu     sync.Mutex
	states map[string][]State
}

func newRecorder() *recorder {
	return &recorder{states: map[string][]State{}}
}

func (r *recorder) observe(subject string, state State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[subject] = append(r.states[subject], state)
}

func (r *recorder) of(subject string) []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.states[subject]...)
}

func newColleague(name, profileURL string) *types.Colleague {
	return &types.Colleague{ID: uuid.New(), Name: name, ProfileURL: profileURL}
}
