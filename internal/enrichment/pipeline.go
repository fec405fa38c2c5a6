package enrichment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/network-overlap/internal/company"
	"github.com/jonathan/network-overlap/internal/extraction"
	"github.com/jonathan/network-overlap/internal/fetch"
	"github.com/jonathan/network-overlap/internal/logger"
	"github.com/jonathan/network-overlap/internal/types"
	"go.uber.org/zap"
)

// Pipeline runs the fetch, extract and persist steps for one person at a time.
type Pipeline struct {
	store     Store
	settings  Settings
	scraper   Scraper
	extractor Extractor
	pacer     *Pacer
	logger    *zap.Logger
	now       func() time.Time
	observer  StateObserver

	// fetchMu makes pacing plus fetching one critical section; at most one
	// page is loaded at a time across every caller.
	fetchMu sync.Mutex
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPacer shares an existing pacer.
func WithPacer(p *Pacer) Option {
	return func(pl *Pipeline) { pl.pacer = p }
}

// WithClock overrides the clock used for enrichment timestamps.
func WithClock(now func() time.Time) Option {
	return func(pl *Pipeline) { pl.now = now }
}

// WithStateObserver registers a callback for state transitions.
func WithStateObserver(o StateObserver) Option {
	return func(pl *Pipeline) { pl.observer = o }
}

// NewPipeline creates a pipeline.
func NewPipeline(store Store, settings Settings, scraper Scraper, extractor Extractor, log *zap.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:     store,
		settings:  settings,
		scraper:   scraper,
		extractor: extractor,
		logger:    logger.OrNop(log).Named("enrichment"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.pacer == nil {
		p.pacer = NewPacer()
	}
	return p
}

// Result describes a finished enrichment. It is returned alongside the error
// too, so callers can always tell which state the run stopped in.
type Result struct {
	State    State  `json:"state"`
	Name     string `json:"name,omitempty"`
	Headline string `json:"headline,omitempty"`
	Count    int    `json:"count"`
}

// Enrich fetches the colleague's profile and replaces their stored employment
// history and education. Once started, the run is not interrupted by ctx.
func (p *Pipeline) Enrich(ctx context.Context, colleagueID uuid.UUID) (*Result, error) {
	ctx = context.WithoutCancel(ctx)
	subject := colleagueID.String()
	log := p.logger.With(zap.String(logger.FieldColleagueID, subject))

	colleague, err := p.store.GetColleague(ctx, colleagueID)
	if err != nil {
		return &Result{State: StateIdle}, fmt.Errorf("failed to load colleague: %w", err)
	}
	if colleague == nil {
		return &Result{State: StateIdle}, ErrNotFound
	}
	if strings.TrimSpace(colleague.ProfileURL) == "" {
		return &Result{State: StateIdle}, ErrNoProfileURL
	}

	profile, state, err := p.acquire(ctx, subject, colleague.ProfileURL)
	if err != nil {
		return &Result{State: state}, err
	}

	// An empty extraction must not clobber a previous good one
	if profile.Empty() {
		p.transition(subject, StateExtractionFailed)
		log.Warn("no employment entries extracted, keeping stored history", zap.Int("dropped", profile.Dropped))
		return &Result{State: StateExtractionFailed, Name: profile.Name}, ErrExtractionFailed
	}

	update := types.ProfileUpdate{
		Headline:   strings.TrimSpace(profile.Headline),
		Periods:    periodsFrom(profile, colleagueID),
		Education:  educationFrom(profile, colleagueID),
		EnrichedAt: p.now().UTC(),
	}
	if err := p.store.ReplaceColleagueProfile(ctx, colleagueID, update); err != nil {
		return &Result{State: StateExtracting}, fmt.Errorf("failed to persist profile: %w", err)
	}

	p.transition(subject, StatePersisted)
	log.Info("colleague enriched",
		zap.Int("periods", len(update.Periods)),
		zap.Int("education", len(update.Education)),
	)
	return &Result{
		State:    StatePersisted,
		Name:     profile.Name,
		Headline: update.Headline,
		Count:    len(update.Periods),
	}, nil
}

// acquire runs the session gate, pacing, fetch and extraction for one page.
// On failure it returns the state the run stopped in.
func (p *Pipeline) acquire(ctx context.Context, subject, profileURL string) (*extraction.Profile, State, error) {
	p.transition(subject, StateIdle)
	log := p.logger.With(zap.String(logger.FieldProfileURL, profileURL))

	cookie, err := p.settings.SessionCookie(ctx)
	if err != nil {
		return nil, StateIdle, fmt.Errorf("failed to read session cookie: %w", err)
	}
	if strings.TrimSpace(cookie) == "" {
		p.transition(subject, StateSessionExpired)
		return nil, StateSessionExpired, ErrSessionExpired
	}

	page, state, err := p.fetchPaced(ctx, subject, profileURL, cookie)
	if err != nil {
		if errors.Is(err, fetch.ErrSessionExpired) {
			p.transition(subject, StateSessionExpired)
			log.Warn("session rejected by target site")
			return nil, StateSessionExpired, fmt.Errorf("%w: %w", ErrSessionExpired, err)
		}
		log.Error("fetch failed", zap.Error(err))
		return nil, state, fmt.Errorf("failed to fetch profile: %w", err)
	}

	p.transition(subject, StateExtracting)
	profile, err := p.extractor.ExtractProfile(ctx, page.Text)
	if err != nil {
		log.Error("extraction failed", zap.Error(err))
		return nil, StateExtracting, fmt.Errorf("failed to extract profile: %w", err)
	}
	return profile, StateExtracting, nil
}

func (p *Pipeline) fetchPaced(ctx context.Context, subject, profileURL, cookie string) (*fetch.Page, State, error) {
	p.fetchMu.Lock()
	defer p.fetchMu.Unlock()

	p.transition(subject, StateRateLimitedWait)
	delay, err := p.settings.RateLimitDelay(ctx)
	if err != nil {
		return nil, StateRateLimitedWait, fmt.Errorf("failed to read rate limit: %w", err)
	}
	waited, err := p.pacer.Wait(ctx, delay)
	if err != nil {
		return nil, StateRateLimitedWait, err
	}
	if waited > 0 {
		p.logger.Debug("rate limited", zap.Duration("waited", waited))
	}

	p.transition(subject, StateFetching)
	page, err := p.scraper.Fetch(ctx, profileURL, cookie)
	return page, StateFetching, err
}

func (p *Pipeline) transition(subject string, state State) {
	p.logger.Debug("state", zap.String("subject", subject), zap.String(logger.FieldState, string(state)))
	if p.observer != nil {
		p.observer(subject, state)
	}
}

// periodsFrom converts extracted entries to stored periods with normalized company names.
func periodsFrom(profile *extraction.Profile, owner uuid.UUID) []types.EmploymentPeriod {
	periods := make([]types.EmploymentPeriod, 0, len(profile.Experiences))
	for _, exp := range profile.Experiences {
		period := exp.Period()
		period.ID = uuid.New()
		period.PersonID = owner
		period.CompanyName = company.Normalize(period.CompanyName)
		periods = append(periods, period)
	}
	return periods
}

func educationFrom(profile *extraction.Profile, owner uuid.UUID) []types.Education {
	records := make([]types.Education, 0, len(profile.Education))
	for _, edu := range profile.Education {
		record := edu.Record()
		record.ID = uuid.New()
		record.PersonID = owner
		records = append(records, record)
	}
	return records
}
