package enrichment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/network-overlap/internal/extraction"
	"github.com/jonathan/network-overlap/internal/logger"
	"github.com/jonathan/network-overlap/internal/profileurl"
	"github.com/jonathan/network-overlap/internal/types"
	"go.uber.org/zap"
)

// CandidateLookup is the outcome of LookupCandidate.
type CandidateLookup struct {
	Candidate *types.Candidate
	// Existing is true when the candidate was already stored and nothing was fetched.
	Existing bool
}

// LookupCandidate returns the candidate for a profile URL, fetching and
// storing it on first lookup. Repeated lookups of the same URL return the
// stored record.
func (p *Pipeline) LookupCandidate(ctx context.Context, rawURL string) (*CandidateLookup, error) {
	profileURL, err := profileurl.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	existing, err := p.store.GetCandidateByURL(ctx, profileURL)
	if err != nil {
		return nil, fmt.Errorf("failed to look up candidate: %w", err)
	}
	if existing != nil {
		return &CandidateLookup{Candidate: existing, Existing: true}, nil
	}

	ctx = context.WithoutCancel(ctx)
	profile, _, err := p.acquire(ctx, profileURL, profileURL)
	if err != nil {
		return nil, err
	}

	// Storing an empty candidate would make every later lookup return it
	if profile.Empty() {
		p.transition(profileURL, StateExtractionFailed)
		return nil, ErrExtractionFailed
	}

	candidate, err := p.createCandidate(ctx, profile, profile.Name, profileURL, types.SourceProfile)
	if err != nil {
		return nil, err
	}
	p.transition(profileURL, StatePersisted)
	return &CandidateLookup{Candidate: candidate}, nil
}

// CandidateFromResume extracts a candidate from resume text. No browser is involved.
// name overrides the extracted name when set.
func (p *Pipeline) CandidateFromResume(ctx context.Context, name, resumeText string) (*types.Candidate, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, fmt.Errorf("%w: resume text is empty", ErrInvalidInput)
	}

	ctx = context.WithoutCancel(ctx)
	profile, err := p.extractor.ExtractResume(ctx, resumeText)
	if err != nil {
		return nil, fmt.Errorf("failed to extract resume: %w", err)
	}
	if profile.Empty() {
		return nil, ErrExtractionFailed
	}

	if strings.TrimSpace(name) == "" {
		name = profile.Name
	}
	return p.createCandidate(ctx, profile, name, "", types.SourceResume)
}

func (p *Pipeline) createCandidate(ctx context.Context, profile *extraction.Profile, name, profileURL, source string) (*types.Candidate, error) {
	id := uuid.New()
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Unknown"
	}

	candidate := &types.Candidate{
		ID:         id,
		Name:       name,
		ProfileURL: profileURL,
		Source:     source,
		CreatedAt:  p.now().UTC(),
		History:    periodsFrom(profile, id),
		Education:  educationFrom(profile, id),
	}
	if err := p.store.CreateCandidate(ctx, candidate); err != nil {
		return nil, fmt.Errorf("failed to store candidate: %w", err)
	}

	p.logger.Info("candidate created",
		zap.String(logger.FieldCandidateID, id.String()),
		zap.String("source", source),
		zap.Int("periods", len(candidate.History)),
	)
	return candidate, nil
}
