package enrichment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/network-overlap/internal/extraction"
	"github.com/jonathan/network-overlap/internal/profileurl"
	"github.com/jonathan/network-overlap/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCandidate_CreatesOnce(t *testing.T) {
	tp := newTestPipeline("cookie", newFakeStore())

	first, err := tp.LookupCandidate(context.Background(), "linkedin.com/in/jane-doe/")
	require.NoError(t, err)
	assert.False(t, first.Existing)
	assert.Equal(t, "https://linkedin.com/in/jane-doe", first.Candidate.ProfileURL)
	assert.Equal(t, "Jane Doe", first.Candidate.Name)
	assert.Equal(t, types.SourceProfile, first.Candidate.Source)
	require.Len(t, first.Candidate.History, 2)
	assert.Equal(t, "Shopify", first.Candidate.History[0].CompanyName)
	assert.Equal(t, first.Candidate.ID, first.Candidate.History[0].PersonID)

	second, err := tp.LookupCandidate(context.Background(), "https://linkedin.com/in/jane-doe")
	require.NoError(t, err)
	assert.True(t, second.Existing)
	assert.Equal(t, first.Candidate.ID, second.Candidate.ID)
	assert.Len(t, tp.scraper.Calls(), 1, "a stored candidate is not fetched again")
}

func TestLookupCandidate_InvalidURL(t *testing.T) {
	tp := newTestPipeline("cookie", newFakeStore())

	_, err := tp.LookupCandidate(context.Background(), "https://example.com/jane")
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, profileurl.ErrInvalid)
	assert.Empty(t, tp.scraper.Calls())
}

func TestLookupCandidate_EmptyExtractionCreatesNothing(t *testing.T) {
	tp := newTestPipeline("cookie", newFakeStore())
	tp.extractor.profile = func(string) (*extraction.Profile, error) {
		return &extraction.Profile{Name: "Jane"}, nil
	}

	_, err := tp.LookupCandidate(context.Background(), "https://www.linkedin.com/in/jane")
	require.ErrorIs(t, err, ErrExtractionFailed)
	assert.Empty(t, tp.store.candidates)
}

func TestLookupCandidate_NoSession(t *testing.T) {
	tp := newTestPipeline("", newFakeStore())

	_, err := tp.LookupCandidate(context.Background(), "https://www.linkedin.com/in/jane")
	require.ErrorIs(t, err, ErrSessionExpired)
	assert.Empty(t, tp.store.candidates)
}

func TestCandidateFromResume(t *testing.T) {
	tp := newTestPipeline("", newFakeStore())

	candidate, err := tp.CandidateFromResume(context.Background(), "  Jane Q. Doe ", "resume text")
	require.NoError(t, err)
	assert.Equal(t, "Jane Q. Doe", candidate.Name)
	assert.Equal(t, types.SourceResume, candidate.Source)
	assert.Empty(t, candidate.ProfileURL)
	assert.NotEqual(t, uuid.Nil, candidate.ID)
	assert.Equal(t, fixedNow, candidate.CreatedAt)
	assert.Len(t, candidate.History, 2)
	assert.Empty(t, tp.scraper.Calls(), "resume candidates never touch the browser")

	fromExtraction, err := tp.CandidateFromResume(context.Background(), "", "resume text")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", fromExtraction.Name)
}

func TestCandidateFromResume_Errors(t *testing.T) {
	tp := newTestPipeline("", newFakeStore())

	_, err := tp.CandidateFromResume(context.Background(), "Jane", "   ")
	require.ErrorIs(t, err, ErrInvalidInput)

	tp.extractor.resume = func(string) (*extraction.Profile, error) {
		return &extraction.Profile{}, nil
	}
	_, err = tp.CandidateFromResume(context.Background(), "Jane", "resume")
	require.ErrorIs(t, err, ErrExtractionFailed)
	assert.Empty(t, tp.store.candidates)
}
