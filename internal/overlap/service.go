package overlap

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/network-overlap/internal/types"
	"go.uber.org/zap"
)

// ErrCandidateNotFound is returned when the requested candidate does not exist.
var ErrCandidateNotFound = errors.New("candidate not found")

// Source provides the subject and pool for overlap resolution.
type Source interface {
	// GetCandidate returns the candidate with its history, or nil if absent.
	GetCandidate(ctx context.Context, id uuid.UUID) (*types.Candidate, error)
	// ListColleaguePool returns every stored colleague employment period.
	ListColleaguePool(ctx context.Context) ([]types.PoolPeriod, error)
}

// Service answers "who in my network worked with this candidate".
type Service struct {
	source Source
	engine *Engine
	logger *zap.Logger
}

// NewService creates a Service. A nil engine uses the wall clock; a nil logger discards output.
func NewService(source Source, engine *Engine, logger *zap.Logger) *Service {
	if engine == nil {
		engine = NewEngine()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, engine: engine, logger: logger}
}

// ResolveOverlaps returns the ranked overlap facts for a stored candidate.
func (s *Service) ResolveOverlaps(ctx context.Context, candidateID uuid.UUID) ([]types.OverlapFact, error) {
	candidate, err := s.source.GetCandidate(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate: %w", err)
	}
	if candidate == nil {
		return nil, ErrCandidateNotFound
	}

	pool, err := s.source.ListColleaguePool(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load colleague pool: %w", err)
	}

	facts := s.engine.Resolve(candidate.History, pool)
	s.logger.Debug("resolved overlaps",
		zap.String("candidate_id", candidateID.String()),
		zap.Int("history", len(candidate.History)),
		zap.Int("pool", len(pool)),
		zap.Int("facts", len(facts)),
	)
	return facts, nil
}
