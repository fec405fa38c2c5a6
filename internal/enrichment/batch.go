package enrichment

import (
	"context"
	"strings"
	"sync"

	"github.com/jonathan/network-overlap/internal/logger"
	"github.com/jonathan/network-overlap/internal/types"
	"go.uber.org/zap"
)

// Progress phases
const (
	PhaseStarted  = "started"
	PhaseFinished = "finished"
)

// ProgressEvent reports one step of a batch.
type ProgressEvent struct {
	Phase     string          `json:"phase"`
	Index     int             `json:"index"` // 1-based
	Total     int             `json:"total"`
	Colleague types.PersonRef `json:"colleague"`
	State     State           `json:"state,omitempty"`
	Count     int             `json:"count,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// ProgressCallback receives batch progress.
type ProgressCallback func(event ProgressEvent)

// BatchOptions configures EnrichAll.
type BatchOptions struct {
	// IncludeEnriched re-enriches colleagues that already have a history.
	IncludeEnriched bool
	OnProgress      ProgressCallback
}

// BatchSummary is the aggregate outcome of a batch.
type BatchSummary struct {
	Total     int  `json:"total"`
	Attempted int  `json:"attempted"`
	Completed int  `json:"completed"`
	Failed    int  `json:"failed"`
	Cancelled bool `json:"cancelled"`
}

// EnrichAll enriches colleagues one after another. Cancelling ctx stops the
// batch before the next colleague starts; the colleague in flight finishes.
// A failed colleague is logged and the batch moves on.
func (p *Pipeline) EnrichAll(ctx context.Context, opts BatchOptions) (*BatchSummary, error) {
	colleagues, err := p.store.ListColleagues(ctx)
	if err != nil {
		return nil, err
	}

	targets := make([]types.Colleague, 0, len(colleagues))
	for _, c := range colleagues {
		if strings.TrimSpace(c.ProfileURL) == "" {
			continue
		}
		if c.Enriched() && !opts.IncludeEnriched {
			continue
		}
		targets = append(targets, c)
	}

	summary := &BatchSummary{Total: len(targets)}
	emit := func(event ProgressEvent) {
		if opts.OnProgress != nil {
			opts.OnProgress(event)
		}
	}

	p.logger.Info("batch started", zap.Int("total", summary.Total), zap.Bool("include_enriched", opts.IncludeEnriched))
	for i, colleague := range targets {
		if ctx.Err() != nil {
			summary.Cancelled = true
			break
		}

		ref := colleague.Ref()
		emit(ProgressEvent{Phase: PhaseStarted, Index: i + 1, Total: summary.Total, Colleague: ref})
		summary.Attempted++

		result, err := p.Enrich(ctx, colleague.ID)
		event := ProgressEvent{Phase: PhaseFinished, Index: i + 1, Total: summary.Total, Colleague: ref}
		if result != nil {
			event.State = result.State
			event.Count = result.Count
		}
		if err != nil {
			summary.Failed++
			event.Error = err.Error()
			p.logger.Warn("batch item failed",
				zap.String(logger.FieldColleagueID, colleague.ID.String()),
				zap.Int("index", i+1),
				zap.Error(err),
			)
		} else {
			summary.Completed++
		}
		emit(event)
	}

	p.logger.Info("batch finished",
		zap.Int("attempted", summary.Attempted),
		zap.Int("completed", summary.Completed),
		zap.Int("failed", summary.Failed),
		zap.Bool("cancelled", summary.Cancelled),
	)
	return summary, nil
}

// BatchEnricher runs a batch enrichment. *Pipeline implements it.
type BatchEnricher interface {
	EnrichAll(ctx context.Context, opts BatchOptions) (*BatchSummary, error)
}

// BatchRunner allows one batch at a time and lets another caller cancel it.
type BatchRunner struct {
	mu     sync.Mutex
	cancel context.CancelFunc
}

// Run starts a batch derived from ctx, or fails with ErrBatchRunning.
func (r *BatchRunner) Run(ctx context.Context, p BatchEnricher, opts BatchOptions) (*BatchSummary, error) {
	r.mu.Lock()
	if r.cancel != nil {
		r.mu.Unlock()
		return nil, ErrBatchRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.cancel = nil
		r.mu.Unlock()
		cancel()
	}()

	return p.EnrichAll(ctx, opts)
}

// Cancel stops the running batch after its current item. It reports whether a batch was running.
func (r *BatchRunner) Cancel() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel == nil {
		return false
	}
	r.cancel()
	return true
}

// Running reports whether a batch is in progress.
func (r *BatchRunner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}
