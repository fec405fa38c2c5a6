package enrichment

import (
	"context"
	"sync"
	"time"
)

// DefaultDelay is the minimum spacing between two fetches.
const DefaultDelay = 2 * time.Second

// Pacer spaces out fetches process-wide. It keeps a single watermark of the
// last fetch start; the read, sleep and write happen under one lock, so
// concurrent callers queue up instead of racing the watermark.
type Pacer struct {
	mu    sync.Mutex
	last  time.Time
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPacer creates a pacer with no fetch recorded yet.
func NewPacer() *Pacer {
	return &Pacer{now: time.Now, sleep: sleepCtx}
}

// Wait blocks until delay has passed since the previous call returned, then
// records the current time. It returns how long it slept.
func (p *Pacer) Wait(ctx context.Context, delay time.Duration) (time.Duration, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var waited time.Duration
	if !p.last.IsZero() {
		if remaining := delay - p.now().Sub(p.last); remaining > 0 {
			if err := p.sleep(ctx, remaining); err != nil {
				return 0, err
			}
			waited = remaining
		}
	}
	p.last = p.now()
	return waited, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
