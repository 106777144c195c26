package services

import (
	"context"
	"time"
)

// Pacer enforces a minimum spacing between successive requests from one
// worker slot. It is a pacing control, not a lock: each slot passes its
// own last-request time, so the spacing is independent of how many
// slots run concurrently.
type Pacer struct {
	interval time.Duration
}

// NewPacer returns a pacer allowing at most requestsPerSecond requests
// per worker slot. Non-positive rates disable pacing.
func NewPacer(requestsPerSecond float64) *Pacer {
	if requestsPerSecond <= 0 {
		return &Pacer{}
	}
	return &Pacer{interval: time.Duration(float64(time.Second) / requestsPerSecond)}
}

// Wait blocks until at least the pacer interval has elapsed since last,
// or until ctx is cancelled.
func (p *Pacer) Wait(ctx context.Context, last time.Time) error {
	if p.interval <= 0 {
		return ctx.Err()
	}

	remaining := p.interval - time.Since(last)
	if remaining <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(remaining)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
