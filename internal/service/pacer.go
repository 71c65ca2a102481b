package service

import (
	"context"
	"time"
)

// Pacer introduces the fixed presentation delay between accepting an
// utterance and surfacing its result, decoupling perceived pacing from
// actual store latency. Tests inject a zero-delay pacer.
type Pacer interface {
	Pace(ctx context.Context) error
}

type fixedPacer struct {
	delay time.Duration
}

// NewFixedPacer returns a pacer that waits a fixed duration, aborting
// early if the context is canceled.
func NewFixedPacer(delay time.Duration) Pacer {
	return fixedPacer{delay: delay}
}

func (p fixedPacer) Pace(ctx context.Context) error {
	if p.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
