package crawl

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/slokaweb/versefetch"
)

var _ versefetch.Delayer = (*Jitter)(nil)
var _ versefetch.Delayer = NoDelay{}

// Jitter sleeps a uniformly random duration in [Min, Max) before each
// request, so a run never hits the server in a regular rhythm.
type Jitter struct {
	Min time.Duration
	Max time.Duration
}

// FrameJitter is the pause preceding each frame fetch within a page.
func FrameJitter() Jitter {
	return Jitter{Min: 500 * time.Millisecond, Max: 1500 * time.Millisecond}
}

// ChapterJitter is the politeness pause preceding each chapter fetch.
func ChapterJitter() Jitter {
	return Jitter{Min: 1 * time.Second, Max: 2 * time.Second}
}

// Wait blocks for the drawn duration or until the context is canceled.
func (j Jitter) Wait(ctx context.Context) error {
	d := j.Min
	if j.Max > j.Min {
		d += rand.N(j.Max - j.Min)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// NoDelay is a Delayer that never waits. Tests inject it to run the
// pipeline at full speed without altering its logic.
type NoDelay struct{}

// Wait returns immediately.
func (NoDelay) Wait(ctx context.Context) error {
	return ctx.Err()
}
