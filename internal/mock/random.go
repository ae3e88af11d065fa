// Package mock generates the canned, randomized payloads served by the
// chat and analytics endpoints. Nothing here is computed from real data.
package mock

import (
	"context"
	"math/rand/v2"
	"time"
)

// Rand is the subset of *rand.Rand the generators draw from.
type Rand interface {
	Float64() float64
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// Sleeper waits for d or until ctx is done, whichever comes first.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// TimerSleeper sleeps on a real timer.
type TimerSleeper struct{}

// Sleep blocks for d unless ctx is cancelled first.
func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NewSeeded returns a deterministic source for tests and reproducible demos.
func NewSeeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// timestampLayout matches JavaScript's Date.prototype.toISOString.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp renders t as an ISO-8601 UTC timestamp with milliseconds.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
