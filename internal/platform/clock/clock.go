package clock

import (
	"context"
	"time"
)

// Clock abstracts time to keep usecases and timing loops deterministic in tests.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done. It returns ctx.Err() when the
	// wait was cut short.
	Sleep(ctx context.Context, d time.Duration) error
	// AfterFunc runs f on its own goroutine once d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending AfterFunc call.
type Timer interface {
	// Stop prevents the call from running. It reports whether the call was
	// still pending.
	Stop() bool
}

type SystemClock struct{}

// Now keeps the monotonic reading so elapsed-time math survives wall clock steps.
func (SystemClock) Now() time.Time {
	return time.Now()
}

func (SystemClock) Sleep(ctx context.Context, d time.Duration) error {
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

func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
