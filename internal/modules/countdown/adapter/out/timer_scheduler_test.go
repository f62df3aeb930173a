package out

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"thresholdtimer/internal/platform/clock"
	apperrors "thresholdtimer/internal/platform/errors"
)

type delivered struct {
	title string
	body  string
}

type fakeNotifier struct {
	mu        sync.Mutex
	available error
	got       chan delivered
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{got: make(chan delivered, 4)}
}

func (f *fakeNotifier) Available(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.available
}

func (f *fakeNotifier) Notify(_ context.Context, title, body string) error {
	f.got <- delivered{title: title, body: body}
	return nil
}

func (f *fakeNotifier) expect(t *testing.T) delivered {
	t.Helper()
	select {
	case d := <-f.got:
		return d
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for notification")
		return delivered{}
	}
}

func (f *fakeNotifier) expectNone(t *testing.T) {
	t.Helper()
	select {
	case d := <-f.got:
		t.Fatalf("unexpected notification %+v", d)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestTimerSchedulerDeliversWhenDue(t *testing.T) {
	t.Parallel()
	clk := clock.NewFake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	notifier := newFakeNotifier()
	s := NewTimerScheduler(clk, notifier, nil)
	ctx := context.Background()

	if err := s.Schedule(ctx, "slot", 30*time.Second, "Timer finished", "Plank"); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	clk.Advance(29 * time.Second)
	notifier.expectNone(t)
	clk.Advance(time.Second)
	if d := notifier.expect(t); d.title != "Timer finished" || d.body != "Plank" {
		t.Fatalf("unexpected delivery %+v", d)
	}
	if s.Pending("slot") {
		t.Fatalf("delivered notification must not stay pending")
	}
}

func TestTimerSchedulerReplacesAndCancels(t *testing.T) {
	t.Parallel()
	clk := clock.NewFake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	notifier := newFakeNotifier()
	s := NewTimerScheduler(clk, notifier, nil)
	ctx := context.Background()

	_ = s.Schedule(ctx, "slot", 10*time.Second, "t", "first")
	_ = s.Schedule(ctx, "slot", 20*time.Second, "t", "second")
	if clk.Waiters() != 1 {
		t.Fatalf("replacement must stop the earlier timer, %d pending", clk.Waiters())
	}
	clk.Advance(20 * time.Second)
	if d := notifier.expect(t); d.body != "second" {
		t.Fatalf("expected replacement body, got %+v", d)
	}

	_ = s.Schedule(ctx, "slot", 5*time.Second, "t", "cancelled")
	if err := s.Cancel(ctx, "slot"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := s.Cancel(ctx, "slot"); err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	clk.Advance(time.Minute)
	notifier.expectNone(t)
}

func TestTimerSchedulerAuthorize(t *testing.T) {
	t.Parallel()
	notifier := newFakeNotifier()
	s := NewTimerScheduler(clock.NewFake(time.Now()), notifier, nil)
	if ok, err := s.Authorize(context.Background()); !ok || err != nil {
		t.Fatalf("expected authorized, got %v %v", ok, err)
	}
	notifier.available = apperrors.ErrPermissionDenied
	if ok, err := s.Authorize(context.Background()); ok || !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v %v", ok, err)
	}
}
