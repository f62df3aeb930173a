package out

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	thresholdout "thresholdtimer/internal/modules/threshold/port/out"
	"thresholdtimer/internal/platform/clock"
	apperrors "thresholdtimer/internal/platform/errors"
)

type seqID struct {
	mu sync.Mutex
	n  int
}

func (s *seqID) New() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("lease-%d", s.n)
}

type eventLog struct {
	ch chan thresholdout.GuardEvent
}

func newEventLog() *eventLog {
	return &eventLog{ch: make(chan thresholdout.GuardEvent, 8)}
}

func (e *eventLog) record(ev thresholdout.GuardEvent) { e.ch <- ev }

func (e *eventLog) next(t *testing.T) thresholdout.GuardEvent {
	t.Helper()
	select {
	case ev := <-e.ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for guard event")
		return 0
	}
}

func (e *eventLog) none(t *testing.T) {
	t.Helper()
	select {
	case ev := <-e.ch:
		t.Fatalf("unexpected guard event %s", ev)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestLeaseGuardWarnsThenInvalidates(t *testing.T) {
	t.Parallel()
	clk := clock.NewFake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	guard := NewLeaseGuard(clk, &seqID{}, nil, LeaseOptions{Enabled: true, Lease: time.Minute, ExpiryWarning: 10 * time.Second})
	events := newEventLog()

	handle, err := guard.Acquire(context.Background(), events.record)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if handle.ID() != "lease-1" {
		t.Fatalf("unexpected handle %q", handle.ID())
	}
	clk.Advance(50 * time.Second)
	if ev := events.next(t); ev != thresholdout.GuardWillExpire {
		t.Fatalf("expected will_expire, got %s", ev)
	}
	clk.Advance(10 * time.Second)
	if ev := events.next(t); ev != thresholdout.GuardInvalidated {
		t.Fatalf("expected invalidated, got %s", ev)
	}
	if guard.Active() != 0 {
		t.Fatalf("expired lease must be released")
	}
	guard.Invalidate(handle)
}

func TestLeaseGuardInvalidateCancelsEvents(t *testing.T) {
	t.Parallel()
	clk := clock.NewFake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	guard := NewLeaseGuard(clk, &seqID{}, nil, LeaseOptions{Enabled: true, Lease: time.Minute, ExpiryWarning: 10 * time.Second})
	events := newEventLog()

	handle, err := guard.Acquire(context.Background(), events.record)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	guard.Invalidate(handle)
	guard.Invalidate(handle)
	if clk.Waiters() != 0 {
		t.Fatalf("invalidate must stop lease timers, %d pending", clk.Waiters())
	}
	clk.Advance(2 * time.Minute)
	events.none(t)
}

func TestLeaseGuardDisabledDenies(t *testing.T) {
	t.Parallel()
	clk := clock.NewFake(time.Now())
	guard := NewLeaseGuard(clk, &seqID{}, nil, LeaseOptions{Enabled: false})
	if _, err := guard.Acquire(context.Background(), nil); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
}

func TestLeaseGuardRevokeDeliversInvalidated(t *testing.T) {
	t.Parallel()
	clk := clock.NewFake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	guard := NewLeaseGuard(clk, &seqID{}, nil, LeaseOptions{Enabled: true, Lease: time.Hour, ExpiryWarning: 30 * time.Second})
	events := newEventLog()
	if _, err := guard.Acquire(context.Background(), events.record); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if n := guard.Revoke(); n != 1 {
		t.Fatalf("expected 1 revoked lease, got %d", n)
	}
	if ev := events.next(t); ev != thresholdout.GuardInvalidated {
		t.Fatalf("expected invalidated, got %s", ev)
	}
	clk.Advance(2 * time.Hour)
	events.none(t)
}
