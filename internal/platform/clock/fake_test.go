package clock

import (
	"context"
	"testing"
	"time"
)

func TestFakeSleepReleasesOnAdvance(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clk := NewFake(start)

	done := make(chan error, 1)
	go func() { done <- clk.Sleep(context.Background(), time.Second) }()
	clk.BlockUntil(1)

	clk.Advance(999 * time.Millisecond)
	select {
	case err := <-done:
		t.Fatalf("sleep returned early: %v", err)
	default:
	}
	clk.Advance(time.Millisecond)
	if err := <-done; err != nil {
		t.Fatalf("sleep error: %v", err)
	}
	if got := clk.Now(); !got.Equal(start.Add(time.Second)) {
		t.Fatalf("expected now=%s, got %s", start.Add(time.Second), got)
	}
}

func TestFakeSleepCancelRemovesWaiter(t *testing.T) {
	t.Parallel()
	clk := NewFake(time.Unix(0, 0))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- clk.Sleep(ctx, time.Minute) }()
	clk.BlockUntil(1)
	cancel()
	if err := <-done; err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if n := clk.Waiters(); n != 0 {
		t.Fatalf("expected no pending waiters, got %d", n)
	}
}

func TestFakeAfterFuncOrderAndStop(t *testing.T) {
	t.Parallel()
	clk := NewFake(time.Unix(0, 0))
	fired := make(chan string, 3)

	clk.AfterFunc(2*time.Second, func() { fired <- "late" })
	clk.AfterFunc(time.Second, func() { fired <- "early" })
	stopped := clk.AfterFunc(time.Second, func() { fired <- "stopped" })
	if !stopped.Stop() {
		t.Fatalf("stop should report a pending timer")
	}
	if stopped.Stop() {
		t.Fatalf("second stop should report nothing pending")
	}

	clk.Advance(time.Second)
	if got := <-fired; got != "early" {
		t.Fatalf("expected early timer, got %s", got)
	}
	clk.Advance(time.Second)
	if got := <-fired; got != "late" {
		t.Fatalf("expected late timer, got %s", got)
	}
	select {
	case got := <-fired:
		t.Fatalf("unexpected timer fired: %s", got)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestSystemClockSleepHonoursCancel(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := (SystemClock{}).Sleep(ctx, time.Hour); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
