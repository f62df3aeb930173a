package clock

import (
	"context"
	"sync"
	"time"
)

// Fake is a manually driven Clock. Time only moves through Advance; sleepers
// and AfterFunc calls due within the advanced window are released in deadline
// order.
type Fake struct {
	mu      sync.Mutex
	cond    *sync.Cond
	now     time.Time
	seq     int
	waiters []*fakeWaiter
}

type fakeWaiter struct {
	seq int
	at  time.Time
	ch  chan struct{}
	fn  func()
}

func NewFake(start time.Time) *Fake {
	f := &Fake{now: start}
	f.cond = sync.NewCond(&f.mu)
	return f
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	w := f.add(d, nil)
	select {
	case <-w.ch:
		return nil
	case <-ctx.Done():
		f.remove(w)
		return ctx.Err()
	}
}

func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	return &fakeTimer{clock: f, waiter: f.add(d, fn)}
}

// Advance moves the clock forward by d, releasing every waiter whose deadline
// falls inside the window.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	target := f.now.Add(d)
	for {
		w := f.popDueLocked(target)
		if w == nil {
			break
		}
		if w.at.After(f.now) {
			f.now = w.at
		}
		if w.fn != nil {
			go w.fn()
		} else {
			close(w.ch)
		}
	}
	f.now = target
	f.cond.Broadcast()
}

// BlockUntil waits until at least n sleepers or timers are pending.
func (f *Fake) BlockUntil(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for len(f.waiters) < n {
		f.cond.Wait()
	}
}

// Waiters reports the number of pending sleepers and timers.
func (f *Fake) Waiters() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.waiters)
}

func (f *Fake) add(d time.Duration, fn func()) *fakeWaiter {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d < 0 {
		d = 0
	}
	f.seq++
	w := &fakeWaiter{seq: f.seq, at: f.now.Add(d), fn: fn}
	if fn == nil {
		w.ch = make(chan struct{})
	}
	f.waiters = append(f.waiters, w)
	f.cond.Broadcast()
	return w
}

func (f *Fake) remove(target *fakeWaiter) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, w := range f.waiters {
		if w == target {
			f.waiters = append(f.waiters[:i], f.waiters[i+1:]...)
			f.cond.Broadcast()
			return true
		}
	}
	return false
}

func (f *Fake) popDueLocked(target time.Time) *fakeWaiter {
	idx := -1
	for i, w := range f.waiters {
		if w.at.After(target) {
			continue
		}
		if idx < 0 || w.at.Before(f.waiters[idx].at) || (w.at.Equal(f.waiters[idx].at) && w.seq < f.waiters[idx].seq) {
			idx = i
		}
	}
	if idx < 0 {
		return nil
	}
	w := f.waiters[idx]
	f.waiters = append(f.waiters[:idx], f.waiters[idx+1:]...)
	return w
}

type fakeTimer struct {
	clock  *Fake
	waiter *fakeWaiter
}

func (t *fakeTimer) Stop() bool {
	return t.clock.remove(t.waiter)
}
