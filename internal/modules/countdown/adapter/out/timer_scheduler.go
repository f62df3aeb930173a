package out

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	countdownout "thresholdtimer/internal/modules/countdown/port/out"
	"thresholdtimer/internal/platform/clock"
)

// Notifier shows a notification right away.
type Notifier interface {
	Available(ctx context.Context) error
	Notify(ctx context.Context, title, body string) error
}

// TimerScheduler holds pending notifications in process, one timer per id,
// and hands each to its Notifier when due.
type TimerScheduler struct {
	clock    clock.Clock
	notifier Notifier
	logger   *zap.Logger
	timeout  time.Duration

	mu      sync.Mutex
	seq     uint64
	pending map[string]pendingNotification
}

type pendingNotification struct {
	seq   uint64
	timer clock.Timer
}

func NewTimerScheduler(clk clock.Clock, notifier Notifier, logger *zap.Logger) *TimerScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimerScheduler{
		clock:    clk,
		notifier: notifier,
		logger:   logger.Named("notify"),
		timeout:  5 * time.Second,
		pending:  map[string]pendingNotification{},
	}
}

var _ countdownout.NotificationScheduler = (*TimerScheduler)(nil)

func (s *TimerScheduler) Authorize(ctx context.Context) (bool, error) {
	if err := s.notifier.Available(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (s *TimerScheduler) Schedule(_ context.Context, id string, fireAfter time.Duration, title, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.pending[id]; ok {
		prev.timer.Stop()
	}
	s.seq++
	seq := s.seq
	timer := s.clock.AfterFunc(fireAfter, func() { s.fire(id, seq, title, body) })
	s.pending[id] = pendingNotification{seq: seq, timer: timer}
	return nil
}

func (s *TimerScheduler) Cancel(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.pending[id]; ok {
		prev.timer.Stop()
		delete(s.pending, id)
	}
	return nil
}

// Pending reports whether a notification is waiting under id.
func (s *TimerScheduler) Pending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[id]
	return ok
}

func (s *TimerScheduler) fire(id string, seq uint64, title, body string) {
	s.mu.Lock()
	current, ok := s.pending[id]
	if !ok || current.seq != seq {
		s.mu.Unlock()
		return
	}
	delete(s.pending, id)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.notifier.Notify(ctx, title, body); err != nil {
		s.logger.Warn("deliver notification", zap.String("id", id), zap.Error(err))
	}
}
