package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"thresholdtimer/internal/modules/threshold/domain"
	thresholdout "thresholdtimer/internal/modules/threshold/port/out"
	"thresholdtimer/internal/platform/alert"
	"thresholdtimer/internal/platform/clock"
	apperrors "thresholdtimer/internal/platform/errors"
	"thresholdtimer/internal/platform/observe"
)

type Options struct {
	// DebounceFloor is the shortest debounce recheck. Zero selects domain.DefaultDebounceFloor.
	DebounceFloor time.Duration
}

// Monitor runs one threshold session at a time. mu guards all session state;
// lifecycle serialises Start, Stop and revocation so collaborator calls can be
// made without holding mu.
type Monitor struct {
	clock         clock.Clock
	feed          thresholdout.SensorFeed
	guard         thresholdout.RuntimeGuard
	sink          alert.Sink
	logger        *zap.Logger
	debounceFloor time.Duration

	lifecycle sync.Mutex

	mu          sync.Mutex
	sess        *session
	lastReading float64
	hasReading  bool
	status      observe.Broadcaster[domain.Status]
}

type session struct {
	cfg         domain.Config
	startedAt   time.Time
	lastReading float64
	hasReading  bool
	alerts      int
	handle      thresholdout.RuntimeHandle
	loop        *alertLoop
}

type alertLoop struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func NewMonitor(clk clock.Clock, feed thresholdout.SensorFeed, guard thresholdout.RuntimeGuard, sink alert.Sink, logger *zap.Logger, opts Options) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	floor := opts.DebounceFloor
	if floor <= 0 {
		floor = domain.DefaultDebounceFloor
	}
	return &Monitor{
		clock:         clk,
		feed:          feed,
		guard:         guard,
		sink:          sink,
		logger:        logger.Named("threshold"),
		debounceFloor: floor,
	}
}

// Start opens a session and returns without waiting for readings. A denied
// runtime grant or sensor feed degrades the session but does not fail it.
func (m *Monitor) Start(ctx context.Context, cfg domain.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg = cfg.Normalize()

	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	m.mu.Lock()
	if m.sess != nil {
		m.mu.Unlock()
		return apperrors.ErrAlreadyRunning
	}
	s := &session{cfg: cfg, startedAt: m.clock.Now()}
	m.sess = s
	// The start cue precedes any alert a sample delivered during feed.Start
	// can raise.
	m.sink.Fire(alert.PatternStart)
	m.publishLocked()
	m.mu.Unlock()

	var handle thresholdout.RuntimeHandle
	if m.guard != nil {
		h, err := m.guard.Acquire(ctx, func(ev thresholdout.GuardEvent) { m.revoke(s, ev) })
		if err != nil {
			m.logger.Warn("extended runtime not granted, background alerts are not guaranteed", zap.Error(err))
		} else {
			handle = h
		}
	}
	if m.feed != nil {
		if !m.feed.RequestPermission(ctx) {
			m.logger.Warn("sensor access not granted, monitoring without readings", zap.Error(apperrors.ErrPermissionDenied))
		} else if err := m.feed.Start(ctx, m.OnReading); err != nil {
			m.logger.Warn("sensor feed unavailable, monitoring without readings", zap.Error(err))
		}
	}

	m.mu.Lock()
	s.handle = handle
	m.mu.Unlock()

	m.logger.Info("monitoring started",
		zap.Float64("bound", cfg.Bound),
		zap.Duration("alert_period", cfg.AlertPeriod),
	)
	return nil
}

// Stop ends the session. It is a no-op when no session is live. No cue fires
// for the session after Stop returns.
func (m *Monitor) Stop(_ context.Context) error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	m.mu.Lock()
	s := m.sess
	if s == nil {
		m.mu.Unlock()
		return nil
	}
	m.teardownLocked(s)
	m.sink.Fire(alert.PatternStop)
	m.mu.Unlock()

	m.release(s)
	m.logger.Info("monitoring stopped", zap.Int("alerts", s.alerts))
	return nil
}

// OnReading records a sample and starts the alert loop when it is below bound.
// A sample at or above bound leaves a running loop to its debounce recheck.
func (m *Monitor) OnReading(value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastReading, m.hasReading = value, true
	if s := m.sess; s != nil {
		s.lastReading, s.hasReading = value, true
		if s.cfg.Below(value) {
			m.ensureLoopLocked(s)
		}
	}
	m.publishLocked()
}

func (m *Monitor) Status() domain.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Monitor) Subscribe() (<-chan domain.Status, func()) {
	return m.status.Subscribe()
}

// Dispose stops any live session and closes every subscription.
func (m *Monitor) Dispose(ctx context.Context) error {
	err := m.Stop(ctx)
	m.status.Close()
	return err
}

func (m *Monitor) revoke(s *session, ev thresholdout.GuardEvent) {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	m.mu.Lock()
	if m.sess != s {
		m.mu.Unlock()
		return
	}
	m.teardownLocked(s)
	m.mu.Unlock()

	m.logger.Warn("monitoring ended by host", zap.Stringer("event", ev), zap.Error(apperrors.ErrSessionRevoked))
	m.release(s)
}

func (m *Monitor) teardownLocked(s *session) {
	if s.loop != nil {
		s.loop.cancel()
		s.loop = nil
	}
	m.sess = nil
	m.publishLocked()
}

func (m *Monitor) release(s *session) {
	if m.feed != nil {
		if err := m.feed.Stop(); err != nil {
			m.logger.Warn("stop sensor feed", zap.Error(err))
		}
	}
	if m.guard != nil && s.handle != nil {
		m.guard.Invalidate(s.handle)
	}
}

func (m *Monitor) ensureLoopLocked(s *session) {
	if s.loop != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	loop := &alertLoop{cancel: cancel, done: make(chan struct{})}
	s.loop = loop
	m.logger.Debug("alert loop started", zap.Float64("reading", s.lastReading))
	go m.runAlertLoop(ctx, s, loop)
}

func (m *Monitor) runAlertLoop(ctx context.Context, s *session, loop *alertLoop) {
	defer close(loop.done)
	defer loop.cancel()

	period := s.cfg.AlertPeriod
	debounce := domain.DebounceInterval(period, m.debounceFloor)
	for {
		if !m.fireAlert(ctx, s) {
			return
		}
		if err := m.clock.Sleep(ctx, period); err != nil {
			return
		}
		holds, live := m.condition(ctx, s)
		if !live {
			return
		}
		if holds {
			continue
		}
		if err := m.clock.Sleep(ctx, debounce); err != nil {
			return
		}
		if !m.settle(ctx, s, loop) {
			return
		}
	}
}

func (m *Monitor) fireAlert(ctx context.Context, s *session) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ctx.Err() != nil || m.sess != s {
		return false
	}
	s.alerts++
	m.sink.Fire(alert.PatternNotification)
	m.publishLocked()
	return true
}

func (m *Monitor) condition(ctx context.Context, s *session) (holds, live bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ctx.Err() != nil || m.sess != s {
		return false, false
	}
	return s.hasReading && s.cfg.Below(s.lastReading), true
}

// settle is the debounce recheck. It keeps the loop when the condition holds
// again and otherwise detaches the loop in the same critical section, so a
// reading that arrives afterwards starts a fresh loop.
func (m *Monitor) settle(ctx context.Context, s *session, loop *alertLoop) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ctx.Err() != nil || m.sess != s {
		return false
	}
	if s.hasReading && s.cfg.Below(s.lastReading) {
		return true
	}
	if s.loop == loop {
		s.loop = nil
		m.publishLocked()
		m.logger.Debug("alert loop ended", zap.Float64("reading", s.lastReading))
	}
	return false
}

func (m *Monitor) publishLocked() {
	m.status.Publish(m.snapshotLocked())
}

func (m *Monitor) snapshotLocked() domain.Status {
	s := m.sess
	if s == nil {
		return domain.Status{LastReading: m.lastReading, HasReading: m.hasReading}
	}
	return domain.Status{
		Running:     true,
		Alerting:    s.loop != nil,
		LastReading: m.lastReading,
		HasReading:  m.hasReading,
		Bound:       s.cfg.Bound,
		AlertPeriod: s.cfg.AlertPeriod,
		StartedAt:   s.startedAt,
		Alerts:      s.alerts,
	}
}
