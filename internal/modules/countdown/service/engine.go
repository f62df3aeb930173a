package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"thresholdtimer/internal/modules/countdown/domain"
	countdownout "thresholdtimer/internal/modules/countdown/port/out"
	"thresholdtimer/internal/platform/alert"
	"thresholdtimer/internal/platform/clock"
	apperrors "thresholdtimer/internal/platform/errors"
	"thresholdtimer/internal/platform/observe"
)

type Options struct {
	// RefreshInterval paces the background refresh. Zero leaves refreshing to
	// the caller.
	RefreshInterval time.Duration
	// DefaultDuration is selected until Select is called.
	DefaultDuration time.Duration
	// Title of the completion notification.
	Title string
}

// Engine runs one countdown at a time against an absolute end time.
// lifecycle orders Start, Stop and completion so scheduler calls can be made
// without holding mu and a completion can never cancel a newer schedule.
type Engine struct {
	clock     clock.Clock
	scheduler countdownout.NotificationScheduler
	sink      alert.Sink
	logger    *zap.Logger
	opts      Options

	lifecycle sync.Mutex
	authAsked bool

	mu         sync.Mutex
	selected   time.Duration
	configured time.Duration
	// reselected records a Select made while a countdown was live.
	reselected bool
	label      string
	endTime    time.Time
	remaining  time.Duration
	stopLoop   context.CancelFunc
	status     observe.Broadcaster[domain.Status]
}

func NewEngine(clk clock.Clock, scheduler countdownout.NotificationScheduler, sink alert.Sink, logger *zap.Logger, opts Options) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.DefaultDuration <= 0 {
		opts.DefaultDuration = domain.DefaultDuration
	}
	if opts.Title == "" {
		opts.Title = domain.DefaultTitle
	}
	return &Engine{
		clock:      clk,
		scheduler:  scheduler,
		sink:       sink,
		logger:     logger.Named("countdown"),
		opts:       opts,
		selected:   opts.DefaultDuration,
		configured: opts.DefaultDuration,
		remaining:  opts.DefaultDuration,
	}
}

// Start begins a countdown of d. A rejected start leaves any live countdown
// untouched. Notification failures are logged and never stop the countdown.
func (e *Engine) Start(ctx context.Context, d time.Duration, label string) error {
	if err := domain.ValidateDuration(d); err != nil {
		return err
	}

	e.lifecycle.Lock()
	defer e.lifecycle.Unlock()

	e.mu.Lock()
	if !e.endTime.IsZero() {
		e.mu.Unlock()
		return apperrors.ErrAlreadyRunning
	}
	e.configured = d
	e.reselected = false
	e.label = label
	e.endTime = e.clock.Now().Add(d)
	e.remaining = d
	e.startLoopLocked()
	e.publishLocked(false)
	e.mu.Unlock()

	e.logger.Debug("countdown started", zap.Duration("duration", d), zap.String("label", label))
	e.scheduleNotification(ctx, d, label)
	return nil
}

// Stop abandons a live countdown and resets the display to the duration that
// ran, or to a selection made while it ran. It is a no-op when idle.
func (e *Engine) Stop(ctx context.Context) error {
	e.lifecycle.Lock()
	defer e.lifecycle.Unlock()

	e.mu.Lock()
	if e.endTime.IsZero() {
		e.mu.Unlock()
		return nil
	}
	e.resetLocked()
	e.publishLocked(false)
	e.mu.Unlock()

	e.cancelNotification(ctx)
	e.logger.Debug("countdown stopped")
	return nil
}

// Refresh recomputes the remaining time and completes the countdown when it
// reaches zero. Only the call that completes it reports Completed.
func (e *Engine) Refresh() domain.Status {
	e.lifecycle.Lock()
	defer e.lifecycle.Unlock()

	e.mu.Lock()
	if e.endTime.IsZero() {
		status := e.snapshotLocked(false)
		e.mu.Unlock()
		return status
	}
	e.remaining = domain.RemainingAt(e.endTime, e.clock.Now())
	if e.remaining > 0 {
		status := e.publishLocked(false)
		e.mu.Unlock()
		return status
	}
	e.sink.Fire(alert.PatternNotification)
	label := e.label
	e.resetLocked()
	status := e.publishLocked(true)
	e.mu.Unlock()

	// The in-app cue replaced the pending notification.
	e.cancelNotification(context.Background())
	e.logger.Info("countdown complete", zap.String("label", label))
	return status
}

// Select changes the duration used by the next Start. A running countdown is
// not affected.
func (e *Engine) Select(d time.Duration) error {
	if err := domain.ValidateDuration(d); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selected = d
	if e.endTime.IsZero() {
		e.configured = d
		e.remaining = d
	} else {
		e.reselected = true
	}
	e.publishLocked(false)
	return nil
}

// Selected is the duration the next Start would use by default.
func (e *Engine) Selected() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selected
}

func (e *Engine) Status() domain.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked(false)
}

func (e *Engine) Subscribe() (<-chan domain.Status, func()) {
	return e.status.Subscribe()
}

// Dispose stops a live countdown and closes every subscription.
func (e *Engine) Dispose(ctx context.Context) error {
	err := e.Stop(ctx)
	e.status.Close()
	return err
}

func (e *Engine) resetLocked() {
	if e.stopLoop != nil {
		e.stopLoop()
		e.stopLoop = nil
	}
	e.endTime = time.Time{}
	if e.reselected {
		e.configured = e.selected
		e.reselected = false
	}
	e.remaining = e.configured
	e.label = ""
}

func (e *Engine) startLoopLocked() {
	if e.opts.RefreshInterval <= 0 {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.stopLoop = cancel
	go e.refreshLoop(ctx, e.opts.RefreshInterval)
}

func (e *Engine) refreshLoop(ctx context.Context, interval time.Duration) {
	for {
		if err := e.clock.Sleep(ctx, interval); err != nil {
			return
		}
		if ctx.Err() != nil {
			return
		}
		if status := e.Refresh(); !status.Running {
			return
		}
	}
}

func (e *Engine) scheduleNotification(ctx context.Context, d time.Duration, label string) {
	if e.scheduler == nil {
		return
	}
	if !e.authAsked {
		e.authAsked = true
		granted, err := e.scheduler.Authorize(ctx)
		if err == nil && !granted {
			err = apperrors.ErrPermissionDenied
		}
		if err != nil {
			e.logger.Warn("notification permission not granted, completion relies on the in-app cue", zap.Error(err))
		}
	}
	body := label
	if body == "" {
		body = fmt.Sprintf("%s countdown complete", d.Round(time.Second))
	}
	if err := e.scheduler.Schedule(ctx, domain.NotificationID, d, e.opts.Title, body); err != nil {
		e.logger.Warn("schedule completion notification", zap.Error(fmt.Errorf("%w: %v", apperrors.ErrSchedulingFailure, err)))
	}
}

func (e *Engine) cancelNotification(ctx context.Context) {
	if e.scheduler == nil {
		return
	}
	if err := e.scheduler.Cancel(ctx, domain.NotificationID); err != nil {
		e.logger.Warn("cancel completion notification", zap.Error(err))
	}
}

func (e *Engine) publishLocked(completed bool) domain.Status {
	status := e.snapshotLocked(completed)
	e.status.Publish(status)
	return status
}

func (e *Engine) snapshotLocked(completed bool) domain.Status {
	if e.endTime.IsZero() {
		return domain.Status{Configured: e.configured, Remaining: e.remaining, Completed: completed}
	}
	return domain.Status{
		Running:    true,
		EndTime:    e.endTime,
		Configured: e.configured,
		Remaining:  domain.RemainingAt(e.endTime, e.clock.Now()),
		Label:      e.label,
	}
}
