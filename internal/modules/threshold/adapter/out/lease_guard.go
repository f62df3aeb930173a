package out

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	thresholdout "thresholdtimer/internal/modules/threshold/port/out"
	"thresholdtimer/internal/platform/clock"
	apperrors "thresholdtimer/internal/platform/errors"
	"thresholdtimer/internal/platform/id"
)

type LeaseOptions struct {
	Enabled       bool
	Lease         time.Duration
	ExpiryWarning time.Duration
}

// LeaseGuard grants time-bounded background-execution leases. Each lease
// reports WillExpire ExpiryWarning before it ends and Invalidated when it
// ends or the host revokes it.
type LeaseGuard struct {
	clock  clock.Clock
	idGen  id.Generator
	logger *zap.Logger
	opts   LeaseOptions

	mu     sync.Mutex
	grants map[string]*lease
}

type lease struct {
	id      string
	onEvent func(thresholdout.GuardEvent)
	timers  []clock.Timer
}

type leaseHandle string

func (h leaseHandle) ID() string { return string(h) }

func NewLeaseGuard(clk clock.Clock, idGen id.Generator, logger *zap.Logger, opts LeaseOptions) *LeaseGuard {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Lease <= 0 {
		opts.Lease = time.Hour
	}
	return &LeaseGuard{
		clock:  clk,
		idGen:  idGen,
		logger: logger.Named("runtime"),
		opts:   opts,
		grants: map[string]*lease{},
	}
}

func (g *LeaseGuard) Acquire(_ context.Context, onEvent func(thresholdout.GuardEvent)) (thresholdout.RuntimeHandle, error) {
	if !g.opts.Enabled {
		return nil, apperrors.ErrPermissionDenied
	}
	l := &lease{id: g.idGen.New(), onEvent: onEvent}

	g.mu.Lock()
	defer g.mu.Unlock()
	if warn := g.opts.Lease - g.opts.ExpiryWarning; g.opts.ExpiryWarning > 0 && warn > 0 {
		l.timers = append(l.timers, g.clock.AfterFunc(warn, func() { g.expiring(l) }))
	}
	l.timers = append(l.timers, g.clock.AfterFunc(g.opts.Lease, func() { g.end(l) }))
	g.grants[l.id] = l
	g.logger.Debug("lease granted", zap.String("lease_id", l.id), zap.Duration("lease", g.opts.Lease))
	return leaseHandle(l.id), nil
}

// Invalidate releases the lease. Unknown or already released handles are ignored.
func (g *LeaseGuard) Invalidate(handle thresholdout.RuntimeHandle) {
	if handle == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if l, ok := g.grants[handle.ID()]; ok {
		g.releaseLocked(l)
		g.logger.Debug("lease released", zap.String("lease_id", l.id))
	}
}

// Revoke ends every active lease as if the host had withdrawn it.
func (g *LeaseGuard) Revoke() int {
	g.mu.Lock()
	revoked := make([]*lease, 0, len(g.grants))
	for _, l := range g.grants {
		g.releaseLocked(l)
		revoked = append(revoked, l)
	}
	g.mu.Unlock()

	for _, l := range revoked {
		g.logger.Warn("lease revoked by host", zap.String("lease_id", l.id))
		go l.deliver(thresholdout.GuardInvalidated)
	}
	return len(revoked)
}

func (g *LeaseGuard) Active() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.grants)
}

func (g *LeaseGuard) expiring(l *lease) {
	g.mu.Lock()
	_, live := g.grants[l.id]
	g.mu.Unlock()
	if live {
		g.logger.Warn("lease about to expire", zap.String("lease_id", l.id))
		l.deliver(thresholdout.GuardWillExpire)
	}
}

func (g *LeaseGuard) end(l *lease) {
	g.mu.Lock()
	_, live := g.grants[l.id]
	if live {
		g.releaseLocked(l)
	}
	g.mu.Unlock()
	if live {
		g.logger.Warn("lease expired", zap.String("lease_id", l.id))
		l.deliver(thresholdout.GuardInvalidated)
	}
}

func (g *LeaseGuard) releaseLocked(l *lease) {
	for _, t := range l.timers {
		t.Stop()
	}
	delete(g.grants, l.id)
}

func (l *lease) deliver(ev thresholdout.GuardEvent) {
	if l.onEvent != nil {
		l.onEvent(ev)
	}
}
