package out

import "context"

// SampleFunc receives one sensor reading.
type SampleFunc func(value float64)

// SensorFeed pushes readings asynchronously and in arrival order. Start must
// not deliver samples on the calling goroutine.
type SensorFeed interface {
	RequestPermission(ctx context.Context) bool
	Start(ctx context.Context, onSample SampleFunc) error
	Stop() error
}

type GuardEvent int

const (
	GuardWillExpire GuardEvent = iota + 1
	GuardInvalidated
)

func (e GuardEvent) String() string {
	switch e {
	case GuardWillExpire:
		return "will_expire"
	case GuardInvalidated:
		return "invalidated"
	default:
		return "unknown"
	}
}

// RuntimeHandle identifies one extended-runtime grant.
type RuntimeHandle interface {
	ID() string
}

// RuntimeGuard hands out extended background-execution grants. Events are
// delivered on a goroutine that holds none of the guard's locks, and
// Invalidate never waits for event delivery.
type RuntimeGuard interface {
	Acquire(ctx context.Context, onEvent func(GuardEvent)) (RuntimeHandle, error)
	Invalidate(handle RuntimeHandle)
}
