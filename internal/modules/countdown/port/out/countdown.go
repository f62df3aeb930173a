package out

import (
	"context"
	"time"
)

// NotificationScheduler delivers a best-effort delayed notification. Schedule
// replaces any pending notification with the same id and Cancel is
// idempotent.
type NotificationScheduler interface {
	Authorize(ctx context.Context) (bool, error)
	Schedule(ctx context.Context, id string, fireAfter time.Duration, title, body string) error
	Cancel(ctx context.Context, id string) error
}
