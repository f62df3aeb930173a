package components

import (
	"fmt"
	"time"
)

// FormatClock renders d as m:ss, or h:mm:ss from an hour up. Partial seconds
// round up so a countdown never shows 0:00 while it is still running.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int((d + time.Second - 1) / time.Second)
	h, m, s := secs/3600, secs/60%60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
