package out

import (
	"context"
	"errors"
	"strings"
	"testing"

	apperrors "thresholdtimer/internal/platform/errors"
)

func TestDesktopNotifierCommands(t *testing.T) {
	t.Parallel()
	var gotName string
	var gotArgs []string
	run := func(_ context.Context, name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	}
	found := func(string) (string, error) { return "/usr/bin/x", nil }

	linux := &DesktopNotifier{goos: "linux", lookPath: found, run: run}
	if err := linux.Notify(context.Background(), "Timer finished", "Tea"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if gotName != "notify-send" || gotArgs[len(gotArgs)-2] != "Timer finished" || gotArgs[len(gotArgs)-1] != "Tea" {
		t.Fatalf("unexpected linux command %s %v", gotName, gotArgs)
	}

	mac := &DesktopNotifier{goos: "darwin", lookPath: found, run: run}
	if err := mac.Notify(context.Background(), "Timer finished", `say "hi"`); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if gotName != "osascript" || !strings.Contains(gotArgs[1], `display notification "say \"hi\"" with title "Timer finished"`) {
		t.Fatalf("unexpected mac command %s %v", gotName, gotArgs)
	}
}

func TestDesktopNotifierUnavailable(t *testing.T) {
	t.Parallel()
	missing := func(string) (string, error) { return "", errors.New("not found") }
	n := &DesktopNotifier{goos: "linux", lookPath: missing}
	if err := n.Available(context.Background()); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
	plan9 := &DesktopNotifier{goos: "plan9", lookPath: missing}
	if err := plan9.Available(context.Background()); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
}
