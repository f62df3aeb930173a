package out

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"go.uber.org/zap"

	apperrors "thresholdtimer/internal/platform/errors"
)

// DesktopNotifier posts through notify-send on Linux and osascript on macOS.
type DesktopNotifier struct {
	goos     string
	lookPath func(file string) (string, error)
	run      func(ctx context.Context, name string, args ...string) error
}

func NewDesktopNotifier() *DesktopNotifier {
	return &DesktopNotifier{
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		run: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
	}
}

func (n *DesktopNotifier) Available(context.Context) error {
	bin, err := n.binary()
	if err != nil {
		return err
	}
	if _, err := n.lookPath(bin); err != nil {
		return fmt.Errorf("%w: %s not found: %v", apperrors.ErrPermissionDenied, bin, err)
	}
	return nil
}

func (n *DesktopNotifier) Notify(ctx context.Context, title, body string) error {
	bin, err := n.binary()
	if err != nil {
		return err
	}
	var args []string
	switch bin {
	case "osascript":
		args = []string{"-e", fmt.Sprintf("display notification %s with title %s", appleScriptString(body), appleScriptString(title))}
	default:
		args = []string{"--app-name=thresholdtimer", title, body}
	}
	if err := n.run(ctx, bin, args...); err != nil {
		return fmt.Errorf("run %s: %w", bin, err)
	}
	return nil
}

func (n *DesktopNotifier) binary() (string, error) {
	switch n.goos {
	case "darwin":
		return "osascript", nil
	case "linux", "freebsd", "openbsd":
		return "notify-send", nil
	default:
		return "", fmt.Errorf("%w: desktop notifications are not supported on %s", apperrors.ErrPermissionDenied, n.goos)
	}
}

func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// LogNotifier writes notifications to the log instead of the desktop.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return LogNotifier{logger: logger}
}

func (LogNotifier) Available(context.Context) error { return nil }

func (n LogNotifier) Notify(_ context.Context, title, body string) error {
	n.logger.Info("notification", zap.String("title", title), zap.String("body", body))
	return nil
}
