package alert

import (
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Pattern names a discrete haptic/audible cue.
type Pattern string

const (
	PatternStart        Pattern = "start"
	PatternStop         Pattern = "stop"
	PatternClick        Pattern = "click"
	PatternNotification Pattern = "notification"
)

// Sink plays a pattern. Fire must not block and must not call back into the
// engine that invoked it.
type Sink interface {
	Fire(p Pattern)
}

var bells = map[Pattern]int{
	PatternStart:        1,
	PatternStop:         1,
	PatternClick:        1,
	PatternNotification: 2,
}

// TerminalSink rings the terminal bell, once per cue and twice for
// notifications.
type TerminalSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewTerminalSink(w io.Writer) *TerminalSink {
	return &TerminalSink{w: w}
}

func (s *TerminalSink) Fire(p Pattern) {
	n, ok := bells[p]
	if !ok {
		n = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = io.WriteString(s.w, strings.Repeat("\a", n))
}

type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) LogSink {
	return LogSink{logger: logger}
}

func (s LogSink) Fire(p Pattern) {
	s.logger.Debug("alert fired", zap.String("pattern", string(p)))
}

// Multi fans a cue out to every sink in order.
type Multi []Sink

func (m Multi) Fire(p Pattern) {
	for _, s := range m {
		s.Fire(p)
	}
}
