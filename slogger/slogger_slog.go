package slogger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

var _ Logger = &Slogger{}

// Slogger implements Logger on top of log/slog with colorized terminal
// output.
type Slogger struct {
	logger *slog.Logger
}

// New returns a Slogger writing to stderr at the given level. Color is
// enabled only when stderr is a terminal.
func New(level LogLevel) *Slogger {
	return NewWithWriter(os.Stderr, level, isatty.IsTerminal(os.Stderr.Fd()))
}

// NewWithWriter returns a Slogger writing to w. Tests use this to capture
// output.
func NewWithWriter(w io.Writer, level LogLevel, color bool) *Slogger {
	handler := tint.NewHandler(w, &tint.Options{
		NoColor:    !color,
		TimeFormat: time.Kitchen,
		Level:      slog.Level(level),
	})
	return &Slogger{logger: slog.New(handler)}
}

func (l *Slogger) Debug(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *Slogger) Info(msg string, keysAndValues ...any) {
	l.logger.Info(msg, keysAndValues...)
}

func (l *Slogger) Warn(msg string, keysAndValues ...any) {
	l.logger.Warn(msg, keysAndValues...)
}

func (l *Slogger) Error(msg string, keysAndValues ...any) {
	l.logger.Error(msg, keysAndValues...)
}

func (l *Slogger) With(keysAndValues ...any) Logger {
	return &Slogger{logger: l.logger.With(keysAndValues...)}
}
