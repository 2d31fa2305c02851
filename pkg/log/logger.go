package log

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/YuminosukeSato/knnlite/pkg/errors"
	"github.com/rs/zerolog"
)

var (
	rootMu sync.RWMutex
	root   = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel)
)

// SetupLogger configures the process-wide zerolog logger.
// level is one of "debug", "info", "warn" or "error"; w defaults to os.Stderr.
// Library warnings raised through errors.Warn are routed to the new logger.
func SetupLogger(level string, w io.Writer) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	if w == nil {
		w = os.Stderr
	}

	rootMu.Lock()
	root = zerolog.New(w).With().Timestamp().Logger().Level(toZerologLevel(lvl))
	rootMu.Unlock()

	errors.SetZerologWarnFunc(func(warning error) {
		zl := current()
		ev := zl.Warn().Str(ComponentKey, "warnings")
		var m zerolog.LogObjectMarshaler
		if errors.As(warning, &m) {
			ev = ev.Object(ErrorDetailKey, m)
		}
		ev.Msg(warning.Error())
	})
	return nil
}

// ParseLevel converts a textual level into a Level.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, errors.NewValidationError("log_level", "must be one of debug, info, warn, error", level)
	}
}

// SetLevel changes the minimum level of the process-wide logger.
// Loggers obtained before the call keep their previous level.
func SetLevel(level Level) {
	rootMu.Lock()
	defer rootMu.Unlock()
	root = root.Level(toZerologLevel(level))
}

// GetLogger returns a Logger backed by the process-wide zerolog logger.
func GetLogger() Logger {
	return &zerologLogger{zl: current()}
}

// GetLoggerWithName returns a Logger tagged with the given component name.
func GetLoggerWithName(name string) Logger {
	return &zerologLogger{zl: current().With().Str(ComponentKey, name).Logger()}
}

// NewLogger returns a Logger writing JSON lines to w at the given level.
func NewLogger(w io.Writer, level Level) Logger {
	return &zerologLogger{zl: zerolog.New(w).With().Timestamp().Logger().Level(toZerologLevel(level))}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return &zerologLogger{zl: zerolog.Nop()}
}

func current() zerolog.Logger {
	rootMu.RLock()
	defer rootMu.RUnlock()
	return root
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

type zerologLogger struct {
	zl zerolog.Logger
}

func (l *zerologLogger) Debug(msg string, fields ...any) {
	emit(l.zl.Debug(), msg, fields)
}

func (l *zerologLogger) Info(msg string, fields ...any) {
	emit(l.zl.Info(), msg, fields)
}

func (l *zerologLogger) Warn(msg string, fields ...any) {
	emit(l.zl.Warn(), msg, fields)
}

func (l *zerologLogger) Error(msg string, fields ...any) {
	ev := l.zl.Error()
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			ev = withError(ev, err)
			fields = fields[1:]
		}
	}
	emit(ev, msg, fields)
}

func (l *zerologLogger) With(fields ...any) Logger {
	return &zerologLogger{zl: l.zl.With().Fields(fields).Logger()}
}

func (l *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return toZerologLevel(level) >= l.zl.GetLevel()
}

// emit is a no-op for disabled levels: zerolog hands back a nil event.
func emit(ev *zerolog.Event, msg string, fields []any) {
	if ev == nil {
		return
	}
	if len(fields) > 0 {
		ev = ev.Fields(fields)
	}
	ev.Msg(msg)
}

func withError(ev *zerolog.Event, err error) *zerolog.Event {
	if ev == nil {
		return nil
	}
	ev = ev.Err(err)
	if st := errors.StackTrace(err); st != "" {
		ev = ev.Str(StacktraceKey, st)
	}
	var m zerolog.LogObjectMarshaler
	if errors.As(err, &m) {
		ev = ev.Object(ErrorDetailKey, m)
	}
	return ev
}
