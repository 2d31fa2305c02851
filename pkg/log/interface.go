// Package log provides a structured logging interface for knnlite.
//
// The Logger interface is slog-shaped (Debug/Info/Warn/Error with key-value
// fields) and is backed by zerolog. Components take a Logger through their
// options and fall back to GetLoggerWithName when none is given.
//
// Example usage:
//
//	logger := log.GetLoggerWithName("neighbors").With(
//	    log.ModelNameKey, "KNeighborsClassifier",
//	)
//	logger.Info("fitted",
//	    log.SamplesKey, train.Len(),
//	    log.FeaturesKey, train.NumFeatures(),
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
type Logger interface {
	// Debug logs a debug-level message with optional key-value fields.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional key-value fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional key-value fields.
	Warn(msg string, fields ...any)

	// Error logs an error-level message. If the first field is an error it is
	// attached as the record's error together with its stack trace.
	//
	//   logger.Error("load failed", err, log.OperationKey, log.OperationLoad)
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits log records at the given level.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
