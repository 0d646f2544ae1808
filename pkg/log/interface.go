// Package log provides a structured logging interface for scinum numerical methods.
//
// The interface is slog-compatible so algorithm packages never depend on a
// concrete backend. Two backends ship with the package: the standard
// log/slog JSON handler (see SetupLogger) and zerolog (see
// NewZerologProvider). Tests use TestLogger to capture output.
//
// Example usage:
//
//	logger := log.GetLoggerWithName("roots").With(
//	    log.MethodKey, "bisection",
//	)
//	logger.Debug("iteration",
//	    log.IterationKey, 3,
//	    log.ErrorEstimateKey, 1.2e-4,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Fields are passed as alternating key/value pairs. The With method returns a
// derived logger carrying pre-populated fields.
type Logger interface {
	// Debug logs a debug-level message. Per-iteration and per-step detail is
	// logged at this level.
	Debug(msg string, fields ...any)

	// Info logs an info-level message.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message, e.g. a root finder exhausting its
	// iteration budget.
	Warn(msg string, fields ...any)

	// Error logs an error-level message. An error value passed under
	// ErrAttrKey is expanded with its stack trace by the slog backend.
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits log records at the given level.
	// Use it to skip building expensive messages (formatted matrices, tables).
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4 // Detailed diagnostic information
	LevelInfo  Level = 0  // General operational information
	LevelWarn  Level = 4  // Warning conditions
	LevelError Level = 8  // Error conditions
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

// LoggerProvider defines an interface for creating and configuring loggers.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger tagged with a component name.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum log level for all loggers created by this provider.
	SetLevel(level Level)
}
