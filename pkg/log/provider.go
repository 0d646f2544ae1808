package log

import (
	"context"
	"log/slog"
	"sync"
)

var (
	providerMu      sync.RWMutex
	defaultProvider LoggerProvider = NewSlogProvider(slog.Default(), nil)
)

// SetProvider replaces the process-wide provider used by GetLogger and
// GetLoggerWithName.
func SetProvider(p LoggerProvider) {
	if p == nil {
		return
	}
	providerMu.Lock()
	defer providerMu.Unlock()
	defaultProvider = p
}

// Provider returns the current process-wide provider.
func Provider() LoggerProvider {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return defaultProvider
}

// GetLogger returns the default logger of the current provider.
func GetLogger() Logger {
	return Provider().GetLogger()
}

// GetLoggerWithName returns a logger tagged with the given component name.
func GetLoggerWithName(name string) Logger {
	return Provider().GetLoggerWithName(name)
}

// SlogProvider is a LoggerProvider backed by log/slog.
type SlogProvider struct {
	logger *slog.Logger
	level  *slog.LevelVar
}

// NewSlogProvider wraps an slog.Logger. level may be nil, in which case
// SetLevel has no effect and filtering is left to the handler.
func NewSlogProvider(l *slog.Logger, level *slog.LevelVar) *SlogProvider {
	return &SlogProvider{logger: l, level: level}
}

// GetLogger implements LoggerProvider.GetLogger.
func (p *SlogProvider) GetLogger() Logger {
	return &slogLogger{l: p.logger}
}

// GetLoggerWithName implements LoggerProvider.GetLoggerWithName.
func (p *SlogProvider) GetLoggerWithName(name string) Logger {
	return &slogLogger{l: p.logger.With(ComponentKey, name)}
}

// SetLevel implements LoggerProvider.SetLevel.
func (p *SlogProvider) SetLevel(level Level) {
	if p.level != nil {
		p.level.Set(slog.Level(level))
	}
}

type slogLogger struct {
	l *slog.Logger
}

func (s *slogLogger) Debug(msg string, fields ...any) { s.l.Debug(msg, normalizeFields(fields)...) }
func (s *slogLogger) Info(msg string, fields ...any)  { s.l.Info(msg, normalizeFields(fields)...) }
func (s *slogLogger) Warn(msg string, fields ...any)  { s.l.Warn(msg, normalizeFields(fields)...) }
func (s *slogLogger) Error(msg string, fields ...any) { s.l.Error(msg, normalizeFields(fields)...) }

func (s *slogLogger) With(fields ...any) Logger {
	return &slogLogger{l: s.l.With(normalizeFields(fields)...)}
}

func (s *slogLogger) Enabled(ctx context.Context, level Level) bool {
	return s.l.Enabled(ctx, slog.Level(level))
}

// normalizeFields turns a leading bare error into an ErrAttr so the
// ErrFmtHandler can attach its stack trace.
func normalizeFields(fields []any) []any {
	if len(fields) == 0 {
		return fields
	}
	if err, ok := fields[0].(error); ok {
		out := make([]any, 0, len(fields))
		out = append(out, ErrAttr(err))
		return append(out, fields[1:]...)
	}
	return fields
}
