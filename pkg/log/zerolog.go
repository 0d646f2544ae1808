package log

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/scinum/pkg/errors"
)

// ZerologProvider is a LoggerProvider backed by zerolog.
type ZerologProvider struct {
	base zerolog.Logger
}

// NewZerologProvider creates a provider writing JSON lines to w.
func NewZerologProvider(w io.Writer, level Level) *ZerologProvider {
	zl := zerolog.New(w).With().Timestamp().Logger().Level(toZerologLevel(level))
	return &ZerologProvider{base: zl}
}

// GetLogger implements LoggerProvider.GetLogger.
func (p *ZerologProvider) GetLogger() Logger {
	return &ZerologLogger{zl: p.base}
}

// GetLoggerWithName implements LoggerProvider.GetLoggerWithName.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	return &ZerologLogger{zl: p.base.With().Str(ComponentKey, name).Logger()}
}

// SetLevel implements LoggerProvider.SetLevel.
func (p *ZerologProvider) SetLevel(level Level) {
	p.base = p.base.Level(toZerologLevel(level))
}

// RouteWarnings sends errors.Warn output through this provider. Warnings that
// implement zerolog.LogObjectMarshaler are embedded as structured fields.
func (p *ZerologProvider) RouteWarnings() {
	zl := p.base
	errors.SetZerologWarnFunc(func(w error) {
		ev := zl.Warn()
		if m, ok := w.(zerolog.LogObjectMarshaler); ok {
			ev = ev.EmbedObject(m)
		}
		ev.Msg(w.Error())
	})
}

// ZerologLogger adapts zerolog.Logger to the Logger interface.
type ZerologLogger struct {
	zl zerolog.Logger
}

func (z *ZerologLogger) Debug(msg string, fields ...any) { withFields(z.zl.Debug(), fields).Msg(msg) }
func (z *ZerologLogger) Info(msg string, fields ...any)  { withFields(z.zl.Info(), fields).Msg(msg) }
func (z *ZerologLogger) Warn(msg string, fields ...any)  { withFields(z.zl.Warn(), fields).Msg(msg) }
func (z *ZerologLogger) Error(msg string, fields ...any) { withFields(z.zl.Error(), fields).Msg(msg) }

// With implements Logger.With.
func (z *ZerologLogger) With(fields ...any) Logger {
	ctx := z.zl.With()
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			ctx = ctx.AnErr(ErrAttrKey, err)
			fields = fields[1:]
		}
		ctx = ctx.Fields(fields)
	}
	return &ZerologLogger{zl: ctx.Logger()}
}

// Enabled implements Logger.Enabled.
func (z *ZerologLogger) Enabled(_ context.Context, level Level) bool {
	return z.zl.GetLevel() <= toZerologLevel(level)
}

func withFields(ev *zerolog.Event, fields []any) *zerolog.Event {
	if ev == nil || len(fields) == 0 {
		return ev
	}
	if err, ok := fields[0].(error); ok {
		ev = ev.AnErr(ErrAttrKey, err)
		fields = fields[1:]
	}
	return ev.Fields(fields)
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
