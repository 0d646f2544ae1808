package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// SetupLogger installs a JSON slog handler on stderr as the process default
// and makes the slog-backed provider the package default.
func SetupLogger(loglevel string) error {
	level, err := ParseLevel(loglevel)
	if err != nil {
		return err
	}
	SetupLoggerWriter(os.Stderr, level)
	return nil
}

// SetupLoggerWriter is SetupLogger with an explicit destination.
func SetupLoggerWriter(w io.Writer, level Level) {
	lv := new(slog.LevelVar)
	lv.Set(slog.Level(level))
	ops := slog.HandlerOptions{
		AddSource: level <= LevelDebug,
		Level:     lv,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				attr = slog.Attr{Key: "severity", Value: attr.Value}
			case slog.MessageKey:
				attr = slog.Attr{Key: "message", Value: attr.Value}
			}
			return attr
		},
	}
	handler := slog.NewJSONHandler(w, &ops)
	sl := slog.New(WrapByErrFmtHandler(handler))
	slog.SetDefault(sl)
	SetProvider(NewSlogProvider(sl, lv))
}

// ParseLevel converts "debug", "info", "warn" or "error" into a Level.
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
		return LevelInfo, fmt.Errorf("invalid log level: %q", level)
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
