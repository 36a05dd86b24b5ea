// Package logging adapts log/slog to the domain Logger interface.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"

	"github.com/ochairo/snapverify/internal/domain/interfaces"
)

// Logger implements interfaces.Logger on top of slog
type Logger struct {
	sl *slog.Logger
}

// New creates a logger writing to w at level. Terminals get tint's colored
// output; anything else gets slog's logfmt-style text handler.
func New(w io.Writer, level slog.Level) *Logger {
	var h slog.Handler
	if isTerminal(w) {
		h = newTerminalHandler(w, level)
	} else {
		h = newTextHandler(w, level)
	}
	return &Logger{sl: slog.New(h)}
}

// ParseLevel maps a level name to a slog level
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "err", "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

func (l *Logger) Debug(msg string, fields ...interfaces.Field) {
	l.sl.Debug(msg, attrs(fields)...)
}

func (l *Logger) Info(msg string, fields ...interfaces.Field) {
	l.sl.Info(msg, attrs(fields)...)
}

func (l *Logger) Warn(msg string, fields ...interfaces.Field) {
	l.sl.Warn(msg, attrs(fields)...)
}

func (l *Logger) Error(msg string, fields ...interfaces.Field) {
	l.sl.Error(msg, attrs(fields)...)
}

// With returns a logger carrying fields on every record
func (l *Logger) With(fields ...interfaces.Field) interfaces.Logger {
	return &Logger{sl: l.sl.With(attrs(fields)...)}
}

func attrs(fields []interfaces.Field) []any {
	if len(fields) == 0 {
		return nil
	}
	out := make([]any, 0, len(fields))
	for _, f := range fields {
		out = append(out, slog.Any(f.Key, f.Value))
	}
	return out
}

func newTextHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				return slog.String(a.Key, strings.ToLower(a.Value.String()))
			}
			return a
		},
	})
}

func newTerminalHandler(w io.Writer, level slog.Level) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		NoColor:    runtime.GOOS == "windows",
		Level:      level,
		TimeFormat: "15:04:05",
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
