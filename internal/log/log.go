// ABOUTME: Leveled logging on top of slog, always written to stderr
// ABOUTME: Keeps stdout free for the JSONL host protocol and command output

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Level constants matching slog levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var (
	level = new(slog.LevelVar)

	mu     sync.RWMutex
	logger = newLogger(os.Stderr)
)

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// SetLevel sets the global log level.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// GetLevel returns the current log level.
func GetLevel() slog.Level {
	return level.Level()
}

// SetOutput redirects all log output. Tests use it to capture lines.
func SetOutput(w io.Writer) {
	mu.Lock()
	logger = newLogger(w)
	mu.Unlock()
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Logger is a component-scoped logger; every line carries the component name.
type Logger struct {
	component string
}

// Component returns a logger tagging its records with component=name.
func Component(name string) Logger {
	return Logger{component: name}
}

func (l Logger) log(lvl slog.Level, format string, args ...any) {
	lg := current()
	if !lg.Enabled(context.Background(), lvl) {
		return
	}
	if l.component != "" {
		lg = lg.With("component", l.component)
	}
	lg.Log(context.Background(), lvl, fmt.Sprintf(format, args...))
}

// Debug logs a debug message if the level allows it.
func (l Logger) Debug(format string, args ...any) { l.log(LevelDebug, format, args...) }

// Info logs an info message if the level allows it.
func (l Logger) Info(format string, args ...any) { l.log(LevelInfo, format, args...) }

// Warn logs a warning message if the level allows it.
func (l Logger) Warn(format string, args ...any) { l.log(LevelWarn, format, args...) }

// Error logs an error message.
func (l Logger) Error(format string, args ...any) { l.log(LevelError, format, args...) }

var root Logger

// Debug logs through the root logger.
func Debug(format string, args ...any) { root.Debug(format, args...) }

// Info logs through the root logger.
func Info(format string, args ...any) { root.Info(format, args...) }

// Warn logs through the root logger.
func Warn(format string, args ...any) { root.Warn(format, args...) }

// Error logs through the root logger.
func Error(format string, args ...any) { root.Error(format, args...) }
