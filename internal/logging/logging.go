// Package logging sets up the application loggers on top of log/slog.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	LevelTrace = slog.Level(-8)
	LevelFatal = slog.Level(12)
)

var levelNames = map[slog.Leveler]string{
	LevelTrace: "TRACE",
	LevelFatal: "FATAL",
}

var (
	structuredLogger *slog.Logger
	mu               sync.RWMutex
)

// replaceLevelNames maps the custom TRACE/FATAL levels to their labels.
func replaceLevelNames(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		level := a.Value.Any().(slog.Level)
		if label, ok := levelNames[level]; ok {
			a.Value = slog.StringValue(label)
		}
	}
	return a
}

// ParseLevel maps a configured level name to a slog level. Unknown
// values fall back to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "fatal":
		return LevelFatal
	default:
		return slog.LevelInfo
	}
}

// Init initializes the logging system. Structured JSON goes to stdout;
// when logPath is non-empty a rotating file handler is layered in.
func Init(level slog.Level, logPath string) {
	mu.Lock()
	defer mu.Unlock()

	var w io.Writer = os.Stdout
	if logPath != "" {
		w = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		})
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceLevelNames,
	})
	structuredLogger = slog.New(handler)
	slog.SetDefault(structuredLogger)
}

// ForService returns a logger tagged with the originating service name.
// Falls back to slog.Default if Init has not run, so tests and one-off
// tools work without explicit setup.
func ForService(service string) *slog.Logger {
	mu.RLock()
	l := structuredLogger
	mu.RUnlock()
	if l == nil {
		l = slog.Default()
	}
	return l.With("service", service)
}
