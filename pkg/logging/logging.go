package logging

import (
	"io"
	"log/slog"
	"strings"
)

// Level is shared by every logger built with New so it can be raised at runtime.
var Level = &slog.LevelVar{}

// ParseLevel maps debug/info/warn/error to a slog level. Unknown values mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a logger writing to w. format is "json" (default) or "text".
func New(w io.Writer, level, format string) *slog.Logger {
	Level.Set(ParseLevel(level))
	opts := &slog.HandlerOptions{Level: Level}

	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops everything; meant for tests.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
