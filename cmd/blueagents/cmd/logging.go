package cmd

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/barysiuk/blueagents/internal/core"
)

// newLogger returns a text logger on w. --verbose forces debug; otherwise
// the level comes from BLUEAGENTS_LOG_LEVEL and defaults to warn.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := parseLogLevel(os.Getenv(core.EnvLogLevel))
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
