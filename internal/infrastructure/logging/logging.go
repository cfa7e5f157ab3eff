// Package logging configures the process logger. Output always goes to
// stderr: stdout belongs to the stdio transport's wire protocol and must
// stay clean.
package logging

import (
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"
)

// New builds the root logger at the given level ("debug", "info",
// "warn", "error"). Each process run gets a short instance id so logs
// from concurrent deployments can be told apart.
func New(level string) *slog.Logger {
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      parseLevel(level),
		TimeFormat: time.Kitchen,
	})
	return slog.New(handler).With("instance", uuid.NewString()[:8])
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
