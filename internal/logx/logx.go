// Package logx builds the process-wide structured logger.
package logx

import (
    "log/slog"
    "os"
    "strings"
)

// New returns a slog.Logger writing to stderr. Format is "json" or "text";
// unknown levels fall back to info.
func New(level, format string) *slog.Logger {
    opts := &slog.HandlerOptions{Level: parseLevel(level)}

    var h slog.Handler
    if strings.EqualFold(format, "json") {
        h = slog.NewJSONHandler(os.Stderr, opts)
    } else {
        h = slog.NewTextHandler(os.Stderr, opts)
    }
    return slog.New(h)
}

func parseLevel(s string) slog.Level {
    switch strings.ToLower(s) {
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
