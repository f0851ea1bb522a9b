// Package logging configures the process-wide structured logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ParseLevel converts a level name into a slog.Level. Unknown names map to
// info and return an error.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q, using info", name)
	}
}

// InitLogger installs a text logger writing to w as the default logger and
// returns it. An unknown level is logged as a warning.
func InitLogger(w io.Writer, levelName string) *slog.Logger {
	level, err := ParseLevel(levelName)

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if err != nil {
		logger.Warn(err.Error())
	}

	return logger
}
