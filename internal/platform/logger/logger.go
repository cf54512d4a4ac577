package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/skuehn/lernbox/internal/config"
)

// Setup initializes the application's logging system from the provided
// configuration. It creates a structured JSON logger writing to stdout at
// the configured level, sets it as the process default, and returns it.
//
// An unknown log level falls back to info with a warning on stderr rather
// than failing startup.
func Setup(cfg config.ServerConfig) (*slog.Logger, error) {
	level, ok := parseLevel(cfg.LogLevel)
	if !ok {
		level = slog.LevelInfo

		// The real handler is not up yet; warn through a throwaway one.
		tmp := slog.New(slog.NewTextHandler(os.Stderr, nil))
		tmp.Warn("invalid log level configured, using default level",
			"configured_level", cfg.LogLevel,
			"default_level", "info")
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)

	// Make slog.Info, slog.Error etc. route through the same handler.
	slog.SetDefault(logger)

	return logger, nil
}

// parseLevel maps a configuration string to a slog level,
// case-insensitively. The second return reports whether the name was
// recognized.
func parseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
