package log

import (
	"log/slog"
	"os"
	"strings"
)

// Setup builds the application logger and installs it as the slog
// default. Level accepts debug/info/warn/error (case-insensitive);
// anything else means info.
func Setup(level string) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	}))
	slog.SetDefault(logger)
	return logger
}

// ForComponent returns a logger that stamps every record with the
// component name, so log lines from the store, the worker and the
// rates client stay distinguishable.
func ForComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(FieldComponent, component)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
