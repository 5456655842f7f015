package observability

import (
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/mgearhart/heattrends/internal/config"
)

// NewLogger builds the process-wide slog logger from config, tagged with a
// fresh run_id so log lines from one pipeline invocation can be correlated.
func NewLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler).With("run_id", uuid.NewString())
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
