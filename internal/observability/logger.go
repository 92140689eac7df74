package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// ParseLevel maps a level name to a slog level. Unknown names map to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
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

// NewLogger creates a new structured logger based on configuration.
func NewLogger(config LoggingConfig) *slog.Logger {
	return slog.New(newHandler(config, outputFor(config.Output)))
}

// NewLoggerTo creates a logger writing to w, ignoring config.Output.
func NewLoggerTo(config LoggingConfig, w io.Writer) *slog.Logger {
	return slog.New(newHandler(config, w))
}

func outputFor(name string) io.Writer {
	switch strings.ToLower(name) {
	case "stderr":
		return os.Stderr
	case "discard", "none":
		return io.Discard
	default:
		return os.Stdout
	}
}

func newHandler(config LoggingConfig, output io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(config.Level),
	}

	switch strings.ToLower(config.Format) {
	case "text":
		return slog.NewTextHandler(output, opts)
	default:
		return slog.NewJSONHandler(output, opts)
	}
}
