package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	apperrors "github.com/jittakal/telemetryexport/internal/errors"
	"github.com/jittakal/telemetryexport/pkg/record"
)

// maxLineSize bounds a single input line.
const maxLineSize = 1 << 20

// sink is the part of the exporter the pump drives.
type sink interface {
	Write(data []byte, timestamp bool) error
	Flush(force bool) error
	Stats() record.Stats
}

type pumpConfig struct {
	// PollInterval is how often a non-forced flush is requested. Zero
	// disables polling.
	PollInterval time.Duration
	Timestamp    bool
	// Publish receives statistics after every operation. May be nil.
	Publish func(record.Stats)
}

// pump feeds lines into the exporter from a single goroutine until lines
// is closed or ctx is done.
func pump(ctx context.Context, exp sink, lines <-chan []byte, cfg pumpConfig, logger *slog.Logger) error {
	var tick <-chan time.Time
	if cfg.PollInterval > 0 {
		ticker := time.NewTicker(cfg.PollInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	publish := func() {
		if cfg.Publish != nil {
			cfg.Publish(exp.Stats())
		}
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("context cancelled, stopping export")
			return nil

		case line, ok := <-lines:
			if !ok {
				logger.Info("input closed")
				return nil
			}
			if len(line) == 0 {
				continue
			}
			if err := exp.Write(line, cfg.Timestamp); err != nil {
				level := slog.LevelWarn
				if errors.Is(err, apperrors.ErrNotReady) {
					level = slog.LevelDebug
				}
				logger.Log(ctx, level, "failed to export record", "error", err, "size", len(line))
			}
			publish()

		case <-tick:
			// A session in Error only recovers through a forced flush.
			force := exp.Stats().Status == record.StatusError
			if err := exp.Flush(force); err != nil {
				logger.Warn("periodic flush failed", "error", err, "forced", force)
			}
			publish()
		}
	}
}

// readLines sends each line of r to lines and closes lines when r is
// exhausted or ctx is done.
func readLines(ctx context.Context, r io.Reader, lines chan<- []byte) error {
	defer close(lines)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := append([]byte(nil), scanner.Bytes()...)
		select {
		case lines <- line:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return scanner.Err()
}
