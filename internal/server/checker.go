package server

import (
	"context"
	"strconv"
	"sync/atomic"

	"github.com/jittakal/telemetryexport/pkg/record"
)

// StatsSource is the part of the exporter the health checks observe.
type StatsSource interface {
	Status() record.Status
	Stats() record.Stats
}

// Snapshot holds the latest statistics published by the goroutine that
// drives the exporter, so health handlers never read live session state.
type Snapshot struct {
	stats atomic.Pointer[record.Stats]
}

var _ StatsSource = (*Snapshot)(nil)

// Store publishes stats.
func (s *Snapshot) Store(stats record.Stats) {
	s.stats.Store(&stats)
}

// Stats returns the last published statistics.
func (s *Snapshot) Stats() record.Stats {
	if p := s.stats.Load(); p != nil {
		return *p
	}
	return record.Stats{}
}

// Status returns the last published session status.
func (s *Snapshot) Status() record.Status {
	return s.Stats().Status
}

// ExportChecker reports health from an export session.
type ExportChecker struct {
	source StatsSource
}

var _ HealthChecker = (*ExportChecker)(nil)

// NewExportChecker creates a checker backed by source.
func NewExportChecker(source StatsSource) *ExportChecker {
	return &ExportChecker{source: source}
}

// Liveness reports whether the process is serving. It does not depend on
// the export session.
func (c *ExportChecker) Liveness() bool {
	return true
}

// Readiness reports whether the session accepts records.
func (c *ExportChecker) Readiness(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	switch c.source.Status() {
	case record.StatusReady, record.StatusWriting:
		return true
	default:
		return false
	}
}

// GetStatus returns a summary of the session.
func (c *ExportChecker) GetStatus() map[string]string {
	stats := c.source.Stats()
	status := map[string]string{
		"session":        stats.Status.String(),
		"buffered_bytes": strconv.Itoa(stats.BufferedBytes),
		"bytes_written":  strconv.FormatUint(stats.BytesWritten, 10),
	}
	if stats.FileName != "" {
		status["file"] = stats.FileName
	}
	return status
}
