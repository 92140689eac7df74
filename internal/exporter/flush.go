package exporter

import (
	"fmt"

	apperrors "github.com/jittakal/telemetryexport/internal/errors"
	"github.com/jittakal/telemetryexport/pkg/record"
)

// Flush trigger labels.
const (
	triggerForced   = "forced"
	triggerPolicy   = "policy"
	triggerAuto     = "auto"
	triggerOverflow = "overflow"
	triggerBinary   = "binary"
	triggerClose    = "close"
)

// Flush writes the buffer to the store when force is set, auto-flush is
// enabled, the buffer is at least half full, or the flush interval has
// elapsed. It is a no-op on an empty buffer.
//
// Flush is the one write path allowed in the Error state. With a non-empty
// buffer it retries the write; a forced flush of an empty buffer probes the
// medium by reopening and syncing the current file. Success returns the
// session to Ready.
func (e *Exporter) Flush(force bool) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.leave()

	status := e.Status()
	if e.writer == nil || (status != record.StatusReady && status != record.StatusError) {
		err := fmt.Errorf("%w: status %s", apperrors.ErrNotReady, status)
		e.count(err)
		return err
	}

	if e.acc.IsEmpty() {
		if force && status == record.StatusError {
			e.setStatus(record.StatusWriting)
			return e.end(e.probe())
		}
		return nil
	}

	if !e.shouldFlush(force) {
		return nil
	}

	trigger := triggerPolicy
	if force {
		trigger = triggerForced
	}

	e.setStatus(record.StatusWriting)
	return e.end(e.flush(trigger))
}

func (e *Exporter) shouldFlush(force bool) bool {
	if force || e.autoFlush {
		return true
	}
	if e.acc.Len() >= e.acc.Cap()/2 {
		return true
	}
	if e.cfg.FlushInterval > 0 {
		return e.clock.Now().Sub(e.acc.LastFlush()) >= e.cfg.FlushInterval
	}
	return false
}

// flush writes the whole buffer in one store call. The buffer is reset only
// once every byte has reached the file; a failed write leaves it intact for
// a later retry.
func (e *Exporter) flush(trigger string) error {
	if e.acc.IsEmpty() {
		return nil
	}

	start := e.clock.Now()
	pending := e.acc.Len()

	complete, err := e.store(e.acc.Bytes())
	if !complete {
		return err
	}

	now := e.clock.Now()
	e.acc.Reset(now)
	e.stats.Flushes++
	e.stats.LastFlushTime = now

	if e.metrics != nil {
		e.metrics.IncFlushes(trigger)
		e.metrics.ObserveFlushDuration(now.Sub(start).Seconds())
	}
	e.logger.Debug("export buffer flushed",
		"trigger", trigger,
		"bytes", pending,
		"file", e.stats.FileName,
	)

	if err != nil {
		return err
	}
	return e.maybeRotate()
}

// store appends p to the current file. complete reports whether every byte
// was written, which can be true alongside a sync error.
func (e *Exporter) store(p []byte) (complete bool, err error) {
	var n int
	err = e.timed("write", func() error {
		var werr error
		n, werr = e.writer.Append(p)
		return werr
	})

	complete = n == len(p)
	if complete {
		e.stats.BytesWritten += uint64(n)
		e.stats.LastWriteTime = e.clock.Now()
		if e.metrics != nil {
			e.metrics.AddBytesWritten(n)
		}
	}
	e.syncFileStats()
	return complete, err
}

func (e *Exporter) maybeRotate() error {
	if !e.policy.ShouldRotate(e.writer.Size()) {
		return nil
	}

	previous := e.writer.Name()
	previousBytes := e.writer.Size()
	if err := e.timed("rotate", e.writer.Rotate); err != nil {
		return err
	}

	e.stats.Rotations++
	e.stats.FilesCreated++
	e.syncFileStats()
	if e.metrics != nil {
		e.metrics.IncRotations()
	}
	e.logger.Info("export file size limit reached",
		"previous", previous,
		"previous_bytes", previousBytes,
		"file", e.stats.FileName,
	)
	return nil
}

// probe checks that the medium accepts I/O again by reopening the recorded
// file and syncing it.
func (e *Exporter) probe() error {
	if err := e.timed("open", func() error { return e.writer.Open(false) }); err != nil {
		return err
	}
	if err := e.timed("sync", e.writer.Sync); err != nil {
		return err
	}
	e.syncFileStats()
	e.logger.Info("export medium recovered", "file", e.stats.FileName)
	return nil
}

// timed runs a store operation against the soft write budget. Overruns are
// recorded; the operation is never retried or abandoned.
func (e *Exporter) timed(op string, fn func() error) error {
	start := e.clock.Now()
	err := fn()
	elapsed := e.clock.Now().Sub(start)

	if e.cfg.WriteBudget > 0 && elapsed > e.cfg.WriteBudget {
		e.stats.SlowOperations++
		if e.metrics != nil {
			e.metrics.IncSlowOperations(op)
		}
		e.logger.Warn("export store operation exceeded budget",
			"operation", op,
			"elapsed", elapsed,
			"budget", e.cfg.WriteBudget,
		)
	}
	return err
}
