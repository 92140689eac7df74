package exporter

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/jittakal/telemetryexport/internal/buffer"
	"github.com/jittakal/telemetryexport/internal/encoder"
	apperrors "github.com/jittakal/telemetryexport/internal/errors"
	"github.com/jittakal/telemetryexport/internal/storage"
	pkgbuffer "github.com/jittakal/telemetryexport/pkg/buffer"
	"github.com/jittakal/telemetryexport/pkg/clock"
	pkgencoder "github.com/jittakal/telemetryexport/pkg/encoder"
	"github.com/jittakal/telemetryexport/pkg/record"
	pkgstorage "github.com/jittakal/telemetryexport/pkg/storage"
)

// Exporter is one export session. It is driven by a single logical caller;
// nested calls made while an operation is in progress are rejected with
// ErrBusy instead of being interleaved.
type Exporter struct {
	cfg      Config
	provider pkgstorage.Provider
	clock    clock.Clock
	logger   *slog.Logger
	metrics  MetricsCollector
	policy   *storage.SizePolicy

	busy   atomic.Bool
	status atomic.Int32

	format    record.Format
	autoFlush bool
	enc       pkgencoder.Encoder
	acc       pkgbuffer.Accumulator
	writer    pkgstorage.Writer

	scratch []byte
	printf  []byte
	stats   record.Stats
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithClock sets the time source used for timestamps and file names.
func WithClock(clk clock.Clock) Option {
	return func(e *Exporter) {
		e.clock = clk
	}
}

// New creates an exporter in the NotInitialized state. No storage is
// touched until Init.
func New(
	cfg Config,
	provider pkgstorage.Provider,
	logger *slog.Logger,
	metrics MetricsCollector,
	opts ...Option,
) *Exporter {
	e := &Exporter{
		cfg:      cfg.withDefaults(),
		provider: provider,
		clock:    clock.Real(),
		logger:   logger,
		metrics:  metrics,
		printf:   make([]byte, 0, encoder.PrintfScratchSize),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.policy = storage.NewSizePolicy(e.cfg.Rotation)
	return e
}

// Init starts a session: it resets statistics and the buffer, acquires the
// volume and opens the first file. A live session is closed first.
func (e *Exporter) Init(format record.Format, autoFlush bool) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.leave()

	if !format.Valid() {
		err := fmt.Errorf("%w: unknown format %d", apperrors.ErrInvalidParameter, int(format))
		e.count(err)
		return err
	}

	if e.Status() != record.StatusNotInitialized {
		if err := e.closeSession(); err != nil {
			e.logger.Warn("closing previous export session failed", "error", err)
		}
	}

	enc, err := encoder.NewFactory(format, e.cfg.MaxRecordSize).CreateEncoder()
	if err != nil {
		e.count(fmt.Errorf("%w: %v", apperrors.ErrInvalidParameter, err))
		return err
	}

	now := e.clock.Now()
	e.stats = record.Stats{}
	e.format = format
	e.autoFlush = autoFlush
	e.enc = enc
	e.acc = buffer.New(e.cfg.BufferSize)
	e.acc.Reset(now)
	e.scratch = e.scratch[:0]

	fs, err := e.provider.Acquire()
	if err != nil {
		return e.initFailed(err)
	}

	w := storage.NewFileWriter(fs, e.cfg.File, e.clock, e.logger, e.metrics)
	if err := e.timed("open", func() error { return w.Open(true) }); err != nil {
		return e.initFailed(err)
	}

	e.writer = w
	e.stats.FilesCreated = 1
	e.syncFileStats()
	e.setStatus(record.StatusReady)

	e.logger.Info("export session initialized",
		"format", format.String(),
		"auto_flush", autoFlush,
		"buffer_size", e.acc.Cap(),
		"max_file_size", e.policy.MaxSizeBytes(),
		"max_files", e.cfg.File.MaxFiles,
		"file", w.Name(),
	)
	return nil
}

func (e *Exporter) initFailed(err error) error {
	e.count(err)
	e.setStatus(record.StatusError)
	e.logger.Error("export session initialization failed",
		"error", err,
		"kind", apperrors.Kind(err),
	)
	return err
}

// Close force-flushes pending records, logs the final statistics, closes
// the file and returns the exporter to NotInitialized. Closing an
// uninitialized exporter performs no I/O.
func (e *Exporter) Close() error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.leave()

	if e.Status() == record.StatusNotInitialized {
		return nil
	}
	return e.closeSession()
}

func (e *Exporter) closeSession() error {
	var errs []error

	if e.writer != nil && e.acc != nil && !e.acc.IsEmpty() {
		e.setStatus(record.StatusWriting)
		if err := e.flush(triggerClose); err != nil {
			e.count(err)
			errs = append(errs, err)
		}
	}

	if e.writer != nil {
		if err := e.writer.Close(); err != nil {
			e.count(err)
			errs = append(errs, err)
		}
		e.syncFileStats()
		e.writer = nil
	}

	e.setStatus(record.StatusNotInitialized)

	e.logger.Info("export session closed",
		"bytes_written", e.stats.BytesWritten,
		"records_written", e.stats.RecordsWritten,
		"files_created", e.stats.FilesCreated,
		"rotations", e.stats.Rotations,
		"write_errors", e.stats.WriteErrors,
		"buffer_overflows", e.stats.BufferOverflows,
	)
	return errors.Join(errs...)
}

// Stats returns a snapshot of the session statistics. It does not take the
// busy flag and never mutates the exporter.
func (e *Exporter) Stats() record.Stats {
	s := e.stats
	s.Status = e.Status()
	if e.acc != nil {
		s.BufferedBytes = e.acc.Len()
		s.BufferCapacity = e.acc.Cap()
	}
	return s
}

// Status returns the current session status. It is safe to call from any
// goroutine.
func (e *Exporter) Status() record.Status {
	return record.Status(e.status.Load())
}

// Format returns the session format.
func (e *Exporter) Format() record.Format {
	return e.format
}

func (e *Exporter) setStatus(s record.Status) {
	e.status.Store(int32(s))
}

// enter sets the busy flag or rejects a nested call.
func (e *Exporter) enter() error {
	if !e.busy.CompareAndSwap(false, true) {
		e.count(apperrors.ErrBusy)
		return apperrors.ErrBusy
	}
	return nil
}

func (e *Exporter) leave() {
	e.busy.Store(false)
}

// begin moves a Ready session to Writing.
func (e *Exporter) begin() error {
	if s := e.Status(); s != record.StatusReady {
		err := fmt.Errorf("%w: status %s", apperrors.ErrNotReady, s)
		e.count(err)
		return err
	}
	e.setStatus(record.StatusWriting)
	return nil
}

// end leaves the Writing state. Store failures make the session sticky in
// Error; any other outcome returns it to Ready.
func (e *Exporter) end(err error) error {
	if err != nil {
		e.count(err)
	}
	if errors.Is(err, apperrors.ErrWriteFailed) {
		e.setStatus(record.StatusError)
		e.logger.Error("export store operation failed", "error", err, "file", e.stats.FileName)
	} else {
		e.setStatus(record.StatusReady)
	}
	if e.metrics != nil && e.acc != nil {
		e.metrics.SetBufferedBytes(e.acc.Len())
	}
	return err
}

// count increments the statistic for the category of err.
func (e *Exporter) count(err error) {
	kind := apperrors.Kind(err)
	switch kind {
	case "invalid_parameter":
		e.stats.InvalidParameters++
	case "not_ready":
		e.stats.NotReadyRejections++
	case "busy":
		e.stats.BusyRejections++
	case "buffer_full":
		e.stats.BufferOverflows++
	case "buffer_too_small", "out_of_resources":
		e.stats.FormatErrors++
	case "device_not_found":
		e.stats.DeviceErrors++
	case "write_failed", "unknown":
		e.stats.WriteErrors++
	}
	if e.metrics != nil {
		e.metrics.IncErrors(kind)
	}
}

func (e *Exporter) syncFileStats() {
	if e.writer == nil {
		return
	}
	e.stats.FileName = e.writer.Name()
	e.stats.FileBytes = e.writer.Size()
}
