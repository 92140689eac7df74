package exporter

import (
	"errors"
	"fmt"

	"github.com/jittakal/telemetryexport/internal/buffer"
	"github.com/jittakal/telemetryexport/internal/encoder"
	apperrors "github.com/jittakal/telemetryexport/internal/errors"
	"github.com/jittakal/telemetryexport/pkg/record"
)

// Write encodes data in the session format and appends it to the buffer.
// Binary payloads bypass the buffer and go straight to the file as a header
// followed by the payload; timestamp prefixes that header with the bracketed
// time. Other formats carry the batch timestamp and ignore the flag.
func (e *Exporter) Write(data []byte, timestamp bool) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.leave()

	if len(data) == 0 {
		return e.invalid("empty payload")
	}
	if err := e.begin(); err != nil {
		return err
	}
	return e.end(e.write(data, timestamp))
}

// Printf formats into a bounded scratch buffer and writes the result.
// Output of encoder.PrintfScratchSize bytes or more is rejected with
// ErrBufferTooSmall instead of being truncated.
func (e *Exporter) Printf(format string, args ...any) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.leave()

	if format == "" {
		return e.invalid("empty format string")
	}
	if err := e.begin(); err != nil {
		return err
	}

	out, err := encoder.AppendBounded(e.printf, encoder.PrintfScratchSize, format, args...)
	if err != nil {
		return e.end(err)
	}
	return e.end(e.write(out, false))
}

// LogJSON appends {"level":<n>,"message":"<escaped>"} to the buffer, with
// ,"hasData":true when data is non-nil. Log entries use the buffer in every
// session format.
func (e *Exporter) LogJSON(level record.Level, message string, data []byte) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.leave()

	if err := e.begin(); err != nil {
		return err
	}

	if n := encoder.EscapedLen(message); n > e.cfg.MaxRecordSize {
		return e.end(fmt.Errorf("%w: escaped message of %d bytes exceeds limit of %d",
			apperrors.ErrOutOfResources, n, e.cfg.MaxRecordSize))
	}

	rec := encoder.AppendLogJSON(e.scratch[:0], level, message, data != nil)
	e.keepScratch(rec)
	return e.end(e.appendRecord(rec))
}

// LogCSV appends <timestamp>,<category>,<value>,"<description>" verbatim.
func (e *Exporter) LogCSV(timestamp uint64, category string, value uint64, description string) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.leave()

	if err := e.begin(); err != nil {
		return err
	}

	if n := len(category) + len(description); n > e.cfg.MaxRecordSize {
		return e.end(fmt.Errorf("%w: log entry text of %d bytes exceeds limit of %d",
			apperrors.ErrOutOfResources, n, e.cfg.MaxRecordSize))
	}

	rec := encoder.AppendLogCSV(e.scratch[:0], timestamp, category, value, description)
	e.keepScratch(rec)
	return e.end(e.appendRecord(rec))
}

// Info logs message at record.LevelInfo.
func (e *Exporter) Info(message string) error {
	return e.LogJSON(record.LevelInfo, message, nil)
}

// Warning logs message at record.LevelWarning.
func (e *Exporter) Warning(message string) error {
	return e.LogJSON(record.LevelWarning, message, nil)
}

// Error logs message at record.LevelError.
func (e *Exporter) Error(message string) error {
	return e.LogJSON(record.LevelError, message, nil)
}

// Debugf writes a formatted debug line.
func (e *Exporter) Debugf(format string, args ...any) error {
	return e.Printf(format, args...)
}

func (e *Exporter) write(data []byte, timestamp bool) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty payload", apperrors.ErrInvalidParameter)
	}
	if e.enc.Direct() {
		return e.writeDirect(data, timestamp)
	}

	rec, err := e.enc.AppendRecord(e.scratch[:0], data)
	if err != nil {
		return err
	}
	e.keepScratch(rec)
	return e.appendRecord(rec)
}

// appendRecord adds rec to the buffer. A record that does not fit triggers
// one forced flush and one retry; a record that cannot fit even in an empty
// buffer is rejected whole.
func (e *Exporter) appendRecord(rec []byte) error {
	now := e.clock.Now()

	err := e.acc.Append(rec, now)
	if errors.Is(err, apperrors.ErrBufferFull) && !e.acc.IsEmpty() {
		if ferr := e.flush(triggerOverflow); ferr != nil {
			return ferr
		}
		err = e.acc.Append(rec, now)
	}
	if err != nil {
		e.logger.Warn("export record rejected",
			"record_bytes", len(rec),
			"buffer_capacity", e.acc.Cap(),
			"error", err,
		)
		return err
	}

	e.stats.RecordsWritten++
	if e.metrics != nil {
		e.metrics.IncRecords(e.format.String())
	}

	if e.autoFlush {
		return e.flush(triggerAuto)
	}
	return nil
}

// writeDirect writes a binary frame as two sequential store writes. Pending
// buffered records are flushed first so frames never interleave with them.
func (e *Exporter) writeDirect(data []byte, timestamp bool) error {
	if err := e.flush(triggerBinary); err != nil {
		return err
	}

	header := e.scratch[:0]
	if timestamp {
		header = e.clock.Now().AppendFormat(header, buffer.TimestampLayout)
	}
	header, err := e.enc.AppendRecord(header, data)
	if err != nil {
		return err
	}
	e.keepScratch(header)

	if complete, err := e.store(header); !complete || err != nil {
		return err
	}
	if complete, err := e.store(data); !complete || err != nil {
		return err
	}

	e.stats.RecordsWritten++
	if e.metrics != nil {
		e.metrics.IncRecords(e.format.String())
	}
	return e.maybeRotate()
}

func (e *Exporter) invalid(reason string) error {
	err := fmt.Errorf("%w: %s", apperrors.ErrInvalidParameter, reason)
	e.count(err)
	return err
}

// keepScratch retains buf's backing array for reuse when it is no larger
// than the accumulator.
func (e *Exporter) keepScratch(buf []byte) {
	if cap(buf) <= e.cfg.BufferSize {
		e.scratch = buf[:0]
	}
}
