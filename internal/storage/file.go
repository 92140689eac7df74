// Package storage implements the file writer that persists exported records.
package storage

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/afero"

	"github.com/jittakal/telemetryexport/internal/errors"
	"github.com/jittakal/telemetryexport/pkg/clock"
	"github.com/jittakal/telemetryexport/pkg/storage"
)

// Ensure implementation satisfies interface at compile time.
var _ storage.Writer = (*FileWriter)(nil)

// MetricsCollector defines metrics operations for storage.
type MetricsCollector interface {
	IncFilesCreated()
	IncStorageErrors(operation string)
	ObserveFileSize(size float64)
}

// FileConfig contains export file configuration.
type FileConfig struct {
	Prefix    string
	Extension string
	// MaxFiles bounds the number of files created by one writer that are
	// kept on the volume; older ones are removed after a rotation. Zero or
	// negative keeps every file.
	MaxFiles int
}

// FileWriter implements storage.Writer on an afero filesystem.
// Every append seeks to the end of the current file, writes, and flushes
// the file to the medium. It is not safe for concurrent use.
type FileWriter struct {
	fs       afero.Fs
	clock    clock.Clock
	namer    *Namer
	maxFiles int
	logger   *slog.Logger
	metrics  MetricsCollector

	file    afero.File
	name    string
	size    int64
	created []string
}

// NewFileWriter creates a new file writer on fs. No file is opened until
// Open is called.
func NewFileWriter(
	fs afero.Fs,
	config FileConfig,
	clk clock.Clock,
	logger *slog.Logger,
	metrics MetricsCollector,
) *FileWriter {
	if clk == nil {
		clk = clock.Real()
	}
	return &FileWriter{
		fs:       fs,
		clock:    clk,
		namer:    NewNamer(config.Prefix, config.Extension),
		maxFiles: config.MaxFiles,
		logger:   logger,
		metrics:  metrics,
	}
}

// Open implements storage.Writer.
func (w *FileWriter) Open(createNew bool) error {
	if err := w.Close(); err != nil {
		w.logger.Warn("closing previous export file failed", "file", w.name, "error", err)
	}

	name := w.name
	flags := os.O_RDWR
	if createNew {
		name = w.namer.Next(w.clock.Now())
		flags |= os.O_CREATE
	} else if name == "" {
		return w.fail("open", name, fmt.Errorf("no file to reopen: %w", fs.ErrNotExist))
	}

	file, err := w.fs.OpenFile(name, flags, 0o644)
	if err != nil {
		return w.fail("open", name, err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return w.fail("stat", name, err)
	}

	w.file = file
	w.name = name
	w.size = info.Size()

	if createNew {
		w.created = append(w.created, name)
		if w.metrics != nil {
			w.metrics.IncFilesCreated()
		}
		w.enforceRetention()
	}

	w.logger.Info("export file opened",
		"file", name,
		"created", createNew,
		"size", w.size,
	)
	return nil
}

// Append implements storage.Writer. A sync failure after a complete write
// is returned as an error together with the full byte count.
func (w *FileWriter) Append(p []byte) (int, error) {
	if w.file == nil {
		return 0, w.fail("write", w.name, fs.ErrClosed)
	}

	if _, err := w.file.Seek(0, io.SeekEnd); err != nil {
		return 0, w.fail("seek", w.name, err)
	}

	n, err := w.file.Write(p)
	w.size += int64(n)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return n, w.fail("write", w.name, err)
	}

	if err := w.file.Sync(); err != nil {
		return n, w.fail("sync", w.name, err)
	}

	if w.metrics != nil {
		w.metrics.ObserveFileSize(float64(w.size))
	}
	return n, nil
}

// Sync implements storage.Writer.
func (w *FileWriter) Sync() error {
	if w.file == nil {
		return w.fail("sync", w.name, fs.ErrClosed)
	}
	if err := w.file.Sync(); err != nil {
		return w.fail("sync", w.name, err)
	}
	return nil
}

// Rotate implements storage.Writer.
func (w *FileWriter) Rotate() error {
	previous := w.name
	if err := w.Open(true); err != nil {
		return err
	}
	w.logger.Info("export file rotated", "previous", previous, "file", w.name)
	return nil
}

// Close implements storage.Writer.
func (w *FileWriter) Close() error {
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	if err != nil {
		return w.fail("close", w.name, err)
	}
	return nil
}

// Name implements storage.Writer.
func (w *FileWriter) Name() string {
	return w.name
}

// Size implements storage.Writer.
func (w *FileWriter) Size() int64 {
	return w.size
}

func (w *FileWriter) enforceRetention() {
	if w.maxFiles <= 0 {
		return
	}
	for len(w.created) > w.maxFiles {
		oldest := w.created[0]
		w.created = w.created[1:]
		if err := w.fs.Remove(oldest); err != nil {
			w.logger.Warn("removing old export file failed", "file", oldest, "error", err)
			if w.metrics != nil {
				w.metrics.IncStorageErrors("remove")
			}
			continue
		}
		w.logger.Info("old export file removed by retention",
			"file", oldest,
			"max_files", w.maxFiles,
			"retained", len(w.created),
		)
	}
}

func (w *FileWriter) fail(op, path string, err error) error {
	if w.metrics != nil {
		w.metrics.IncStorageErrors(op)
	}
	return errors.NewStorageError(op, path, err)
}
