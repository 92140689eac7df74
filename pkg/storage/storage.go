// Package storage defines interfaces for persisting exported records.
//
// This package provides abstractions for appending bytes to timestamped
// files on an external volume and for acquiring that volume.
package storage

import "github.com/spf13/afero"

// Writer appends bytes to the current destination file.
type Writer interface {
	// Open opens the destination. When createNew is true a new timestamped
	// file is created; otherwise the previously recorded file is reopened.
	Open(createNew bool) error

	// Append writes p at the end of the current file and flushes it to the
	// medium. It returns the number of bytes written.
	Append(p []byte) (int, error)

	// Sync flushes the current file to the medium.
	Sync() error

	// Rotate closes the current file and opens a new timestamped one.
	Rotate() error

	// Close closes the current file. Closing a closed writer is a no-op.
	Close() error

	// Name returns the current file name, empty before the first Open.
	Name() string

	// Size returns the number of bytes in the current file.
	Size() int64
}

// RotationPolicy determines when the current file should be rotated.
type RotationPolicy interface {
	// ShouldRotate returns true if a file of fileBytes should be rotated.
	ShouldRotate(fileBytes int64) bool
}

// Provider acquires the filesystem that exported files are written to.
type Provider interface {
	// Acquire returns a writable filesystem or an error wrapping
	// ErrDeviceNotFound.
	Acquire() (afero.Fs, error)
}
