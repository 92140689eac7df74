// Package errors defines application-specific error types and sentinel errors.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per failure category reported by the exporter.
var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrNotReady         = errors.New("exporter is not ready")
	ErrBufferFull       = errors.New("buffer is full")
	ErrBufferTooSmall   = errors.New("formatted output exceeds scratch buffer")
	ErrWriteFailed      = errors.New("write failed")
	ErrOutOfResources   = errors.New("out of resources")
	ErrDeviceNotFound   = errors.New("no suitable storage device found")
	ErrBusy             = errors.New("exporter is busy")
)

// StorageError represents a storage operation failure.
// It always matches ErrWriteFailed under errors.Is.
type StorageError struct {
	Operation string
	Path      string
	Err       error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: operation=%s path=%s: %v",
		e.Operation, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrWriteFailed.
func (e *StorageError) Is(target error) bool {
	return target == ErrWriteFailed
}

// NewStorageError wraps err with the failing operation and path.
// It returns nil when err is nil.
func NewStorageError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Operation: op, Path: path, Err: err}
}

// Kind returns a stable, low-cardinality label for err, suitable for
// log attributes and metric labels.
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrInvalidParameter):
		return "invalid_parameter"
	case errors.Is(err, ErrNotReady):
		return "not_ready"
	case errors.Is(err, ErrBusy):
		return "busy"
	case errors.Is(err, ErrBufferFull):
		return "buffer_full"
	case errors.Is(err, ErrBufferTooSmall):
		return "buffer_too_small"
	case errors.Is(err, ErrOutOfResources):
		return "out_of_resources"
	case errors.Is(err, ErrDeviceNotFound):
		return "device_not_found"
	case errors.Is(err, ErrWriteFailed):
		return "write_failed"
	default:
		return "unknown"
	}
}
