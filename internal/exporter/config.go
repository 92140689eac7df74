package exporter

import (
	"time"

	"github.com/jittakal/telemetryexport/internal/buffer"
	"github.com/jittakal/telemetryexport/internal/encoder"
	"github.com/jittakal/telemetryexport/internal/storage"
)

// Config contains exporter configuration.
type Config struct {
	// BufferSize is the accumulator capacity in bytes.
	BufferSize int
	// MaxRecordSize bounds a single encoded record.
	MaxRecordSize int
	// FlushInterval makes a non-forced flush write the buffer once this much
	// time has passed since the last flush. Zero disables it.
	FlushInterval time.Duration
	// WriteBudget is the soft per-call budget for store operations. Overruns
	// are counted and logged. Zero disables the check.
	WriteBudget time.Duration

	File     storage.FileConfig
	Rotation storage.PolicyConfig
}

// DefaultConfig returns the default exporter configuration.
func DefaultConfig() Config {
	return Config{
		BufferSize:    buffer.DefaultCapacity,
		MaxRecordSize: encoder.DefaultMaxRecordSize,
		WriteBudget:   250 * time.Millisecond,
		File: storage.FileConfig{
			Prefix:    storage.DefaultFilePrefix,
			Extension: storage.DefaultFileExtension,
		},
		Rotation: storage.PolicyConfig{
			MaxFileSizeBytes: storage.DefaultMaxFileSize,
		},
	}
}

func (c Config) withDefaults() Config {
	if c.BufferSize <= 0 {
		c.BufferSize = buffer.DefaultCapacity
	}
	if c.MaxRecordSize <= 0 {
		c.MaxRecordSize = encoder.DefaultMaxRecordSize
	}
	return c
}
