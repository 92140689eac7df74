package record

import (
	"fmt"
	"strings"
	"time"
)

// Format selects how payloads are encoded before they reach storage.
type Format int

const (
	FormatJSON Format = iota
	FormatCSV
	FormatBinary
	FormatText
)

// String returns the lower-case name of the format.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatCSV:
		return "csv"
	case FormatBinary:
		return "binary"
	case FormatText:
		return "text"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// Valid reports whether f is one of the supported formats.
func (f Format) Valid() bool {
	return f >= FormatJSON && f <= FormatText
}

// ParseFormat converts a case-insensitive format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "binary", "bin":
		return FormatBinary, nil
	case "text", "txt":
		return FormatText, nil
	default:
		return 0, fmt.Errorf("unsupported record format: %q", s)
	}
}

// Status is the lifecycle state of an export session.
type Status int

const (
	StatusNotInitialized Status = iota
	StatusReady
	StatusWriting
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusNotInitialized:
		return "not_initialized"
	case StatusReady:
		return "ready"
	case StatusWriting:
		return "writing"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Level is the numeric severity written into JSON log entries.
// Lower values are more severe.
type Level uint8

const (
	LevelError   Level = 0
	LevelWarning Level = 1
	LevelInfo    Level = 2
)

// Stats is a point-in-time copy of an export session's counters.
// It is never shared with the session that produced it.
type Stats struct {
	BytesWritten   uint64
	RecordsWritten uint64
	Flushes        uint64
	FilesCreated   uint64
	Rotations      uint64

	// Failure counters, one per error category.
	WriteErrors        uint64
	BufferOverflows    uint64
	DeviceErrors       uint64
	InvalidParameters  uint64
	NotReadyRejections uint64
	BusyRejections     uint64
	FormatErrors       uint64
	SlowOperations     uint64

	LastWriteTime time.Time
	LastFlushTime time.Time

	BufferedBytes  int
	BufferCapacity int
	FileName       string
	FileBytes      int64

	Status Status
}
