package storage

import (
	"fmt"
	"time"
)

// Default file naming, plouton_data_YYYYMMDD_HHMMSS.dat.
const (
	DefaultFilePrefix    = "plouton_data_"
	DefaultFileExtension = ".dat"
)

const fileTimestampLayout = "20060102_150405"

// Namer generates timestamp-derived file names. A _NNN sequence suffix is
// added only when a name for the same second was already issued.
// It is not safe for concurrent use.
type Namer struct {
	prefix        string
	extension     string
	fileSequence  int    // Sequence counter for files created in the same second
	lastTimestamp string // Last timestamp used for filename generation
}

// NewNamer creates a namer. Empty arguments select the defaults.
func NewNamer(prefix, extension string) *Namer {
	if prefix == "" {
		prefix = DefaultFilePrefix
	}
	if extension == "" {
		extension = DefaultFileExtension
	}
	return &Namer{prefix: prefix, extension: extension}
}

// Next returns the name for a file created at now.
func (n *Namer) Next(now time.Time) string {
	timestamp := now.Format(fileTimestampLayout)

	if timestamp == n.lastTimestamp {
		n.fileSequence++
		return fmt.Sprintf("%s%s_%03d%s", n.prefix, timestamp, n.fileSequence, n.extension)
	}

	n.fileSequence = 0
	n.lastTimestamp = timestamp
	return n.prefix + timestamp + n.extension
}
