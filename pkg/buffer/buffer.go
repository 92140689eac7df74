// Package buffer defines the interface for record accumulation.
//
// An accumulator batches encoded records in a fixed-capacity region so
// they reach storage in a single write.
package buffer

import "time"

// Accumulator holds pending encoded records before a flush.
// Implementations are not safe for concurrent use; callers serialize access.
type Accumulator interface {
	// Append adds record followed by a newline. When the accumulator is
	// empty the record is preceded by a bracketed timestamp taken from now.
	// The append is all-or-nothing: if the record does not fit, nothing is
	// written and an error wrapping ErrBufferFull is returned.
	Append(record []byte, now time.Time) error

	// Bytes returns the pending contents. The slice is only valid until the
	// next Append or Reset.
	Bytes() []byte

	// Len returns the number of pending bytes.
	Len() int

	// Cap returns the fixed capacity.
	Cap() int

	// IsEmpty returns true if no bytes are pending.
	IsEmpty() bool

	// Reset discards pending bytes and records now as the last flush time.
	Reset(now time.Time)

	// LastFlush returns the time passed to the most recent Reset.
	LastFlush() time.Time
}
