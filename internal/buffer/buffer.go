package buffer

import (
	"fmt"
	"time"

	"github.com/jittakal/telemetryexport/internal/errors"
	"github.com/jittakal/telemetryexport/pkg/buffer"
)

// Ensure implementation satisfies interface at compile time.
var _ buffer.Accumulator = (*Accumulator)(nil)

// DefaultCapacity is the accumulator size used when none is configured.
const DefaultCapacity = 64 * 1024

// TimestampLayout is the layout of the prefix written before the first
// record of every batch.
const TimestampLayout = "[2006-01-02 15:04:05] "

// TimestampPrefixLen is the length of a formatted timestamp prefix for
// years 0 through 9999.
const TimestampPrefixLen = len(TimestampLayout)

// Accumulator holds encoded records in a byte slice allocated once at
// construction. It never grows: 0 <= Len() <= Cap() at all times.
// It is not safe for concurrent use.
type Accumulator struct {
	buf       []byte
	size      int
	lastFlush time.Time
}

// New creates an accumulator with the given capacity in bytes.
// A non-positive capacity selects DefaultCapacity.
func New(capacity int) *Accumulator {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Accumulator{
		buf: make([]byte, capacity),
	}
}

// Append adds record and a trailing newline, preceded by a timestamp
// prefix when the accumulator is empty.
func (a *Accumulator) Append(record []byte, now time.Time) error {
	var stamp []byte
	if a.size == 0 {
		var scratch [TimestampPrefixLen]byte
		// Years outside 0..9999 format wider than the layout.
		stamp = now.AppendFormat(scratch[:0], TimestampLayout)
	}

	need := len(stamp) + len(record) + 1
	if need > len(a.buf)-a.size {
		return fmt.Errorf("%w: record needs %d bytes, %d of %d free",
			errors.ErrBufferFull, need, len(a.buf)-a.size, len(a.buf))
	}

	a.size += copy(a.buf[a.size:], stamp)
	a.size += copy(a.buf[a.size:], record)
	a.buf[a.size] = '\n'
	a.size++
	return nil
}

// Bytes returns the pending contents.
func (a *Accumulator) Bytes() []byte {
	return a.buf[:a.size]
}

// Len returns the number of pending bytes.
func (a *Accumulator) Len() int {
	return a.size
}

// Cap returns the fixed capacity.
func (a *Accumulator) Cap() int {
	return len(a.buf)
}

// IsEmpty returns true if the accumulator holds no bytes.
func (a *Accumulator) IsEmpty() bool {
	return a.size == 0
}

// Reset zeroes the used region and records now as the flush time.
func (a *Accumulator) Reset(now time.Time) {
	clear(a.buf[:a.size])
	a.size = 0
	a.lastFlush = now
}

// LastFlush returns the time of the most recent Reset.
func (a *Accumulator) LastFlush() time.Time {
	return a.lastFlush
}
