// Package encoder defines the interface for turning raw payloads into
// persisted records.
package encoder

import "github.com/jittakal/telemetryexport/pkg/record"

// Encoder converts a payload into its on-disk record representation.
type Encoder interface {
	// AppendRecord appends the encoded form of payload to dst and returns
	// the extended slice. For direct encoders only the frame header is
	// appended; the payload itself is written to storage unchanged.
	AppendRecord(dst, payload []byte) ([]byte, error)

	// Format returns the record format this encoder produces.
	Format() record.Format

	// Direct reports whether records bypass the accumulator and are
	// written straight to storage.
	Direct() bool
}
