// Package buffer provides the in-memory accumulator for encoded records.
//
// The accumulator batches records so that a whole batch reaches storage in
// one write. Its memory is allocated once and never grows.
//
// # Batch Layout
//
// The first record of every batch is preceded by a bracketed timestamp;
// later records in the same batch are not:
//
//	[2025-03-14 09:26:53] {"size":5,"data":"hello"}
//	{"size":5,"data":"world"}
//
// # Overflow
//
// Append is all-or-nothing. When the prefix, record and newline do not fit
// in the free space, nothing is written and ErrBufferFull is returned:
//
//	if err := acc.Append(rec, clk.Now()); errors.Is(err, apperrors.ErrBufferFull) {
//	    // flush and retry once, or reject the record
//	}
//
// # Lifecycle
//
//	acc := buffer.New(64 * 1024)
//	_ = acc.Append(rec, now)
//	writer.Append(acc.Bytes())
//	acc.Reset(now)
//
// # Thread Safety
//
// Accumulator is not safe for concurrent use. The exporter serializes all
// access through its busy flag.
package buffer
