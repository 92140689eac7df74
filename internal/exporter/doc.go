// Package exporter provides the buffered structured-data export engine.
//
// An Exporter encodes caller payloads, batches them in a fixed-capacity
// accumulator and appends batches to timestamped files on an external
// volume. It never panics and never terminates the host; every failure is
// returned to the caller and counted in Stats.
//
// # Lifecycle
//
//	exp := exporter.New(cfg, storage.NewDirProvider(nil, dirs, logger), logger, metrics)
//	if err := exp.Init(record.FormatJSON, false); err != nil {
//	    return err
//	}
//	defer exp.Close()
//
//	_ = exp.Write([]byte("hello"), false)
//	_ = exp.LogCSV(100, "temp", 42, "ok")
//	_ = exp.Flush(true)
//
// # Status
//
//	NotInitialized --Init--> Ready --op--> Writing --ok--> Ready
//	                                               --store failure--> Error
//	Error --Flush ok--> Ready
//	any --Close--> NotInitialized
//
// Record-level rejections (empty payloads, oversized records, printf output
// that does not fit its scratch buffer) leave the session Ready. Only store
// failures move it to Error, where Write, Printf and the log helpers return
// ErrNotReady until a Flush succeeds or the session is re-initialized.
//
// # Flush Policy
//
// Flush(false) writes when auto-flush is enabled, the buffer is at least
// half full, or the optional flush interval has elapsed. Flush(true) always
// writes a non-empty buffer. A record that does not fit forces one flush and
// one retry; if it still does not fit it is rejected with ErrBufferFull.
//
// # Rotation
//
// After a successful write, a file larger than the configured maximum is
// closed and a new timestamped file is opened. Only the newest files
// created by the session are kept.
//
// # Re-entrancy
//
// Operations are guarded by a busy flag. A call made while another is in
// progress, for example from a callback running inside a store write,
// returns ErrBusy and changes nothing. Stats and Status do not take the flag.
package exporter
