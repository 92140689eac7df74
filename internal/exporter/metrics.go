package exporter

import "github.com/jittakal/telemetryexport/internal/storage"

// MetricsCollector defines metrics operations for the exporter.
// A nil collector disables metrics.
type MetricsCollector interface {
	storage.MetricsCollector

	AddBytesWritten(n int)
	IncRecords(format string)
	IncFlushes(trigger string)
	ObserveFlushDuration(seconds float64)
	IncErrors(kind string)
	SetBufferedBytes(n int)
	IncRotations()
	IncSlowOperations(operation string)
}
