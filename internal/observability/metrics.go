package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jittakal/telemetryexport/internal/exporter"
)

var _ exporter.MetricsCollector = (*Metrics)(nil)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Write path metrics
	BytesWritten   prometheus.Counter
	RecordsWritten *prometheus.CounterVec
	Flushes        *prometheus.CounterVec
	FlushDuration  prometheus.Histogram
	BufferedBytes  prometheus.Gauge
	Errors         *prometheus.CounterVec
	SlowOperations *prometheus.CounterVec

	// Storage metrics
	FilesCreated  prometheus.Counter
	Rotations     prometheus.Counter
	FileSize      prometheus.Histogram
	StorageErrors *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		// Write path metrics
		BytesWritten: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "export_bytes_written_total",
				Help: "Total number of bytes written to export files",
			},
		),
		RecordsWritten: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "export_records_total",
				Help: "Total number of records accepted by the exporter",
			},
			[]string{"format"},
		),
		Flushes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "export_flushes_total",
				Help: "Total number of buffer flushes",
			},
			[]string{"trigger"},
		),
		FlushDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "export_flush_duration_seconds",
				Help:    "Duration of buffer flushes including the medium sync",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
		),
		BufferedBytes: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "export_buffer_bytes",
				Help: "Bytes currently pending in the export buffer",
			},
		),
		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "export_errors_total",
				Help: "Total number of failed exporter operations by error kind",
			},
			[]string{"kind"},
		),
		SlowOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "export_slow_operations_total",
				Help: "Store operations that exceeded the write budget",
			},
			[]string{"operation"},
		),

		// Storage metrics
		FilesCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "export_files_created_total",
				Help: "Total number of export files created",
			},
		),
		Rotations: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "export_rotations_total",
				Help: "Total number of size-triggered file rotations",
			},
		),
		FileSize: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "export_file_size_bytes",
				Help:    "Size of the current export file after each append",
				Buckets: prometheus.ExponentialBuckets(4*1024, 2, 10), // 4KB to 2MB
			},
		),
		StorageErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "export_storage_errors_total",
				Help: "Total number of storage errors",
			},
			[]string{"operation"},
		),
	}
}

// AddBytesWritten adds n to the bytes written counter.
func (m *Metrics) AddBytesWritten(n int) {
	m.BytesWritten.Add(float64(n))
}

// IncRecords increments the records counter.
func (m *Metrics) IncRecords(format string) {
	m.RecordsWritten.WithLabelValues(format).Inc()
}

// IncFlushes increments the flushes counter.
func (m *Metrics) IncFlushes(trigger string) {
	m.Flushes.WithLabelValues(trigger).Inc()
}

// ObserveFlushDuration observes flush duration.
func (m *Metrics) ObserveFlushDuration(seconds float64) {
	m.FlushDuration.Observe(seconds)
}

// SetBufferedBytes sets the buffered bytes gauge.
func (m *Metrics) SetBufferedBytes(n int) {
	m.BufferedBytes.Set(float64(n))
}

// IncErrors increments the errors counter.
func (m *Metrics) IncErrors(kind string) {
	m.Errors.WithLabelValues(kind).Inc()
}

// IncSlowOperations increments the slow operations counter.
func (m *Metrics) IncSlowOperations(operation string) {
	m.SlowOperations.WithLabelValues(operation).Inc()
}

// IncFilesCreated increments files created counter.
func (m *Metrics) IncFilesCreated() {
	m.FilesCreated.Inc()
}

// IncRotations increments the rotations counter.
func (m *Metrics) IncRotations() {
	m.Rotations.Inc()
}

// ObserveFileSize observes file size.
func (m *Metrics) ObserveFileSize(size float64) {
	m.FileSize.Observe(size)
}

// IncStorageErrors increments storage errors counter.
func (m *Metrics) IncStorageErrors(operation string) {
	m.StorageErrors.WithLabelValues(operation).Inc()
}
