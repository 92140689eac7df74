package config

import (
	"github.com/jittakal/telemetryexport/internal/config/dto"
	"github.com/jittakal/telemetryexport/internal/exporter"
	"github.com/jittakal/telemetryexport/internal/storage"
	"github.com/jittakal/telemetryexport/pkg/record"
)

// ExporterConfig converts the loaded configuration into exporter settings.
func ExporterConfig(cfg *dto.ApplicationConfig) exporter.Config {
	maxFileSize := cfg.FileRotation.MaxFileSizeMB * 1024 * 1024
	if cfg.FileRotation.MaxFileSizeMB < 0 {
		maxFileSize = -1
	}

	return exporter.Config{
		BufferSize:    cfg.Export.BufferSizeKB * 1024,
		MaxRecordSize: cfg.Export.MaxRecordSizeKB * 1024,
		FlushInterval: cfg.Export.FlushInterval(),
		WriteBudget:   cfg.Export.WriteBudget(),
		File: storage.FileConfig{
			Prefix:    cfg.Storage.FilePrefix,
			Extension: cfg.Storage.FileExtension,
			MaxFiles:  cfg.FileRotation.MaxFiles,
		},
		Rotation: storage.PolicyConfig{
			MaxFileSizeBytes: maxFileSize,
		},
	}
}

// Format returns the configured record format. The loader has already
// validated it.
func Format(cfg *dto.ApplicationConfig) record.Format {
	f, _ := record.ParseFormat(cfg.Export.Format)
	return f
}
