package dto

import (
	"testing"
	"time"
)

func TestExportConfig_Durations(t *testing.T) {
	config := ExportConfig{FlushIntervalMS: 1500, PollIntervalMS: 5000, WriteBudgetMS: 250}

	if got := config.FlushInterval(); got != 1500*time.Millisecond {
		t.Errorf("FlushInterval() = %v", got)
	}
	if got := config.PollInterval(); got != 5*time.Second {
		t.Errorf("PollInterval() = %v", got)
	}
	if got := config.WriteBudget(); got != 250*time.Millisecond {
		t.Errorf("WriteBudget() = %v", got)
	}
}

func TestExportConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  ExportConfig
		wantErr bool
	}{
		{name: "valid", config: ExportConfig{BufferSizeKB: 64}},
		{name: "zero buffer", config: ExportConfig{}, wantErr: true},
		{name: "negative buffer", config: ExportConfig{BufferSizeKB: -1}, wantErr: true},
		{name: "negative flush interval", config: ExportConfig{BufferSizeKB: 1, FlushIntervalMS: -1}, wantErr: true},
		{name: "negative poll interval", config: ExportConfig{BufferSizeKB: 1, PollIntervalMS: -5}, wantErr: true},
		{name: "negative budget", config: ExportConfig{BufferSizeKB: 1, WriteBudgetMS: -1}, wantErr: true},
		{name: "negative record size", config: ExportConfig{BufferSizeKB: 1, MaxRecordSizeKB: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStorageConfig_Validate(t *testing.T) {
	if err := (&StorageConfig{}).Validate(); err == nil {
		t.Error("expected error for empty volume candidates")
	}
	if err := (&StorageConfig{VolumeCandidates: []string{"/media/usb0"}}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestShutdownConfig(t *testing.T) {
	config := ShutdownConfig{GracePeriodSeconds: 30}
	if config.GracePeriod() != 30*time.Second {
		t.Errorf("expected 30s, got %v", config.GracePeriod())
	}
}

func TestApplicationConfig_Validate(t *testing.T) {
	config := ApplicationConfig{
		Application: ApplicationInfo{Name: "telemetry-export"},
		Export:      ExportConfig{BufferSizeKB: 64},
		Storage:     StorageConfig{VolumeCandidates: []string{"./export"}},
	}
	if err := config.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	config.Application.Name = ""
	if err := config.Validate(); err == nil {
		t.Error("expected error for missing application name")
	}
}
