package dto

import (
	"fmt"
	"time"
)

// ApplicationConfig is the root configuration structure
type ApplicationConfig struct {
	Application   ApplicationInfo     `mapstructure:"application"`
	Export        ExportConfig        `mapstructure:"export"`
	Storage       StorageConfig       `mapstructure:"storage"`
	FileRotation  FileRotationConfig  `mapstructure:"file_rotation"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Shutdown      ShutdownConfig      `mapstructure:"shutdown"`
}

// ApplicationInfo contains application metadata
type ApplicationInfo struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ExportConfig contains export engine settings
type ExportConfig struct {
	Format          string `mapstructure:"format"`
	AutoFlush       bool   `mapstructure:"auto_flush"`
	BufferSizeKB    int    `mapstructure:"buffer_size_kb"`
	FlushIntervalMS int    `mapstructure:"flush_interval_ms"`
	PollIntervalMS  int    `mapstructure:"poll_interval_ms"`
	WriteBudgetMS   int    `mapstructure:"write_budget_ms"`
	MaxRecordSizeKB int    `mapstructure:"max_record_size_kb"`
}

// FlushInterval returns the engine flush interval.
func (c ExportConfig) FlushInterval() time.Duration {
	return time.Duration(c.FlushIntervalMS) * time.Millisecond
}

// PollInterval returns how often the caller asks for a non-forced flush.
func (c ExportConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// WriteBudget returns the soft per-call store budget.
func (c ExportConfig) WriteBudget() time.Duration {
	return time.Duration(c.WriteBudgetMS) * time.Millisecond
}

// StorageConfig contains export volume configuration
type StorageConfig struct {
	VolumeCandidates []string `mapstructure:"volume_candidates"`
	FilePrefix       string   `mapstructure:"file_prefix"`
	FileExtension    string   `mapstructure:"file_extension"`
}

// FileRotationConfig contains file rotation settings
type FileRotationConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
	MaxFiles      int   `mapstructure:"max_files"`
}

// ObservabilityConfig contains observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Health  HealthConfig  `mapstructure:"health"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig contains metrics settings
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

// HealthConfig contains health check settings
type HealthConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Port          int    `mapstructure:"port"`
	LivenessPath  string `mapstructure:"liveness_path"`
	ReadinessPath string `mapstructure:"readiness_path"`
}

// ShutdownConfig contains shutdown settings
type ShutdownConfig struct {
	GracePeriodSeconds int `mapstructure:"grace_period_seconds"`
}

// GracePeriod returns the shutdown grace period.
func (c ShutdownConfig) GracePeriod() time.Duration {
	return time.Duration(c.GracePeriodSeconds) * time.Second
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if c.Application.Name == "" {
		return fmt.Errorf("application name is required")
	}
	if err := c.Export.Validate(); err != nil {
		return err
	}
	return c.Storage.Validate()
}

// Validate validates export configuration.
func (c *ExportConfig) Validate() error {
	if c.BufferSizeKB <= 0 {
		return fmt.Errorf("export buffer size must be positive, got %d KB", c.BufferSizeKB)
	}
	if c.FlushIntervalMS < 0 || c.PollIntervalMS < 0 || c.WriteBudgetMS < 0 {
		return fmt.Errorf("export intervals and budgets must not be negative")
	}
	if c.MaxRecordSizeKB < 0 {
		return fmt.Errorf("export max record size must not be negative")
	}
	return nil
}

// Validate validates storage configuration.
func (c *StorageConfig) Validate() error {
	if len(c.VolumeCandidates) == 0 {
		return fmt.Errorf("at least one storage volume candidate is required")
	}
	return nil
}
