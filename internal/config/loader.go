package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jittakal/telemetryexport/internal/config/dto"
	"github.com/jittakal/telemetryexport/pkg/record"
)

// Loader handles configuration loading and validation
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"format":         "export.format",
	"auto-flush":     "export.auto_flush",
	"buffer-size-kb": "export.buffer_size_kb",
	"volume":         "storage.volume_candidates",
	"log-level":      "observability.logging.level",
	"log-format":     "observability.logging.format",
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("format", "json", "record format: json, csv, binary or text")
	fs.Bool("auto-flush", false, "flush after every record")
	fs.Int("buffer-size-kb", 64, "accumulator capacity in KB")
	fs.StringSlice("volume", nil, "candidate export directories, probed in order")
	fs.String("log-level", "info", "log level: debug, info, warn or error")
	fs.String("log-format", "json", "log format: json or text")
}

// BindFlags binds the flags registered by RegisterFlags so that flags set
// on the command line override file and environment values.
func (l *Loader) BindFlags(fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := l.v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load loads configuration from file and environment variables
func (l *Loader) Load(path string) (*dto.ApplicationConfig, error) {
	// Set defaults
	l.setDefaults()

	// Load from file if provided
	if path != "" {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	// Expand environment variables in config values
	// Only expand if the value contains ${...} pattern
	for _, key := range l.v.AllKeys() {
		value := l.v.GetString(key)
		if strings.Contains(value, "${") {
			l.v.Set(key, os.ExpandEnv(value))
		}
	}

	// Unmarshal configuration
	var config dto.ApplicationConfig
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := l.Validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func (l *Loader) setDefaults() {
	// Application defaults
	l.v.SetDefault("application.name", "telemetry-export")
	l.v.SetDefault("application.version", "1.0.0")
	l.v.SetDefault("application.environment", "development")

	// Export defaults
	l.v.SetDefault("export.format", "json")
	l.v.SetDefault("export.auto_flush", false)
	l.v.SetDefault("export.buffer_size_kb", 64)
	l.v.SetDefault("export.flush_interval_ms", 0)
	l.v.SetDefault("export.poll_interval_ms", 5000)
	l.v.SetDefault("export.write_budget_ms", 250)
	l.v.SetDefault("export.max_record_size_kb", 16*1024)

	// Storage defaults
	l.v.SetDefault("storage.volume_candidates", []string{"./export"})
	l.v.SetDefault("storage.file_prefix", "plouton_data_")
	l.v.SetDefault("storage.file_extension", ".dat")

	// File rotation defaults
	l.v.SetDefault("file_rotation.max_file_size_mb", 1)
	l.v.SetDefault("file_rotation.max_files", 0)

	// Observability defaults
	l.v.SetDefault("observability.logging.level", "info")
	l.v.SetDefault("observability.logging.format", "json")
	l.v.SetDefault("observability.logging.output", "stderr")
	l.v.SetDefault("observability.metrics.enabled", true)
	l.v.SetDefault("observability.metrics.port", 9090)
	l.v.SetDefault("observability.metrics.path", "/metrics")
	l.v.SetDefault("observability.health.enabled", true)
	l.v.SetDefault("observability.health.port", 8080)
	l.v.SetDefault("observability.health.liveness_path", "/health/live")
	l.v.SetDefault("observability.health.readiness_path", "/health/ready")

	// Shutdown defaults
	l.v.SetDefault("shutdown.grace_period_seconds", 10)
}

// Validate validates the configuration
func (l *Loader) Validate(config *dto.ApplicationConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}

	// Format validation
	if _, err := record.ParseFormat(config.Export.Format); err != nil {
		return err
	}

	// File rotation validation
	if config.FileRotation.MaxFiles < 0 {
		return fmt.Errorf("invalid file_rotation.max_files: %d", config.FileRotation.MaxFiles)
	}

	// Port validation
	if config.Observability.Metrics.Enabled {
		if config.Observability.Metrics.Port < 1 || config.Observability.Metrics.Port > 65535 {
			return fmt.Errorf("invalid metrics port: %d", config.Observability.Metrics.Port)
		}
	}
	if config.Observability.Health.Enabled {
		if config.Observability.Health.Port < 1 || config.Observability.Health.Port > 65535 {
			return fmt.Errorf("invalid health port: %d", config.Observability.Health.Port)
		}
	}

	return nil
}
