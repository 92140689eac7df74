package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"

	"github.com/jittakal/telemetryexport/internal/config"
	"github.com/jittakal/telemetryexport/internal/exporter"
	"github.com/jittakal/telemetryexport/internal/observability"
	"github.com/jittakal/telemetryexport/internal/server"
	"github.com/jittakal/telemetryexport/internal/storage"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("application error: %v", err)
	}
}

type cliOptions struct {
	configPath string
	inputPath  string
	timestamp  bool
}

func newFlagSet() (*pflag.FlagSet, *cliOptions) {
	opts := &cliOptions{}
	flags := pflag.NewFlagSet("telemetryexport", pflag.ContinueOnError)
	flags.StringVar(&opts.configPath, "config", "", "path to configuration file")
	flags.StringVar(&opts.inputPath, "input", "-", "file to read records from, one per line; - reads stdin")
	flags.BoolVar(&opts.timestamp, "timestamp", false, "prefix binary frame headers with a timestamp")
	config.RegisterFlags(flags)
	return flags, opts
}

func run(args []string) error {
	// Parse command-line flags
	flags, opts := newFlagSet()
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	// Load configuration
	// Priority: CLI flag > CONFIG_PATH env var > defaults only
	cfgPath := opts.configPath
	if cfgPath == "" {
		cfgPath = os.Getenv("CONFIG_PATH")
	}

	loader := config.NewLoader()
	if err := loader.BindFlags(flags); err != nil {
		return err
	}
	cfg, err := loader.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize observability
	logger := observability.NewLogger(observability.LoggingConfig{
		Level:  cfg.Observability.Logging.Level,
		Format: cfg.Observability.Logging.Format,
		Output: cfg.Observability.Logging.Output,
	}).With("session_id", uuid.NewString())
	logger.Info("starting telemetry export",
		"version", cfg.Application.Version,
		"environment", cfg.Application.Environment,
		"format", cfg.Export.Format,
	)

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	// Open the export session
	provider := storage.NewDirProvider(afero.NewOsFs(), cfg.Storage.VolumeCandidates, logger)
	exp := exporter.New(config.ExporterConfig(cfg), provider, logger, metrics)
	if err := exp.Init(config.Format(cfg), cfg.Export.AutoFlush); err != nil {
		return fmt.Errorf("failed to initialize export session: %w", err)
	}
	defer func() {
		if err := exp.Close(); err != nil {
			logger.Error("failed to close export session", "error", err)
		}
		logger.Info("export session closed")
	}()

	var snapshot server.Snapshot
	snapshot.Store(exp.Stats())

	// Start HTTP server
	serverConfig := server.Config{}
	if cfg.Observability.Health.Enabled {
		serverConfig.HealthPort = cfg.Observability.Health.Port
		serverConfig.LivenessPath = cfg.Observability.Health.LivenessPath
		serverConfig.ReadinessPath = cfg.Observability.Health.ReadinessPath
	}
	if cfg.Observability.Metrics.Enabled {
		serverConfig.MetricsPort = cfg.Observability.Metrics.Port
		serverConfig.MetricsPath = cfg.Observability.Metrics.Path
	}
	httpServer := server.NewServer(serverConfig, server.NewExportChecker(&snapshot), registry, logger)
	if err := httpServer.Start(); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.GracePeriod())
		defer cancel()
		_ = httpServer.Shutdown(ctx)
	}()

	input, err := openInput(opts.inputPath)
	if err != nil {
		return err
	}
	defer input.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lines := make(chan []byte, 64)
	go func() {
		if err := readLines(ctx, input, lines); err != nil {
			logger.Error("failed to read input", "error", err)
		}
	}()

	err = pump(ctx, exp, lines, pumpConfig{
		PollInterval: cfg.Export.PollInterval(),
		Timestamp:    opts.timestamp,
		Publish:      snapshot.Store,
	}, logger)

	stats := exp.Stats()
	logger.Info("export finished",
		"records", stats.RecordsWritten,
		"bytes", stats.BytesWritten,
		"files", stats.FilesCreated,
		"file", stats.FileName,
	)
	return err
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, nil
}
