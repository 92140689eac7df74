// Package server implements HTTP server for health checks and metrics.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthChecker interface for checking component health.
type HealthChecker interface {
	Liveness() bool
	Readiness(ctx context.Context) bool
	GetStatus() map[string]string
}

// Config holds listener settings for the health and metrics servers.
// A zero port disables the corresponding server.
type Config struct {
	HealthPort    int
	LivenessPath  string
	ReadinessPath string
	MetricsPort   int
	MetricsPath   string
}

func (c Config) withDefaults() Config {
	if c.LivenessPath == "" {
		c.LivenessPath = "/health/live"
	}
	if c.ReadinessPath == "" {
		c.ReadinessPath = "/health/ready"
	}
	if c.MetricsPath == "" {
		c.MetricsPath = "/metrics"
	}
	return c
}

// Server represents the HTTP server for health and metrics.
type Server struct {
	servers []*http.Server
	logger  *slog.Logger
}

// NewServer creates a new HTTP server.
func NewServer(
	config Config,
	healthChecker HealthChecker,
	registry *prometheus.Registry,
	logger *slog.Logger,
) *Server {
	config = config.withDefaults()
	s := &Server{logger: logger}

	if config.HealthPort > 0 {
		healthMux := http.NewServeMux()
		healthMux.HandleFunc(config.LivenessPath, LivenessHandler(healthChecker, logger))
		healthMux.HandleFunc(config.ReadinessPath, ReadinessHandler(healthChecker, logger))
		s.servers = append(s.servers, newHTTPServer(config.HealthPort, healthMux))
	}

	if config.MetricsPort > 0 && registry != nil {
		metricsMux := http.NewServeMux()
		metricsMux.Handle(config.MetricsPath, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		s.servers = append(s.servers, newHTTPServer(config.MetricsPort, metricsMux))
	}

	return s
}

func newHTTPServer(port int, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

// Addrs returns the listen addresses of the enabled servers.
func (s *Server) Addrs() []string {
	addrs := make([]string, 0, len(s.servers))
	for _, srv := range s.servers {
		addrs = append(addrs, srv.Addr)
	}
	return addrs
}

// Start starts the enabled HTTP servers.
func (s *Server) Start() error {
	for _, srv := range s.servers {
		go func(srv *http.Server) {
			s.logger.Info("starting http server", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				s.logger.Error("http server failed", "addr", srv.Addr, "error", err)
			}
		}(srv)
	}
	return nil
}

// Shutdown gracefully shuts down the servers.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP servers")

	errChan := make(chan error, len(s.servers))
	for _, srv := range s.servers {
		go func(srv *http.Server) {
			errChan <- srv.Shutdown(ctx)
		}(srv)
	}

	var lastErr error
	for range s.servers {
		if err := <-errChan; err != nil {
			s.logger.Error("error shutting down server", "error", err)
			lastErr = err
		}
	}

	return lastErr
}
