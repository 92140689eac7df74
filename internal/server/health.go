// Package server implements the health and metrics endpoints of the
// export process.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// HealthResponse is the body of both probe endpoints.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// LivenessHandler reports whether the process should be restarted.
func LivenessHandler(checker HealthChecker, logger *slog.Logger) http.HandlerFunc {
	return probeHandler(logger, "liveness", func(r *http.Request) (bool, map[string]string) {
		return checker.Liveness(), nil
	}, "alive", "not alive")
}

// ReadinessHandler reports whether the export session accepts records and
// includes the session summary from the checker.
func ReadinessHandler(checker HealthChecker, logger *slog.Logger) http.HandlerFunc {
	return probeHandler(logger, "readiness", func(r *http.Request) (bool, map[string]string) {
		return checker.Readiness(r.Context()), checker.GetStatus()
	}, "ready", "not ready")
}

func probeHandler(
	logger *slog.Logger,
	probe string,
	check func(*http.Request) (bool, map[string]string),
	okStatus, failStatus string,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		ok, checks := check(r)
		response := HealthResponse{
			Status:    okStatus,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Checks:    checks,
		}
		code := http.StatusOK
		if !ok {
			response.Status = failStatus
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(code)
		if r.Method == http.MethodHead {
			return
		}

		if err := json.NewEncoder(w).Encode(response); err != nil {
			logger.Error("failed to encode probe response", "probe", probe, "error", err)
		}
	}
}
