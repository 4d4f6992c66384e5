package http

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"blog-admin/internal/handler/http/respond"
	"blog-admin/internal/observability/metrics"

	"github.com/sony/gobreaker"
)

// Health statuses.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthResponse is the body of /health and /ready.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus is the result of one health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Pinger is satisfied by *sql.DB and the database circuit breaker.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler serves /health, /ready and /live.
// A nil DB means the in-memory store is in use.
type HealthHandler struct {
	DB      Pinger
	Stats   func() sql.DBStats
	Breaker interface{ State() gobreaker.State }
	Version string
	Timeout time.Duration
}

func (h *HealthHandler) timeout() time.Duration {
	if h.Timeout > 0 {
		return h.Timeout
	}
	return 5 * time.Second
}

// ServeHTTP reports every check with details.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout())
	defer cancel()

	checks := map[string]CheckStatus{"database": h.checkDatabase(ctx)}
	if h.Breaker != nil {
		state := h.Breaker.State()
		cs := CheckStatus{Status: StatusHealthy, Details: map[string]any{"state": state.String()}}
		if state != gobreaker.StateClosed {
			cs.Status = StatusDegraded
		}
		checks["circuit_breaker"] = cs
	}
	h.write(w, checks)
}

// Ready reports whether the service can take traffic.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout())
	defer cancel()
	h.write(w, map[string]CheckStatus{"database": h.checkDatabase(ctx)})
}

// Live reports that the process is running.
func (h *HealthHandler) Live(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (h *HealthHandler) write(w http.ResponseWriter, checks map[string]CheckStatus) {
	status, code := StatusHealthy, http.StatusOK
	for _, c := range checks {
		if c.Status == StatusUnhealthy {
			status, code = StatusUnhealthy, http.StatusServiceUnavailable
			break
		}
	}
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) CheckStatus {
	if h.DB == nil {
		return CheckStatus{Status: StatusHealthy, Message: "in-memory store"}
	}
	if err := h.DB.PingContext(ctx); err != nil {
		slog.Default().Warn("health: database ping failed", slog.Any("error", err))
		return CheckStatus{Status: StatusUnhealthy, Message: "database unreachable"}
	}
	if h.Stats == nil {
		return CheckStatus{Status: StatusHealthy}
	}

	stats := h.Stats()
	metrics.UpdateDBConnectionStats(stats.InUse, stats.Idle)
	details := map[string]any{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	}
	if stats.MaxOpenConnections == 0 {
		return CheckStatus{Status: StatusDegraded, Message: "connection pool max connections not configured", Details: details}
	}
	utilization := float64(stats.InUse) / float64(stats.MaxOpenConnections) * 100
	details["utilization_percent"] = utilization
	if utilization >= 80.0 {
		return CheckStatus{Status: StatusDegraded, Message: "connection pool utilization above 80%", Details: details}
	}
	return CheckStatus{Status: StatusHealthy, Details: details}
}
