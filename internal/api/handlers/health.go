package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Togather-Foundation/glee/internal/metrics"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

const checkTimeout = 2 * time.Second

// Pinger is satisfied by every storage backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck is the detailed /health response.
type HealthCheck struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	GitCommit string                 `json:"git_commit"`
	Backend   string                 `json:"backend"`
	Checks    map[string]CheckResult `json:"checks"`
	Timestamp string                 `json:"timestamp"`
}

type CheckResult struct {
	Status    string         `json:"status"`
	Message   string         `json:"message,omitempty"`
	LatencyMs int64          `json:"latency_ms,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// HealthChecker reports storage reachability for every backend. The
// migration and job queue checks need a Postgres pool and are skipped
// without one.
type HealthChecker struct {
	store       Pinger
	pool        *pgxpool.Pool
	jobsEnabled bool
	backend     string
	version     string
	gitCommit   string
}

func NewHealthChecker(store Pinger, pool *pgxpool.Pool, jobsEnabled bool, backend, version, gitCommit string) *HealthChecker {
	return &HealthChecker{
		store:       store,
		pool:        pool,
		jobsEnabled: jobsEnabled,
		backend:     backend,
		version:     version,
		gitCommit:   gitCommit,
	}
}

// Health runs every check concurrently and reports the aggregate.
func (h *HealthChecker) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
			respondHealth(w, http.StatusServiceUnavailable, "shutting_down")
			return
		default:
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]func(context.Context) CheckResult{
			"storage": h.checkStorage,
		}
		if h.pool != nil {
			checks["migrations"] = h.checkMigrations
			if h.jobsEnabled {
				checks["job_queue"] = h.checkJobQueue
			}
		}

		var mu sync.Mutex
		results := make(map[string]CheckResult, len(checks))
		g, gctx := errgroup.WithContext(ctx)
		for name, check := range checks {
			g.Go(func() error {
				res := check(gctx)
				mu.Lock()
				results[name] = res
				mu.Unlock()
				recordCheck(name, res)
				return nil
			})
		}
		_ = g.Wait()

		overall := "healthy"
		code := http.StatusOK
		for _, res := range results {
			if res.Status == "fail" {
				overall = "unhealthy"
				code = http.StatusServiceUnavailable
				break
			}
			if res.Status == "warn" {
				overall = "degraded"
			}
		}

		writeJSON(w, code, HealthCheck{
			Status:    overall,
			Version:   h.version,
			GitCommit: h.gitCommit,
			Backend:   h.backend,
			Checks:    results,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// Ready reports 503 until storage answers a ping.
func (h *HealthChecker) Ready() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := h.checkStorage(r.Context())
		if res.Status != "pass" {
			respondHealth(w, http.StatusServiceUnavailable, "unavailable")
			return
		}
		respondHealth(w, http.StatusOK, "ready")
	}
}

func (h *HealthChecker) checkStorage(ctx context.Context) CheckResult {
	if h.store == nil {
		return CheckResult{Status: "fail", Message: "Storage not initialized"}
	}
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	err := h.store.Ping(ctx)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		details := map[string]any{"error": err.Error()}
		message := "Storage ping failed"
		if errors.Is(err, context.DeadlineExceeded) {
			message = "Storage ping timed out after 2 seconds"
		}
		switch h.backend {
		case "postgres":
			details["remediation"] = "Check DATABASE_URL and PostgreSQL service status"
		case "sqlite":
			details["remediation"] = "Check SQLITE_PATH is writable"
		case "firestore":
			details["remediation"] = "Check FIRESTORE_PROJECT_ID and service account credentials"
		}
		return CheckResult{Status: "fail", Message: message, LatencyMs: latency, Details: details}
	}

	res := CheckResult{
		Status:    "pass",
		Message:   fmt.Sprintf("%s reachable", h.backend),
		LatencyMs: latency,
	}
	if h.pool != nil {
		stats := h.pool.Stat()
		res.Details = map[string]any{
			"max_connections":      stats.MaxConns(),
			"total_connections":    stats.TotalConns(),
			"idle_connections":     stats.IdleConns(),
			"acquired_connections": stats.AcquiredConns(),
		}
	}
	return res
}

func (h *HealthChecker) checkMigrations(ctx context.Context) CheckResult {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	var version int64
	var dirty bool
	err := h.pool.QueryRow(ctx, `SELECT version, dirty FROM schema_migrations ORDER BY version DESC LIMIT 1`).Scan(&version, &dirty)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		message := "Failed to query migration version"
		if strings.Contains(err.Error(), "does not exist") {
			message = "Migrations table not found"
		}
		return CheckResult{
			Status:    "fail",
			Message:   message,
			LatencyMs: latency,
			Details: map[string]any{
				"error":       err.Error(),
				"remediation": "Run: glee migrate up",
			},
		}
	}
	if dirty {
		return CheckResult{
			Status:    "fail",
			Message:   "Database in dirty migration state",
			LatencyMs: latency,
			Details: map[string]any{
				"version": version,
				"dirty":   true,
				"action":  "Do NOT run new migrations until this is resolved",
			},
		}
	}
	return CheckResult{
		Status:    "pass",
		Message:   fmt.Sprintf("Migrations applied (version %d)", version),
		LatencyMs: latency,
		Details:   map[string]any{"version": version, "dirty": false},
	}
}

func (h *HealthChecker) checkJobQueue(ctx context.Context) CheckResult {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	var exists bool
	err := h.pool.QueryRow(ctx, `SELECT to_regclass('public.river_job') IS NOT NULL`).Scan(&exists)
	if err != nil {
		return CheckResult{
			Status:    "fail",
			Message:   "Failed to check job queue table",
			LatencyMs: time.Since(start).Milliseconds(),
			Details:   map[string]any{"error": err.Error()},
		}
	}
	if !exists {
		return CheckResult{
			Status:    "warn",
			Message:   "River job queue table not found",
			LatencyMs: time.Since(start).Milliseconds(),
			Details:   map[string]any{"remediation": "Run: glee migrate up"},
		}
	}

	var active int64
	err = h.pool.QueryRow(ctx, `SELECT COUNT(*) FROM river_job WHERE state = ANY($1)`, []string{"available", "running"}).Scan(&active)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return CheckResult{
			Status:    "fail",
			Message:   "Failed to query job queue",
			LatencyMs: latency,
			Details:   map[string]any{"error": err.Error()},
		}
	}
	return CheckResult{
		Status:    "pass",
		Message:   "River job queue operational",
		LatencyMs: latency,
		Details:   map[string]any{"active_jobs": active},
	}
}

func recordCheck(name string, res CheckResult) {
	value := 0.0
	switch res.Status {
	case "pass":
		value = 2
	case "warn":
		value = 1
	}
	metrics.HealthCheckStatus.WithLabelValues(name).Set(value)
	metrics.HealthCheckLatency.WithLabelValues(name).Set(float64(res.LatencyMs))
}

// Healthz is the liveness probe.
func Healthz() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondHealth(w, http.StatusOK, "ok")
	})
}

type healthResponse struct {
	Status string `json:"status"`
}

func respondHealth(w http.ResponseWriter, status int, value string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(healthResponse{Status: value})
}
