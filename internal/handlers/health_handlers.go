package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is anything that can report its own connectivity
type Pinger interface {
	Ping(ctx context.Context) error
}

// JobStatusReporter reports scheduled background jobs
type JobStatusReporter interface {
	GetJobStatus() map[string]interface{}
}

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	db        Pinger
	cache     Pinger
	jobs      JobStatusReporter
	startedAt time.Time
}

// NewHealthHandlers creates a new health handlers instance. jobs may be nil.
func NewHealthHandlers(db Pinger, cache Pinger, jobs JobStatusReporter) *HealthHandlers {
	return &HealthHandlers{
		db:        db,
		cache:     cache,
		jobs:      jobs,
		startedAt: time.Now(),
	}
}

// LivenessCheck determines if the application is running
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// ReadinessCheck determines if the application is ready to serve traffic
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	services := map[string]string{"database": "healthy", "redis": "healthy"}
	ready := true

	if err := h.db.Ping(ctx); err != nil {
		services["database"] = "unhealthy"
		ready = false
	}
	if err := h.cache.Ping(ctx); err != nil {
		services["redis"] = "unhealthy"
		ready = false
	}

	if !ready {
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"status":   "not_ready",
			"message":  "Critical services unavailable",
			"services": services,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":   "ready",
		"message":  "All systems operational",
		"services": services,
	})
}

// JobStatus lists scheduled background jobs
func (h *HealthHandlers) JobStatus(c echo.Context) error {
	if h.jobs == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{"total_jobs": 0, "jobs": []string{}})
	}
	return c.JSON(http.StatusOK, h.jobs.GetJobStatus())
}
