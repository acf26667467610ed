package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"histcli/internal/services"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	service *services.DataService
	logger  *slog.Logger
	started time.Time
	version string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(service *services.DataService, logger *slog.Logger, version string) *HealthHandler {
	return &HealthHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "health")),
		started: time.Now(),
		version: version,
	}
}

// HealthCheck handles GET /healthz. The process is healthy as soon as it
// can serve requests; dataset state is reported but never fails the probe.
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	}

	if ds, err := h.service.Dataset(); err == nil {
		body["dataset"] = map[string]interface{}{
			"records":  ds.Len(),
			"symbols":  len(ds.Symbols()),
			"built_at": ds.BuiltAt().Format(time.RFC3339),
		}
	} else {
		body["dataset"] = map[string]interface{}{"records": 0, "symbols": 0}
	}

	render.JSON(w, r, body)
}

// ReadinessCheck handles GET /healthz/ready: ready only once a dataset has
// been built.
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.Dataset(); err != nil {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, map[string]interface{}{"status": "not ready", "reason": err.Error()})
		return
	}
	render.JSON(w, r, map[string]interface{}{"status": "ready"})
}
