package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"leasecli/pkg/contracts"
)

// HealthHandler answers liveness and version probes
type HealthHandler struct {
	started time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{started: time.Now()}
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":    "healthy",
		"app":       contracts.AppName,
		"version":   contracts.Version,
		"uptime":    time.Since(h.started).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Version handles GET /api/version
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, contracts.GetVersionInfo())
}
