package handlers

import (
	"net/http"
	"time"

	"github.com/quickbite/storefront/internal/platform/httpx"
)

// HealthHandlers exposes the liveness endpoint.
type HealthHandlers struct {
	started time.Time
	clock   func() time.Time
}

// NewHealthHandlers constructs the health endpoints with a real clock.
func NewHealthHandlers() *HealthHandlers {
	return &HealthHandlers{started: time.Now(), clock: time.Now}
}

// Healthz reports process liveness.
func (h *HealthHandlers) Healthz(w http.ResponseWriter, req *http.Request) {
	now := h.clock()
	httpx.WriteJSON(req.Context(), w, http.StatusOK, map[string]any{
		"status":    "ok",
		"uptime":    now.Sub(h.started).String(),
		"timestamp": now.UTC().Format(time.RFC3339),
	})
}
