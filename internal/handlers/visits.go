package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/quickbite/storefront/internal/platform/httpx"
	"github.com/quickbite/storefront/internal/platform/observability"
	"github.com/quickbite/storefront/internal/platform/requestctx"
	"github.com/quickbite/storefront/internal/repositories"
	"github.com/quickbite/storefront/internal/services"
)

const defaultVisitListLimit = 20

// VisitHandlers exposes the visit log endpoints.
type VisitHandlers struct {
	visits services.VisitService
	limit  int
}

// VisitHandlersDeps wires the visit endpoint dependencies.
type VisitHandlersDeps struct {
	Visits services.VisitService
	// ListLimit caps GET /api/visits responses; defaults to 20.
	ListLimit int
}

// NewVisitHandlers constructs the visit endpoints enforcing dependency
// validation.
func NewVisitHandlers(deps VisitHandlersDeps) (*VisitHandlers, error) {
	if deps.Visits == nil {
		return nil, errors.New("visit handlers: visit service is required")
	}
	limit := deps.ListLimit
	if limit <= 0 {
		limit = defaultVisitListLimit
	}
	return &VisitHandlers{visits: deps.Visits, limit: limit}, nil
}

// Register mounts the visit routes on the API router.
func (h *VisitHandlers) Register(r chi.Router) {
	r.Post("/visit", h.record)
	r.Get("/visits", h.list)
	r.Get("/visits/recent", h.listRecent)
}

// record logs the calling visitor. The response is best-effort: even when
// the log write fails the visitor still gets the built record back.
func (h *VisitHandlers) record(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	sample := services.VisitSample{
		IP:        services.ClientIP(req.RemoteAddr, req.Header.Get("X-Forwarded-For")),
		UserAgent: observability.SanitizeUserAgent(req.UserAgent()),
	}

	// Deep failures still answer with the record that was built.
	visit, err := h.visits.LogVisit(ctx, sample)
	if err != nil {
		requestctx.Logger(ctx).Warn("visit append failed", zap.Error(err))
	}

	httpx.WriteJSON(ctx, w, http.StatusOK, map[string]any{
		"ok":    true,
		"visit": visit,
	})
}

// list serves the complete log in append order.
func (h *VisitHandlers) list(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	visits, err := h.visits.ListVisits(ctx)
	h.respondVisits(ctx, w, visits, err)
}

// listRecent serves the bounded most-recent-first slice the visitor panel
// consumes.
func (h *VisitHandlers) listRecent(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	visits, err := h.visits.ListRecentVisits(ctx, h.limit)
	h.respondVisits(ctx, w, visits, err)
}

func (h *VisitHandlers) respondVisits(ctx context.Context, w http.ResponseWriter, visits []services.VisitRecord, err error) {
	if err != nil {
		var repoErr *repositories.Error
		if errors.As(err, &repoErr) && repoErr.Unavailable {
			httpx.WriteError(ctx, w, httpx.NewError("visits_unavailable", "visit log unavailable", http.StatusServiceUnavailable))
			return
		}
		httpx.WriteError(ctx, w, httpx.NewError("visits_failed", "failed to read visit log", http.StatusInternalServerError))
		return
	}
	if visits == nil {
		visits = []services.VisitRecord{}
	}

	httpx.WriteJSON(ctx, w, http.StatusOK, map[string]any{
		"visits": visits,
	})
}
