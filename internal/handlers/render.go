package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quickbite/storefront/internal/platform/httpx"
	"github.com/quickbite/storefront/internal/spa"
)

// RenderHandlers exposes server-side rendering of storefront views.
type RenderHandlers struct {
	engine *spa.Engine
}

// RenderHandlersDeps wires the render endpoint dependencies.
type RenderHandlersDeps struct {
	Engine *spa.Engine
}

// NewRenderHandlers constructs the render endpoint enforcing dependency
// validation.
func NewRenderHandlers(deps RenderHandlersDeps) (*RenderHandlers, error) {
	if deps.Engine == nil {
		return nil, errors.New("render handlers: engine is required")
	}
	return &RenderHandlers{engine: deps.Engine}, nil
}

// Register mounts the render route on the API router.
func (h *RenderHandlers) Register(r chi.Router) {
	r.Get("/render", h.render)
}

// render dispatches the requested fragment and returns the view. Fragment
// parsing never fails; unknown fragments render the home view.
func (h *RenderHandlers) render(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	fragment := req.URL.Query().Get("fragment")
	view := h.engine.Dispatch(spa.ParseFragment(fragment))

	httpx.WriteJSON(ctx, w, http.StatusOK, map[string]any{
		"title": view.Title,
		"html":  view.HTML,
	})
}
