package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/quickbite/storefront/internal/domain"
	"github.com/quickbite/storefront/internal/platform/httpx"
	"github.com/quickbite/storefront/internal/spa"
)

// ThemeHandlers exposes the persisted theme preference.
type ThemeHandlers struct {
	session *spa.Session
}

// ThemeHandlersDeps wires the theme endpoint dependencies.
type ThemeHandlersDeps struct {
	Session *spa.Session
}

// NewThemeHandlers constructs the theme endpoints enforcing dependency
// validation.
func NewThemeHandlers(deps ThemeHandlersDeps) (*ThemeHandlers, error) {
	if deps.Session == nil {
		return nil, errors.New("theme handlers: session is required")
	}
	return &ThemeHandlers{session: deps.Session}, nil
}

// Register mounts the theme routes on the API router.
func (h *ThemeHandlers) Register(r chi.Router) {
	r.Get("/theme", h.get)
	r.Post("/theme", h.set)
}

func (h *ThemeHandlers) get(w http.ResponseWriter, req *http.Request) {
	httpx.WriteJSON(req.Context(), w, http.StatusOK, map[string]any{
		"theme": h.session.Theme(),
	})
}

func (h *ThemeHandlers) set(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var payload struct {
		Theme string `json:"theme"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_body", "request body must be JSON", http.StatusBadRequest))
		return
	}

	theme := domain.Theme(strings.ToLower(strings.TrimSpace(payload.Theme)))
	if theme != domain.ThemeLight && theme != domain.ThemeDark {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_theme", "theme must be light or dark", http.StatusBadRequest))
		return
	}

	h.session.SetTheme(theme)
	httpx.WriteJSON(ctx, w, http.StatusOK, map[string]any{
		"theme": h.session.Theme(),
	})
}
