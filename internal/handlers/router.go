package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/quickbite/storefront/internal/platform/httpx"
)

// RouteRegistrar registers a set of routes against the provided router.
type RouteRegistrar func(r chi.Router)

type routerConfig struct {
	middlewares []func(http.Handler) http.Handler
	health      *HealthHandlers
	static      http.Handler

	visits RouteRegistrar
	render RouteRegistrar
	theme  RouteRegistrar
}

// Option customises the router configuration before construction.
type Option func(*routerConfig)

const (
	defaultTimeout    = 60 * time.Second
	errorNotFoundCode = "route_not_found"
)

// NewRouter constructs the chi router with shared middleware, the /api
// groups, and the static storefront fallback.
func NewRouter(opts ...Option) chi.Router {
	cfg := routerConfig{
		middlewares: []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Timeout(defaultTimeout),
		},
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	r := chi.NewRouter()

	if cfg.health == nil {
		cfg.health = NewHealthHandlers()
	}

	for _, mw := range cfg.middlewares {
		if mw != nil {
			r.Use(mw)
		}
	}

	r.Get("/healthz", cfg.health.Healthz)

	r.Route("/api", func(api chi.Router) {
		api.Use(corsMiddleware)

		if cfg.visits != nil {
			cfg.visits(api)
		}
		if cfg.render != nil {
			cfg.render(api)
		}
		if cfg.theme != nil {
			cfg.theme(api)
		}

		api.NotFound(func(w http.ResponseWriter, req *http.Request) {
			httpx.WriteError(req.Context(), w, httpx.NewError(errorNotFoundCode, fmt.Sprintf("no route for %s", req.URL.Path), http.StatusNotFound))
		})
		api.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
			httpx.WriteError(req.Context(), w, httpx.NewError("method_not_allowed", fmt.Sprintf("method %s not allowed on %s", req.Method, req.URL.Path), http.StatusMethodNotAllowed))
		})
	})

	// Everything else is the static storefront.
	if cfg.static != nil {
		r.NotFound(cfg.static.ServeHTTP)
	} else {
		r.NotFound(func(w http.ResponseWriter, req *http.Request) {
			httpx.WriteError(req.Context(), w, httpx.NewError(errorNotFoundCode, fmt.Sprintf("no route for %s", req.URL.Path), http.StatusNotFound))
		})
	}

	return r
}

// WithMiddlewares appends additional global middleware to the router.
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(cfg *routerConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// WithHealthHandlers overrides the handlers used for the /healthz endpoint.
func WithHealthHandlers(h *HealthHandlers) Option {
	return func(cfg *routerConfig) {
		cfg.health = h
	}
}

// WithStaticHandler configures the fallback handler serving storefront
// assets.
func WithStaticHandler(h http.Handler) Option {
	return func(cfg *routerConfig) {
		cfg.static = h
	}
}

// WithVisitRoutes configures the registrar responsible for the visit log
// endpoints.
func WithVisitRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.visits = reg
	}
}

// WithRenderRoutes configures the registrar responsible for the view
// rendering endpoint.
func WithRenderRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.render = reg
	}
}

// WithThemeRoutes configures the registrar responsible for the theme
// preference endpoints.
func WithThemeRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.theme = reg
	}
}

// corsMiddleware applies the permissive CORS policy of the visit API to
// every /api response and answers preflight requests before routing.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		setCORSHeaders(w)
		if req.Method == http.MethodOptions {
			httpx.NoContent(w, http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, req)
	})
}

func setCORSHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}
