package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/quickbite/storefront/internal/handlers"
	"github.com/quickbite/storefront/internal/platform/config"
	"github.com/quickbite/storefront/internal/platform/geoip"
	"github.com/quickbite/storefront/internal/platform/observability"
	"github.com/quickbite/storefront/internal/repositories/jsonfile"
	"github.com/quickbite/storefront/internal/services"
	"github.com/quickbite/storefront/internal/spa"
	"github.com/quickbite/storefront/internal/storage"
)

func main() {
	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("storefront")
	ctx := observability.WithLogger(context.Background(), logger)

	cfg, err := config.Load()
	if err != nil {
		var invalid *config.ValidationError
		if errors.As(err, &invalid) {
			logger.Fatal("invalid configuration", zap.Strings("fields", invalid.Fields()))
		}
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	stateStore, err := storage.NewFileStore(cfg.Storefront.StatePath())
	if err != nil {
		logger.Fatal("failed to open client state store", zap.Error(err))
	}

	visitRepo, err := jsonfile.NewVisitRepository(cfg.Storefront.VisitPath())
	if err != nil {
		logger.Fatal("failed to open visit log", zap.Error(err))
	}

	geoClient, err := geoip.NewClient(geoip.ClientDeps{
		BaseURL: cfg.GeoIP.BaseURL,
		Timeout: cfg.GeoIP.Timeout,
	})
	if err != nil {
		logger.Fatal("failed to initialise geoip client", zap.Error(err))
	}

	catalogLogger := logger.Named("catalog")
	catalog := services.NewCatalogService(services.CatalogServiceDeps{
		Logger: observability.EventLogger(catalogLogger),
	})
	records, err := services.LoadEmbeddedMeals()
	if err != nil {
		catalogLogger.Error("embedded meal dataset unusable", zap.Error(err))
	}
	catalog.Rebuild(records)
	catalogLogger.Info("catalog built", zap.Int("products", catalog.Len()))

	badgeLogger := logger.Named("cart")
	cartService, err := services.NewCartService(services.CartServiceDeps{
		Store: stateStore,
		OnCountChange: func(count int) {
			badgeLogger.Debug("cart badge updated", zap.Int("count", count))
		},
		Logger: observability.EventLogger(badgeLogger),
	})
	if err != nil {
		logger.Fatal("failed to initialise cart service", zap.Error(err))
	}

	pricer := services.NewPricingEngine(services.PricingEngineDeps{
		DeliveryFeeCents:   cfg.Storefront.DeliveryFeeCents,
		TaxRateBasisPoints: cfg.Storefront.TaxRateBasisPoints,
	})

	visitService, err := services.NewVisitService(services.VisitServiceDeps{
		Repository: visitRepo,
		Geo:        geoClient,
		Clock:      time.Now,
		Logger:     observability.EventLogger(logger.Named("visits")),
	})
	if err != nil {
		logger.Fatal("failed to initialise visit service", zap.Error(err))
	}

	engine, err := spa.NewEngine(spa.EngineDeps{
		Catalog: catalog,
		Cart:    cartService,
		Pricer:  pricer,
		Logger:  observability.EventLogger(logger.Named("views")),
	})
	if err != nil {
		logger.Fatal("failed to initialise storefront engine", zap.Error(err))
	}

	session, err := spa.NewSession(spa.SessionDeps{
		Store:  stateStore,
		Logger: observability.EventLogger(logger.Named("session")),
	})
	if err != nil {
		logger.Fatal("failed to initialise session", zap.Error(err))
	}
	logger.Info("session restored",
		zap.String("theme", string(session.Theme())),
		zap.Bool("visited", session.Visited()),
		zap.Int("cart_count", cartService.Count()),
	)
	if !session.Visited() {
		if _, recorded := visitService.RecordVisit(ctx, services.VisitSample{
			IP:        "127.0.0.1",
			UserAgent: "quickbite-storefront/server",
		}); recorded {
			session.MarkVisited()
		}
	}

	visitHandlers, err := handlers.NewVisitHandlers(handlers.VisitHandlersDeps{
		Visits:    visitService,
		ListLimit: cfg.Storefront.VisitListLimit,
	})
	if err != nil {
		logger.Fatal("failed to initialise visit handlers", zap.Error(err))
	}
	renderHandlers, err := handlers.NewRenderHandlers(handlers.RenderHandlersDeps{
		Engine: engine,
	})
	if err != nil {
		logger.Fatal("failed to initialise render handlers", zap.Error(err))
	}
	themeHandlers, err := handlers.NewThemeHandlers(handlers.ThemeHandlersDeps{
		Session: session,
	})
	if err != nil {
		logger.Fatal("failed to initialise theme handlers", zap.Error(err))
	}

	httpLogger := logger.Named("http")
	router := handlers.NewRouter(
		handlers.WithMiddlewares(
			observability.InjectLoggerMiddleware(httpLogger),
			observability.TraceMiddleware(),
			observability.RecoveryMiddleware(httpLogger),
			observability.RequestLoggerMiddleware(),
		),
		handlers.WithStaticHandler(handlers.NewStaticHandler(cfg.Server.PublicDir)),
		handlers.WithVisitRoutes(visitHandlers.Register),
		handlers.WithRenderRoutes(renderHandlers.Register),
		handlers.WithThemeRoutes(themeHandlers.Register),
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverLogger := httpLogger.With(zap.String("addr", server.Addr))
	group, groupCtx := errgroup.WithContext(runCtx)
	group.Go(func() error {
		serverLogger.Info("quickbite storefront listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutdown signal received; draining requests")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
	logger.Info("server stopped")
}
