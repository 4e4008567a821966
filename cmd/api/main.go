package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/nvdow/volunteerfinder/internal/api/http"
	"github.com/nvdow/volunteerfinder/internal/api/http/handlers"
	"github.com/nvdow/volunteerfinder/internal/config"
	"github.com/nvdow/volunteerfinder/internal/events"
	"github.com/nvdow/volunteerfinder/internal/observability"
	"github.com/nvdow/volunteerfinder/internal/roster"
	"github.com/nvdow/volunteerfinder/internal/selection"
	"github.com/nvdow/volunteerfinder/internal/service"
	"github.com/nvdow/volunteerfinder/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	loader := roster.NewLoader(cfg.Roster, logger, metrics, dispatcher)
	tracker := selection.NewTracker()

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	finderService := service.NewFinderService(service.FinderDependencies{
		Loader:     loader,
		Tracker:    tracker,
		Dispatcher: dispatcher,
		Metrics:    metrics,
	})

	// Best effort warm-up so the first request hits a cached roster. A broken
	// CSV is surfaced per request, never fatal.
	if records, err := loader.Load(ctx); err == nil {
		names := make([]string, 0, len(records))
		for _, r := range records {
			names = append(names, r.Name)
		}
		tracker.Sync(names)
	} else {
		logger.Warn("initial roster load failed", zap.Error(err))
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, loader)
	volunteersHandler := handlers.NewVolunteersHandler(finderService)
	metricsHandler := handlers.NewMetricsHandler(metrics)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:     healthHandler,
		Volunteers: volunteersHandler,
		Metrics:    metricsHandler,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
