package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/feedback-portal/internal/api/http"
	"github.com/spec-kit/feedback-portal/internal/api/http/handlers"
	"github.com/spec-kit/feedback-portal/internal/auth"
	"github.com/spec-kit/feedback-portal/internal/config"
	"github.com/spec-kit/feedback-portal/internal/events"
	"github.com/spec-kit/feedback-portal/internal/observability"
	"github.com/spec-kit/feedback-portal/internal/persistence"
	"github.com/spec-kit/feedback-portal/internal/repository"
	"github.com/spec-kit/feedback-portal/internal/service"
	"github.com/spec-kit/feedback-portal/internal/worker"
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

	store, err := persistence.Open(ctx, cfg.Store, logger)
	if err != nil {
		logger.Fatal("failed to open record store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer store.Close() //nolint:errcheck

	releaseWriter, err := persistence.ClaimWriter(ctx, store)
	if err != nil {
		logger.Fatal("failed to claim record store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer releaseWriter()

	deptRepo := repository.NewDepartmentRepository(store)
	feedbackRepo := repository.NewFeedbackRepository(store)

	// a store that cannot be read is fatal at start-up rather than per request
	depts, err := deptRepo.LoadAll(ctx)
	if err != nil {
		logger.Fatal("failed to load departments", zap.Error(err))
	}
	items, err := feedbackRepo.LoadAll(ctx)
	if err != nil {
		logger.Fatal("failed to load feedback", zap.Error(err))
	}
	logger.Info("record store ready",
		zap.String("driver", cfg.Store.Driver),
		zap.Int("departments", len(depts)),
		zap.Int("feedback", len(items)))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(dispatcher, logger, metrics)

	authService, err := service.NewAuthService(cfg.Auth)
	if err != nil {
		logger.Fatal("failed to init auth", zap.Error(err))
	}
	departmentService := service.NewDepartmentService(service.DepartmentDependencies{
		DepartmentRepo: deptRepo,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	feedbackService := service.NewFeedbackService(service.FeedbackDependencies{
		DepartmentRepo: deptRepo,
		FeedbackRepo:   feedbackRepo,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	statsService := service.NewStatsService(deptRepo, feedbackRepo)
	exportService := service.NewExportService(deptRepo, feedbackRepo, cfg.Export.Location)

	app := httptransport.NewApp(cfg.App.Name)
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:           logger,
		Metrics:          metrics,
		Timeout:          cfg.App.RequestTimeout(),
		CORSAllowOrigins: cfg.App.CORSAllowOrigins,
	})
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store),
		Departments:    handlers.NewDepartmentsHandler(departmentService),
		Feedback:       handlers.NewFeedbackHandler(feedbackService, exportService),
		Stats:          handlers.NewStatsHandler(statsService),
		Admin:          handlers.NewAdminHandler(authService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
		Metrics:        metrics,
		AuthMode:       authService.Mode(),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("auth_mode", authService.Mode()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
