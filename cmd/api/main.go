package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	httptransport "github.com/civicdesk/issue-service/internal/api/http"
	"github.com/civicdesk/issue-service/internal/api/http/handlers"
	"github.com/civicdesk/issue-service/internal/auth"
	"github.com/civicdesk/issue-service/internal/classifier"
	"github.com/civicdesk/issue-service/internal/config"
	"github.com/civicdesk/issue-service/internal/events"
	"github.com/civicdesk/issue-service/internal/observability"
	"github.com/civicdesk/issue-service/internal/persistence"
	"github.com/civicdesk/issue-service/internal/ratelimit"
	"github.com/civicdesk/issue-service/internal/repository"
	"github.com/civicdesk/issue-service/internal/service"
	"github.com/civicdesk/issue-service/internal/worker"
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	pool := pg.PoolHandle()
	if pool == nil {
		logger.Fatal("POSTGRES_DSN is required to serve reports")
	}

	if cfg.Postgres.RunMigrations {
		applied, err := persistence.RunMigrations(ctx, pool, cfg.Postgres.MigrationsDir, logger)
		if err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
		logger.Info("migrations complete", zap.Int("applied", applied))
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	rules, err := classifier.LoadOrDefault(cfg.Classifier.RulesPath)
	if err != nil {
		logger.Fatal("failed to load classifier rules", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	reportRepo := repository.NewReportRepository(pool)
	worker.StartNotificationWorker(dispatcher, reportRepo, logger, cfg.Notification)

	limiter := ratelimit.NewFallback(
		ratelimit.NewRedisLimiter(redis.Client, cfg.RateLimit.KeyPrefix, cfg.RateLimit.ReportsPerWindow, cfg.RateLimit.Window()),
		ratelimit.NewLocalLimiter(cfg.RateLimit.ReportsPerWindow, cfg.RateLimit.Window(), cfg.RateLimit.Burst),
		logger,
	)

	reportService := service.NewReportService(service.ReportDependencies{
		ReportRepo:   reportRepo,
		HistoryRepo:  repository.NewReportHistoryRepository(pool),
		Classifier:   rules,
		Limiter:      limiter,
		Dispatcher:   dispatcher,
		Metrics:      metrics,
		Logger:       logger,
		Geo:          cfg.Geo,
		TrackingCost: cfg.Auth.TrackingBcryptCost,
	})

	app := httptransport.NewApp(cfg.App.Name)
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Classify:       handlers.NewClassifyHandler(reportService),
		Reports:        handlers.NewReportsHandler(reportService),
		Admin:          handlers.NewAdminHandler(reportService),
		Metrics:        handlers.NewMetricsHandler(metrics),
		AuthMiddleware: auth.NewAuthMiddleware(auth.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		return app.Listen(cfg.App.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		return app.Shutdown()
	})
	if cfg.AutoClose.Enabled {
		autoClose, err := worker.NewAutoCloseWorker(reportService, cfg.AutoClose, logger)
		if err != nil {
			logger.Fatal("failed to configure auto-close", zap.Error(err))
		}
		g.Go(func() error {
			return autoClose.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("service stopped with error", zap.Error(err))
	}
}
