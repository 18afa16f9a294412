package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/query-desk/internal/api/http"
	"github.com/spec-kit/query-desk/internal/api/http/handlers"
	"github.com/spec-kit/query-desk/internal/auth"
	"github.com/spec-kit/query-desk/internal/config"
	"github.com/spec-kit/query-desk/internal/events"
	"github.com/spec-kit/query-desk/internal/observability"
	"github.com/spec-kit/query-desk/internal/persistence"
	"github.com/spec-kit/query-desk/internal/repository"
	"github.com/spec-kit/query-desk/internal/service"
	"github.com/spec-kit/query-desk/internal/worker"
	"github.com/spec-kit/query-desk/internal/workflow"
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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	queryRepo := repository.NewQueryRepository(pool)
	auditRepo := repository.NewQueryAuditRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	engine := workflow.NewEngine(queryRepo)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:  userRepo,
		AdminRepo: adminRepo,
		OTPStore:  auth.NewRedisOTPStore(redis.Client),
		Logger:    logger,
	})
	queryService := service.NewQueryService(service.QueryDependencies{
		QueryRepo:  queryRepo,
		AuditRepo:  auditRepo,
		Engine:     engine,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	paymentService := service.NewPaymentService(paymentRepo, dispatcher)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, adminRepo)

	app := fiber.New()
	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Admins:         handlers.NewAdminsHandler(authService, cfg.App.Env == "development"),
		Queries:        handlers.NewQueriesHandler(queryService),
		AdminQueries:   handlers.NewAdminQueriesHandler(queryService),
		Payments:       handlers.NewPaymentsHandler(paymentService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
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
