package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/blog-dashboard/internal/api/http"
	"github.com/spec-kit/blog-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/blog-dashboard/internal/auth"
	"github.com/spec-kit/blog-dashboard/internal/config"
	"github.com/spec-kit/blog-dashboard/internal/observability"
	"github.com/spec-kit/blog-dashboard/internal/persistence"
	"github.com/spec-kit/blog-dashboard/internal/repository"
	"github.com/spec-kit/blog-dashboard/internal/service"
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
		if err := persistence.RunMigrations(ctx, pg.Handle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	db := pg.Handle()
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)

	userService := service.NewUserService(userRepo, cfg.Auth.BcryptCost, logger)
	postService := service.NewPostService(postRepo, userRepo, logger)
	throttle := service.NewRedisLoginThrottle(redis, cfg.Auth, logger)
	authService := service.NewAuthService(cfg.Auth, userRepo, throttle, logger)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Dashboard:      handlers.NewDashboardHandler(userService),
		Users:          handlers.NewUsersHandler(userService),
		Posts:          handlers.NewPostsHandler(postService),
		Auth:           handlers.NewAuthHandler(authService),
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
