// Package main is the entry point for the deposit API.
// It loads configuration, connects to Postgres and Redis, wires the
// routes and serves until it receives SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tuantrunglc/ecom-backend-api/internal/config"
	"github.com/tuantrunglc/ecom-backend-api/internal/logger"
	"github.com/tuantrunglc/ecom-backend-api/internal/metrics"
	"github.com/tuantrunglc/ecom-backend-api/internal/middleware"
	"github.com/tuantrunglc/ecom-backend-api/internal/repositories"
	"github.com/tuantrunglc/ecom-backend-api/internal/repositories/cache"
	"github.com/tuantrunglc/ecom-backend-api/internal/routes"
	"github.com/tuantrunglc/ecom-backend-api/internal/services/wallet"
	"github.com/tuantrunglc/ecom-backend-api/internal/storage"
	"github.com/tuantrunglc/ecom-backend-api/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	serviceName     = "ecom-backend-api"
	bodyLimit       = 10 * 1024 * 1024
	shutdownTimeout = 10 * time.Second
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	logger.Init(serviceName, cfg.LogLevel)
	defer logger.Sync()
	ctx := context.Background()

	db, err := repositories.InitDB(cfg.DB)
	if err != nil {
		logger.Fatal(ctx, "failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := repositories.Close(db); err != nil {
			logger.Warn(ctx, "failed to close database connection", zap.Error(err))
		}
	}()
	logger.Info(ctx, "connected to database", zap.String("host", cfg.DB.Host), zap.String("name", cfg.DB.Name))

	var cacheService *cache.CacheService
	if cfg.Redis.Disabled {
		logger.Info(ctx, "redis disabled, running without balance cache and reference sequence")
	} else {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Warn(ctx, "redis unavailable, continuing without cache", zap.Error(err))
		} else {
			cacheService = cache.NewCacheService(client, wallet.BalanceCacheDuration)
			defer func() {
				if err := cacheService.Close(); err != nil {
					logger.Warn(ctx, "failed to close redis connection", zap.Error(err))
				}
			}()
			logger.Info(ctx, "connected to redis", zap.String("addr", cfg.Redis.Addr()))
		}
	}

	if err := os.MkdirAll(cfg.Storage.Root, 0o755); err != nil {
		logger.Fatal(ctx, "failed to create storage root", zap.String("root", cfg.Storage.Root), zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:   serviceName,
		BodyLimit: bodyLimit,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			if code == fiber.StatusInternalServerError {
				logger.Error(c.UserContext(), "unhandled error", zap.String("path", c.Path()), zap.Error(err))
				return response.Error(c, code, "internal server error")
			}
			return response.Error(c, code, err.Error())
		},
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))

	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} ${locals:request_id}\n",
	}))

	app.Use("/api/auth/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return response.Error(c, fiber.StatusTooManyRequests, "too many requests, please try again later")
		},
	}))

	routes.SetupRoutes(app, routes.Dependencies{
		Config:   cfg,
		DB:       db,
		Cache:    cacheService,
		Blobs:    storage.NewLocalStore(cfg.Storage.Root, cfg.Storage.PublicURL),
		Metrics:  metrics.New(prometheus.DefaultRegisterer),
		Gatherer: prometheus.DefaultGatherer,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error(ctx, "server stopped", zap.Error(err))
		}
	}()
	logger.Info(ctx, "server started", zap.String("port", cfg.Port), zap.String("env", cfg.Env))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "shutting down server")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error(ctx, "graceful shutdown failed", zap.Error(err))
	}
}
