// Package routes defines the API routing configuration.
// It wires repositories, services and handlers and applies the auth
// middleware to each route group.
package routes

import (
	"github.com/tuantrunglc/ecom-backend-api/internal/config"
	"github.com/tuantrunglc/ecom-backend-api/internal/handlers"
	"github.com/tuantrunglc/ecom-backend-api/internal/metrics"
	"github.com/tuantrunglc/ecom-backend-api/internal/middleware"
	"github.com/tuantrunglc/ecom-backend-api/internal/repositories"
	"github.com/tuantrunglc/ecom-backend-api/internal/repositories/cache"
	"github.com/tuantrunglc/ecom-backend-api/internal/services/auth"
	"github.com/tuantrunglc/ecom-backend-api/internal/services/deposit"
	"github.com/tuantrunglc/ecom-backend-api/internal/services/wallet"
	"github.com/tuantrunglc/ecom-backend-api/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

const Version = "1.0.0"

// Dependencies are the process-wide resources built in main.
type Dependencies struct {
	Config config.Config
	DB     *gorm.DB
	// Cache is nil when Redis is disabled.
	Cache    *cache.CacheService
	Blobs    storage.BlobStore
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	store := repositories.NewStore(deps.DB)
	userRepo := repositories.NewUserRepository(deps.DB)

	// A nil *CacheService must not reach the services as a non-nil
	// interface value.
	var (
		balanceCache wallet.BalanceCache
		sequencer    deposit.ReferenceSequencer
		redisProbe   handlers.Pinger
	)
	if deps.Cache != nil {
		balanceCache = deps.Cache
		sequencer = deps.Cache
		redisProbe = handlers.PingerFunc(deps.Cache.HealthCheck)
	}

	var (
		walletMetrics  wallet.MetricsCollector
		depositMetrics deposit.MetricsCollector
	)
	if deps.Metrics != nil {
		walletMetrics = deps.Metrics
		depositMetrics = deps.Metrics
	}

	authService := auth.NewService(userRepo, deps.Config.JWT)
	walletService := wallet.NewService(store, balanceCache, walletMetrics)
	depositService := deposit.NewService(
		store,
		walletService,
		deps.Blobs,
		sequencer,
		deposit.DefaultConfig(),
		depositMetrics,
	)
	depositQuery := deposit.NewQuery(store, deps.Config.Location())

	authHandler := handlers.NewAuthHandler(authService, deps.Config.IsProduction())
	walletHandler := handlers.NewWalletHandler(walletService)
	depositHandler := handlers.NewDepositHandler(depositService, depositQuery)
	healthHandler := handlers.NewHealthHandler(store, redisProbe, Version)

	app.Get("/health", healthHandler.HealthCheck)
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}
	if deps.Config.Storage.Root != "" {
		app.Static("/storage", deps.Config.Storage.Root)
	}

	api := app.Group("/api")

	// Public endpoints (no auth required)
	api.Post("/auth/login", authHandler.LoginUser)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	protected := api.Group("", authMiddleware.Handler)

	protected.Post("/auth/logout", authHandler.LogoutUser)
	protected.Get("/wallet", walletHandler.GetBalance)
	protected.Post("/deposits", depositHandler.CreateDeposit)
	protected.Get("/deposits/user", depositHandler.UserDeposits)

	setupAdminRoutes(protected, depositHandler)
}

func setupAdminRoutes(router fiber.Router, depositHandler *handlers.DepositHandler) {
	admin := router.Group("/admin", middleware.AdminAuthMiddleware)

	admin.Get("/deposits", depositHandler.AdminListDeposits)
	admin.Put("/deposits/:reference", depositHandler.UpdateDepositStatus)
	admin.Get("/deposits/:reference/events", depositHandler.DepositEvents)
}
