package handlers

import (
	"context"
	"time"

	"github.com/tuantrunglc/ecom-backend-api/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

// Pinger is anything the health check can ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function such as CacheService.HealthCheck.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	database Pinger
	redis    Pinger
	version  string
}

// NewHealthHandler builds the health check. redis may be nil when the cache is
// disabled.
func NewHealthHandler(database, redis Pinger, version string) *HealthHandler {
	return &HealthHandler{
		database: database,
		redis:    redis,
		version:  version,
	}
}

// HealthCheck handles GET /health
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	healthy := true
	check := func(name string, p Pinger) string {
		if p == nil {
			return "disabled"
		}
		if err := p.Ping(ctx); err != nil {
			healthy = false
			logger.Warn(ctx, "health check failed", zap.String("service", name), zap.Error(err))
			return "unavailable"
		}
		return "connected"
	}

	services := fiber.Map{
		"database": check("database", h.database),
		"redis":    check("redis", h.redis),
	}

	status, code := "ok", fiber.StatusOK
	if !healthy {
		status, code = "degraded", fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"version":  h.version,
		"services": services,
	})
}
