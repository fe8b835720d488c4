// Package middleware provides HTTP middleware components for the application.
// It includes authentication, authorization, and other request processing middleware
// that can be used with the fiber web framework.
package middleware

import (
	"errors"
	"strings"

	"github.com/tuantrunglc/ecom-backend-api/internal/logger"
	"github.com/tuantrunglc/ecom-backend-api/internal/services/auth"
	"github.com/tuantrunglc/ecom-backend-api/internal/utils"
	"github.com/tuantrunglc/ecom-backend-api/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthMiddleware handles JWT token validation and user authentication.
// It extracts the JWT token from the Authorization header, validates it,
// and adds the user claims to the request context.
type AuthMiddleware struct {
	authService auth.Service
}

func NewAuthMiddleware(authService auth.Service) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// Handler validates JWT tokens and adds claims to the request context.
// It checks for:
// - Presence of Authorization header with Bearer token
// - Valid JWT signature, issuer and expiry
// - Token version matches current user version
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	ctx := c.UserContext()

	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return response.Unauthorized(c, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return response.Unauthorized(c, "invalid authorization format")
	}

	claims, err := m.authService.Authenticate(ctx, strings.TrimPrefix(authHeader, "Bearer "))
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrSessionExpired):
		return response.Unauthorized(c, "session expired")
	case errors.Is(err, utils.ErrInvalidToken):
		return response.Unauthorized(c, "invalid token")
	default:
		logger.Error(ctx, "token check failed", zap.Error(err))
		return response.Error(c, fiber.StatusInternalServerError, "internal error")
	}

	c.Locals(utils.ClaimsKey, claims)
	c.Locals("userID", claims.UserID)
	return c.Next()
}

// AdminAuthMiddleware verifies that the request has valid admin claims.
func AdminAuthMiddleware(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return response.Unauthorized(c, "invalid claims")
	}
	if !claims.IsAdmin() {
		logger.Info(c.UserContext(), "admin access denied",
			zap.Uint("user_id", claims.UserID),
			zap.String("role", claims.Role),
		)
		return response.Forbidden(c, "access denied")
	}
	return c.Next()
}
