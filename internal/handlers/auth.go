package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/tuantrunglc/ecom-backend-api/internal/logger"
	"github.com/tuantrunglc/ecom-backend-api/internal/services/auth"
	"github.com/tuantrunglc/ecom-backend-api/internal/utils"
	"github.com/tuantrunglc/ecom-backend-api/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService  auth.Service
	secureCookie bool
}

func NewAuthHandler(authService auth.Service, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		secureCookie: secureCookie,
	}
}

// LoginUser handles POST /api/auth/login
func (h *AuthHandler) LoginUser(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return response.BadRequest(c, "email and password are required")
	}

	result, err := h.authService.Login(c.UserContext(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return response.Unauthorized(c, "invalid email or password")
		}
		return response.FromError(c, err)
	}

	h.setAccessCookie(c, result.AccessToken, result.ExpiresAt)

	return response.Success(c, "login successful", fiber.Map{
		"access_token": result.AccessToken,
		"expires_at":   result.ExpiresAt,
		"user": fiber.Map{
			"id":    result.User.ID,
			"name":  result.User.Name,
			"email": result.User.Email,
			"role":  result.User.Role,
		},
	})
}

// LogoutUser handles POST /api/auth/logout. Bumping the token version
// revokes every token issued so far.
func (h *AuthHandler) LogoutUser(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return response.Unauthorized(c, "invalid claims")
	}

	if err := h.authService.Logout(c.UserContext(), claims.UserID); err != nil {
		logger.Error(c.UserContext(), "logout failed", zap.Uint("user_id", claims.UserID), zap.Error(err))
		return response.FromError(c, err)
	}

	h.setAccessCookie(c, "", time.Now().Add(-time.Hour))
	return response.Success(c, "successfully logged out", nil)
}

func (h *AuthHandler) setAccessCookie(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		Path:     "/",
		SameSite: "Strict",
	})
}
