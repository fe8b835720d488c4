package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tuantrunglc/ecom-backend-api/internal/config"
	"github.com/tuantrunglc/ecom-backend-api/internal/logger"
	"github.com/tuantrunglc/ecom-backend-api/internal/models"
	"github.com/tuantrunglc/ecom-backend-api/internal/repositories"
	"github.com/tuantrunglc/ecom-backend-api/internal/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired")
)

// LoginResult is returned on a successful login.
type LoginResult struct {
	User        *models.User
	AccessToken string
	ExpiresAt   time.Time
}

type Service interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, userID uint) error

	// Authenticate parses a bearer token and checks it has not been revoked.
	Authenticate(ctx context.Context, token string) (*models.UserClaims, error)
}

type service struct {
	users repositories.UserRepository
	jwt   config.JWTConfig
}

func NewService(users repositories.UserRepository, jwtCfg config.JWTConfig) Service {
	return &service{
		users: users,
		jwt:   jwtCfg,
	}
}

func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			logger.Info(ctx, "login failed: unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		logger.Info(ctx, "login failed: wrong password", zap.Uint("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		logger.Info(ctx, "login failed: inactive account", zap.Uint("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := utils.GenerateAccessToken(s.jwt, user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &LoginResult{User: user, AccessToken: token, ExpiresAt: expiresAt}, nil
}

func (s *service) Logout(ctx context.Context, userID uint) error {
	return s.users.IncrementTokenVersion(ctx, userID)
}

func (s *service) Authenticate(ctx context.Context, token string) (*models.UserClaims, error) {
	claims, err := utils.ParseToken(s.jwt, strings.TrimSpace(token))
	if err != nil {
		return nil, err
	}

	version, err := s.users.GetTokenVersion(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, utils.ErrInvalidToken
		}
		return nil, err
	}
	if version != claims.TokenVersion {
		return nil, ErrSessionExpired
	}
	return claims, nil
}

// HashPassword hashes a plain password with bcrypt's default cost.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
