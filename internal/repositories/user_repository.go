package repositories

import (
	"context"
	"errors"

	"github.com/tuantrunglc/ecom-backend-api/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already taken")
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	// Create creates a new user in the database
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by their ID
	GetByID(ctx context.Context, id uint) (*models.User, error)

	// GetByEmail retrieves a user by their email address
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetBalance reads the wallet balance column only
	GetBalance(ctx context.Context, userID uint) (decimal.Decimal, error)

	// IncrementWalletBalance adds amount to the balance in a single UPDATE
	IncrementWalletBalance(ctx context.Context, userID uint, amount decimal.Decimal) error

	// GetTokenVersion returns the current token version for revocation checks
	GetTokenVersion(ctx context.Context, userID uint) (int, error)

	// IncrementTokenVersion invalidates every token issued so far
	IncrementTokenVersion(ctx context.Context, userID uint) error
}
