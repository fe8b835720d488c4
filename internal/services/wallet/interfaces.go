package wallet

import (
	"context"

	"github.com/tuantrunglc/ecom-backend-api/internal/repositories"

	"github.com/shopspring/decimal"
)

// Service defines the wallet ledger
type Service interface {
	// Credit adds amount to the user's balance using tx. It never opens a
	// transaction of its own.
	Credit(ctx context.Context, tx repositories.Store, userID uint, amount decimal.Decimal) error

	GetBalance(ctx context.Context, userID uint) (decimal.Decimal, error)

	// InvalidateBalance drops the cached balance. Call it after the
	// transaction that credited the wallet has committed.
	InvalidateBalance(ctx context.Context, userID uint)
}

// BalanceCache is implemented by cache.CacheService.
// Reads and writes name the version observed before the database read.
type BalanceCache interface {
	BalanceVersion(ctx context.Context, userID uint) (int64, error)
	GetBalance(ctx context.Context, userID uint, version int64) (decimal.Decimal, bool, error)
	SetBalance(ctx context.Context, userID uint, version int64, balance decimal.Decimal) error
	InvalidateBalance(ctx context.Context, userID uint) error
}
