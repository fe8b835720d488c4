package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tuantrunglc/ecom-backend-api/internal/logger"
	"github.com/tuantrunglc/ecom-backend-api/internal/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type service struct {
	store   repositories.Store
	cache   BalanceCache
	metrics MetricsCollector
}

// NewService creates a new wallet service. cache may be nil when Redis is
// not configured.
func NewService(store repositories.Store, cache BalanceCache, metrics MetricsCollector) Service {
	if store == nil {
		panic("store is required")
	}

	// Metrics is optional, create no-op collector if nil
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		store:   store,
		cache:   cache,
		metrics: metrics,
	}
}

func (s *service) Credit(ctx context.Context, tx repositories.Store, userID uint, amount decimal.Decimal) error {
	start := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(OpCredit, time.Since(start))
	}()

	if tx == nil {
		return ErrNoTransaction
	}
	if !amount.IsPositive() {
		s.metrics.RecordError(OpCredit, "invalid_amount")
		return ErrInvalidAmount
	}

	if err := tx.Users().IncrementWalletBalance(ctx, userID, amount); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			s.metrics.RecordError(OpCredit, "not_found")
			return ErrWalletNotFound
		}
		s.metrics.RecordError(OpCredit, "storage")
		return fmt.Errorf("failed to credit wallet: %w", err)
	}

	s.metrics.RecordCredit(amount)
	return nil
}

func (s *service) GetBalance(ctx context.Context, userID uint) (decimal.Decimal, error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(OpGetBalance, time.Since(start))
	}()

	// The version is read before the database so that a balance loaded
	// just ahead of a concurrent credit is cached under a retired version.
	var (
		version   int64
		cacheable bool
	)
	if s.cache != nil {
		v, err := s.cache.BalanceVersion(ctx, userID)
		if err != nil {
			logger.Warn(ctx, "balance cache version read failed", zap.Uint("user_id", userID), zap.Error(err))
		} else {
			version, cacheable = v, true
		}
	}

	if cacheable {
		balance, found, err := s.cache.GetBalance(ctx, userID, version)
		switch {
		case err != nil:
			logger.Warn(ctx, "balance cache read failed", zap.Uint("user_id", userID), zap.Error(err))
		case found:
			s.metrics.RecordCacheHit(OpGetBalance)
			return balance, nil
		default:
			s.metrics.RecordCacheMiss(OpGetBalance)
		}
	}

	balance, err := s.store.Users().GetBalance(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return decimal.Zero, ErrWalletNotFound
		}
		s.metrics.RecordError(OpGetBalance, "storage")
		return decimal.Zero, fmt.Errorf("failed to get balance: %w", err)
	}

	if cacheable {
		if err := s.cache.SetBalance(ctx, userID, version, balance); err != nil {
			logger.Warn(ctx, "balance cache write failed", zap.Uint("user_id", userID), zap.Error(err))
		}
	}
	return balance, nil
}

func (s *service) InvalidateBalance(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateBalance(ctx, userID); err != nil {
		logger.Warn(ctx, "balance cache invalidation failed", zap.Uint("user_id", userID), zap.Error(err))
	}
}
