package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// sequenceTTL only has to outlive the second the counter belongs to.
const sequenceTTL = 2 * time.Second

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// Get decodes the cached JSON into dest. A miss returns false and no error.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Key generation
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// Balance caching. Cached balances live under a per-user version;
// InvalidateBalance bumps the version, so a value computed before the
// bump is written to a key no reader will ask for again.
func (s *CacheService) balanceKey(userID uint, version int64) string {
	return s.GenerateKey("wallet", "balance", fmt.Sprintf("%d:%d", userID, version))
}

func (s *CacheService) balanceVersionKey(userID uint) string {
	return s.GenerateKey("wallet", "balance_version", userID)
}

// BalanceVersion returns the current version, 0 when none was recorded.
func (s *CacheService) BalanceVersion(ctx context.Context, userID uint) (int64, error) {
	version, err := s.client.Get(ctx, s.balanceVersionKey(userID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get balance version: %w", err)
	}
	return version, nil
}

func (s *CacheService) GetBalance(ctx context.Context, userID uint, version int64) (decimal.Decimal, bool, error) {
	var balance decimal.Decimal
	found, err := s.Get(ctx, s.balanceKey(userID, version), &balance)
	if err != nil || !found {
		return decimal.Zero, false, err
	}
	return balance, true, nil
}

func (s *CacheService) SetBalance(ctx context.Context, userID uint, version int64, balance decimal.Decimal) error {
	return s.Set(ctx, s.balanceKey(userID, version), balance)
}

// InvalidateBalance retires every balance cached so far for the user. The
// version key has no expiry so versions never repeat.
func (s *CacheService) InvalidateBalance(ctx context.Context, userID uint) error {
	if err := s.client.Incr(ctx, s.balanceVersionKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate balance: %w", err)
	}
	return nil
}

// NextSequence returns 1, 2, 3... for callers sharing the same user and
// second. The counter expires shortly after the second ends.
func (s *CacheService) NextSequence(ctx context.Context, userID uint, unix int64) (int64, error) {
	key := s.GenerateKey("deposit_ref", fmt.Sprint(userID), unix)

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, sequenceTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to allocate reference sequence: %w", err)
	}
	return incr.Val(), nil
}

// HealthCheck pings Redis
func (s *CacheService) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}
