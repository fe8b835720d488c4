package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that must share a transaction.
type Store interface {
	Deposits() DepositRepository
	Users() UserRepository

	// ExecuteInTransaction runs fn against a Store bound to one database
	// transaction. fn returning an error rolls everything back.
	ExecuteInTransaction(ctx context.Context, fn func(tx Store) error) error

	Ping(ctx context.Context) error
}

type store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (s *store) Deposits() DepositRepository {
	return &depositRepository{db: s.db}
}

func (s *store) Users() UserRepository {
	return &userRepository{db: s.db}
}

func (s *store) ExecuteInTransaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&store{db: tx})
	})
}

func (s *store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
