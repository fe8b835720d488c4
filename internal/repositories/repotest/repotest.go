// Package repotest opens throwaway SQLite databases with the production
// schema for tests.
package repotest

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/tuantrunglc/ecom-backend-api/internal/models"
	"github.com/tuantrunglc/ecom-backend-api/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated database backed by a file in t.TempDir().
// The pool holds a single connection, so concurrent transactions queue
// behind each other instead of failing with SQLITE_BUSY.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := repositories.GormConfig()
	cfg.Logger = logger.Default.LogMode(logger.Silent)

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000"), cfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, repositories.Migrate(db))
	return db
}

// CreateUser inserts a user with the given role and a zero balance.
func CreateUser(t testing.TB, db *gorm.DB, name, role string) *models.User {
	t.Helper()

	user := &models.User{
		Name:          name,
		Email:         fmt.Sprintf("%s@example.com", name),
		Password:      "x",
		Role:          role,
		IsActive:      true,
		WalletBalance: decimal.Zero,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
