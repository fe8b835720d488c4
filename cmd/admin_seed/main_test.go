package main

import (
	"context"
	"testing"

	"github.com/tuantrunglc/ecom-backend-api/internal/models"
	"github.com/tuantrunglc/ecom-backend-api/internal/repositories"
	"github.com/tuantrunglc/ecom-backend-api/internal/repositories/repotest"
	"github.com/tuantrunglc/ecom-backend-api/internal/services/wallet"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLedger struct {
	wallet.Service
	credits int
}

func (l *countingLedger) Credit(ctx context.Context, tx repositories.Store, userID uint, amount decimal.Decimal) error {
	l.credits++
	return l.Service.Credit(ctx, tx, userID, amount)
}

func TestEnsureUserIsIdempotent(t *testing.T) {
	store := repositories.NewStore(repotest.NewDB(t))
	ctx := context.Background()

	first, err := ensureUser(ctx, store, "Admin", "admin@example.com", "secret123", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, first.Role)
	assert.NotEqual(t, "secret123", first.Password)

	second, err := ensureUser(ctx, store, "Other", "admin@example.com", "changed", models.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Admin", second.Name)
}

func TestSeedDeposit(t *testing.T) {
	tests := []struct {
		status  models.DepositStatus
		events  int
		credits int
	}{
		{models.DepositStatusPending, 1, 0},
		{models.DepositStatusApproved, 2, 1},
		{models.DepositStatusRejected, 2, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			db := repotest.NewDB(t)
			user := repotest.CreateUser(t, db, "alice", models.RoleUser)
			admin := repotest.CreateUser(t, db, "root", models.RoleAdmin)
			store := repositories.NewStore(db)
			ledger := &countingLedger{Service: wallet.NewService(store, nil, nil)}
			ctx := context.Background()

			d, err := seedDeposit(ctx, store, ledger, user, admin, "0011004455667", tt.status, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.status, d.Status)
			assert.Equal(t, tt.status != models.DepositStatusPending, d.IsProcessed())
			assert.Equal(t, tt.credits, ledger.credits)

			balance, err := store.Users().GetBalance(ctx, user.ID)
			require.NoError(t, err)
			if tt.status == models.DepositStatusApproved {
				assert.True(t, balance.Equal(d.Amount), balance.String())
			} else {
				assert.True(t, balance.IsZero(), balance.String())
			}

			var events int64
			require.NoError(t, db.Model(&models.DepositEvent{}).Where("deposit_id = ?", d.ID).Count(&events).Error)
			assert.Equal(t, int64(tt.events), events)
		})
	}
}
