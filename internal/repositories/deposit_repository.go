package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/tuantrunglc/ecom-backend-api/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrDepositNotFound    = errors.New("deposit not found")
	ErrDuplicateReference = errors.New("deposit reference code already exists")
)

// DepositFilter narrows admin and user listings. Zero values mean "no filter".
type DepositFilter struct {
	UserID *uint
	Status *models.DepositStatus
	// Search matches the reference code or the owner's name or email,
	// case-insensitively.
	Search string
	// CreatedFrom is inclusive, CreatedBefore exclusive.
	CreatedFrom   *time.Time
	CreatedBefore *time.Time
}

// TransitionParams describes a compare-and-set status change.
type TransitionParams struct {
	DepositID   uint
	From        models.DepositStatus
	To          models.DepositStatus
	ProcessedBy uint
	Note        *string
	At          time.Time
}

// DepositRepository defines the interface for deposit persistence
type DepositRepository interface {
	// Create inserts a new deposit. A clash on reference_code returns
	// ErrDuplicateReference.
	Create(ctx context.Context, deposit *models.Deposit) error

	GetByReference(ctx context.Context, referenceCode string) (*models.Deposit, error)

	// GetByReferenceForUpdate reads the deposit under a row-level lock held
	// until the surrounding transaction ends.
	GetByReferenceForUpdate(ctx context.Context, referenceCode string) (*models.Deposit, error)

	// TransitionStatus applies the change only while the row is still in
	// params.From. It reports whether a row was changed.
	TransitionStatus(ctx context.Context, params TransitionParams) (bool, error)

	List(ctx context.Context, filter DepositFilter, limit, offset int) ([]models.Deposit, int64, error)

	CountByStatus(ctx context.Context, status models.DepositStatus) (int64, error)

	// SumAmount totals deposits created in [from, before), optionally
	// restricted to one status.
	SumAmount(ctx context.Context, status *models.DepositStatus, from, before time.Time) (decimal.Decimal, error)

	CreateEvent(ctx context.Context, event *models.DepositEvent) error
	ListEvents(ctx context.Context, referenceCode string) ([]models.DepositEvent, error)
}
