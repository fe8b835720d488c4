package deposit

import (
	"context"
	"time"

	"github.com/tuantrunglc/ecom-backend-api/internal/models"
	"github.com/tuantrunglc/ecom-backend-api/internal/utils/pagination"
)

// Service runs the deposit workflow: create, then approve or reject once.
type Service interface {
	Create(ctx context.Context, actor Actor, input CreateInput) (*models.Deposit, error)
	Approve(ctx context.Context, actor Actor, referenceCode string, note *string) (*models.Deposit, error)
	Reject(ctx context.Context, actor Actor, referenceCode string, note *string) (*models.Deposit, error)

	// UpdateStatus validates an admin decision and dispatches to Approve or
	// Reject.
	UpdateStatus(ctx context.Context, actor Actor, referenceCode string, input UpdateStatusInput) (*models.Deposit, error)
}

// Query serves listings and the admin dashboard. It never writes.
type Query interface {
	List(ctx context.Context, actor Actor, query ListQuery) (*Page, error)
	Statistics(ctx context.Context, actor Actor) (*Statistics, error)
	UserHistory(ctx context.Context, actor Actor, page pagination.Params) (*Page, error)
	Events(ctx context.Context, actor Actor, referenceCode string) ([]models.DepositEvent, error)
}

// ReferenceSequencer hands out increasing numbers per user and second.
// cache.CacheService implements it on Redis.
type ReferenceSequencer interface {
	NextSequence(ctx context.Context, userID uint, unix int64) (int64, error)
}

// MetricsCollector defines the interface for collecting deposit metrics
type MetricsCollector interface {
	RecordOperationDuration(operation string, duration time.Duration)
	RecordError(operation, kind string)
	RecordDepositCreated()
	RecordDepositProcessed(status string)
}
