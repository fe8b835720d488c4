package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tuantrunglc/ecom-backend-api/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type depositRepository struct {
	db *gorm.DB
}

func NewDepositRepository(db *gorm.DB) DepositRepository {
	return &depositRepository{db: db}
}

func (r *depositRepository) Create(ctx context.Context, deposit *models.Deposit) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(deposit).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateReference
		}
		return fmt.Errorf("failed to create deposit: %w", err)
	}
	return nil
}

func (r *depositRepository) GetByReference(ctx context.Context, referenceCode string) (*models.Deposit, error) {
	return r.getByReference(r.db.WithContext(ctx), referenceCode)
}

func (r *depositRepository) GetByReferenceForUpdate(ctx context.Context, referenceCode string) (*models.Deposit, error) {
	return r.getByReference(
		r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}),
		referenceCode,
	)
}

func (r *depositRepository) getByReference(db *gorm.DB, referenceCode string) (*models.Deposit, error) {
	var deposit models.Deposit
	if err := db.Where("reference_code = ?", referenceCode).First(&deposit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepositNotFound
		}
		return nil, fmt.Errorf("failed to get deposit: %w", err)
	}
	return &deposit, nil
}

func (r *depositRepository) TransitionStatus(ctx context.Context, params TransitionParams) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Deposit{}).
		Where("id = ? AND status = ?", params.DepositID, params.From).
		Updates(map[string]interface{}{
			"status":       params.To,
			"admin_note":   params.Note,
			"processed_by": params.ProcessedBy,
			"processed_at": params.At,
			"updated_at":   params.At,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to update deposit status: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *depositRepository) List(ctx context.Context, filter DepositFilter, limit, offset int) ([]models.Deposit, int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count deposits: %w", err)
	}

	deposits := make([]models.Deposit, 0, limit)
	if total == 0 {
		return deposits, 0, nil
	}

	err := r.filtered(ctx, filter).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email")
		}).
		Preload("Processor", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name")
		}).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&deposits).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list deposits: %w", err)
	}
	return deposits, total, nil
}

func (r *depositRepository) filtered(ctx context.Context, filter DepositFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Deposit{})

	if filter.UserID != nil {
		query = query.Where("deposits.user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("deposits.status = ?", *filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		query = query.Where(
			`LOWER(deposits.reference_code) LIKE ? ESCAPE '\' OR deposits.user_id IN (?)`,
			pattern,
			r.db.WithContext(ctx).Model(&models.User{}).Select("id").
				Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\'`, pattern, pattern),
		)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("deposits.created_at >= ?", filter.CreatedFrom.UTC())
	}
	if filter.CreatedBefore != nil {
		query = query.Where("deposits.created_at < ?", filter.CreatedBefore.UTC())
	}
	return query
}

func (r *depositRepository) CountByStatus(ctx context.Context, status models.DepositStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Deposit{}).Where("status = ?", status).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count %s deposits: %w", status, err)
	}
	return count, nil
}

func (r *depositRepository) SumAmount(ctx context.Context, status *models.DepositStatus, from, before time.Time) (decimal.Decimal, error) {
	query := r.db.WithContext(ctx).Model(&models.Deposit{}).
		Where("created_at >= ? AND created_at < ?", from.UTC(), before.UTC())
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total decimal.NullDecimal
	if err := query.Select("COALESCE(SUM(amount), 0)").Row().Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum deposit amounts: %w", err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *depositRepository) CreateEvent(ctx context.Context, event *models.DepositEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to record deposit event: %w", err)
	}
	return nil
}

func (r *depositRepository) ListEvents(ctx context.Context, referenceCode string) ([]models.DepositEvent, error) {
	events := make([]models.DepositEvent, 0)
	err := r.db.WithContext(ctx).
		Where("reference_code = ?", referenceCode).
		Order("created_at ASC").
		Order("id ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list deposit events: %w", err)
	}
	return events, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
