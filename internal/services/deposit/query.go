package deposit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/tuantrunglc/ecom-backend-api/internal/errors"
	"github.com/tuantrunglc/ecom-backend-api/internal/models"
	"github.com/tuantrunglc/ecom-backend-api/internal/repositories"
	"github.com/tuantrunglc/ecom-backend-api/internal/utils/pagination"
	"github.com/tuantrunglc/ecom-backend-api/internal/validation"

	"golang.org/x/sync/errgroup"
)

const dateLayout = "2006-01-02"

type query struct {
	store    repositories.Store
	location *time.Location
	now      func() time.Time
}

// NewQuery builds the read side. loc is the timezone that defines calendar
// days for date filters and today's statistics.
func NewQuery(store repositories.Store, loc *time.Location) Query {
	if store == nil {
		panic("store is required")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &query{store: store, location: loc, now: time.Now}
}

func (q *query) List(ctx context.Context, actor Actor, in ListQuery) (*Page, error) {
	if !actor.IsAdmin {
		return nil, errForbidden()
	}

	filter, err := q.parseFilter(in)
	if err != nil {
		return nil, err
	}

	params := pagination.New(in.Page.Page, in.Page.Limit)
	deposits, total, err := q.store.Deposits().List(ctx, filter, params.Limit, params.Offset)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &Page{Deposits: deposits, Total: total, Params: params}, nil
}

func (q *query) parseFilter(in ListQuery) (repositories.DepositFilter, error) {
	var filter repositories.DepositFilter
	v := validation.New()

	status := strings.ToLower(strings.TrimSpace(in.Status))
	if status != "" && status != "all" {
		s := models.DepositStatus(status)
		if s.Valid() {
			filter.Status = &s
		} else {
			v.AddError("status", "status must be one of: all, pending, approved, rejected")
		}
	}

	filter.Search = strings.TrimSpace(in.Search)

	fromRaw, toRaw := strings.TrimSpace(in.FromDate), strings.TrimSpace(in.ToDate)
	if fromRaw != "" && toRaw != "" {
		from, fromErr := time.ParseInLocation(dateLayout, fromRaw, q.location)
		to, toErr := time.ParseInLocation(dateLayout, toRaw, q.location)
		v.Check(fromErr == nil, "from_date", "from_date must be a date in YYYY-MM-DD format")
		v.Check(toErr == nil, "to_date", "to_date must be a date in YYYY-MM-DD format")
		if fromErr == nil && toErr == nil {
			v.Check(!to.Before(from), "to_date", "to_date must not be before from_date")
			// Both ends inclusive: [start of from, start of the day after to).
			before := to.AddDate(0, 0, 1)
			filter.CreatedFrom = &from
			filter.CreatedBefore = &before
		}
	}

	if err := v.Err(); err != nil {
		return repositories.DepositFilter{}, err
	}
	return filter, nil
}

func (q *query) Statistics(ctx context.Context, actor Actor) (*Statistics, error) {
	if !actor.IsAdmin {
		return nil, errForbidden()
	}

	start, end := q.today()
	approved := models.DepositStatusApproved

	var stats Statistics
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.PendingCount, err = q.store.Deposits().CountByStatus(gctx, models.DepositStatusPending)
		return err
	})
	g.Go(func() (err error) {
		stats.ApprovedCount, err = q.store.Deposits().CountByStatus(gctx, models.DepositStatusApproved)
		return err
	})
	g.Go(func() (err error) {
		stats.RejectedCount, err = q.store.Deposits().CountByStatus(gctx, models.DepositStatusRejected)
		return err
	})
	g.Go(func() (err error) {
		stats.TodayTotal, err = q.store.Deposits().SumAmount(gctx, nil, start, end)
		return err
	})
	g.Go(func() (err error) {
		stats.TodayApproved, err = q.store.Deposits().SumAmount(gctx, &approved, start, end)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("deposit statistics: %w", err))
	}
	return &stats, nil
}

// today returns [midnight, next midnight) in the configured timezone.
func (q *query) today() (time.Time, time.Time) {
	now := q.now().In(q.location)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, q.location)
	return start, start.AddDate(0, 0, 1)
}

func (q *query) UserHistory(ctx context.Context, actor Actor, page pagination.Params) (*Page, error) {
	if actor.UserID == 0 {
		return nil, errForbidden()
	}

	params := pagination.New(page.Page, page.Limit)
	userID := actor.UserID
	deposits, total, err := q.store.Deposits().List(ctx, repositories.DepositFilter{UserID: &userID}, params.Limit, params.Offset)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &Page{Deposits: deposits, Total: total, Params: params}, nil
}

func (q *query) Events(ctx context.Context, actor Actor, referenceCode string) ([]models.DepositEvent, error) {
	if !actor.IsAdmin {
		return nil, errForbidden()
	}

	if _, err := q.store.Deposits().GetByReference(ctx, referenceCode); err != nil {
		if errors.Is(err, repositories.ErrDepositNotFound) {
			return nil, errNotFound()
		}
		return nil, apperrors.Internal(err)
	}

	events, err := q.store.Deposits().ListEvents(ctx, referenceCode)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return events, nil
}
