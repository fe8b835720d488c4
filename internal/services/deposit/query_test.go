package deposit

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/tuantrunglc/ecom-backend-api/internal/errors"
	"github.com/tuantrunglc/ecom-backend-api/internal/models"
	"github.com/tuantrunglc/ecom-backend-api/internal/repositories"
	"github.com/tuantrunglc/ecom-backend-api/internal/repositories/repotest"
	"github.com/tuantrunglc/ecom-backend-api/internal/utils/pagination"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type queryFixture struct {
	db    *gorm.DB
	query *query
	alice *models.User
	bob   *models.User
	loc   *time.Location
}

// Reference day: 2024-03-10 in UTC+7.
func newQueryFixture(t *testing.T) *queryFixture {
	t.Helper()

	db := repotest.NewDB(t)
	loc := time.FixedZone("ICT", 7*3600)
	q := NewQuery(repositories.NewStore(db), loc).(*query)
	q.now = func() time.Time { return time.Date(2024, 3, 10, 15, 0, 0, 0, loc) }

	return &queryFixture{
		db:    db,
		query: q,
		alice: repotest.CreateUser(t, db, "alice", models.RoleUser),
		bob:   repotest.CreateUser(t, db, "bob", models.RoleUser),
		loc:   loc,
	}
}

func (f *queryFixture) add(t *testing.T, user *models.User, ref string, amount int64, status models.DepositStatus, createdAt time.Time) {
	t.Helper()
	require.NoError(t, f.db.Create(&models.Deposit{
		ReferenceCode: ref,
		UserID:        user.ID,
		Amount:        decimal.NewFromInt(amount),
		BankAccount:   "123",
		ProofImage:    proofURL,
		Status:        status,
		CreatedAt:     createdAt.UTC(),
	}).Error)
}

func (f *queryFixture) seed(t *testing.T) {
	at := func(day, hour int) time.Time { return time.Date(2024, 3, day, hour, 0, 0, 0, f.loc) }

	// 00:30 local on the 10th is still the 9th in UTC.
	f.add(t, f.alice, "DEP_A_1", 10000, models.DepositStatusApproved, time.Date(2024, 3, 10, 0, 30, 0, 0, f.loc))
	f.add(t, f.alice, "DEP_A_2", 20000, models.DepositStatusPending, at(10, 9))
	f.add(t, f.bob, "DEP_B_1", 40000, models.DepositStatusRejected, at(10, 12))
	f.add(t, f.bob, "DEP_B_2", 80000, models.DepositStatusApproved, at(9, 23))
	f.add(t, f.bob, "DEP_B_3", 160000, models.DepositStatusPending, at(8, 8))
}

func TestQuery_Statistics(t *testing.T) {
	f := newQueryFixture(t)
	f.seed(t)

	stats, err := f.query.Statistics(context.Background(), adminActor)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.PendingCount)
	assert.Equal(t, int64(2), stats.ApprovedCount)
	assert.Equal(t, int64(1), stats.RejectedCount)
	assert.True(t, stats.TodayTotal.Equal(decimal.NewFromInt(70000)), stats.TodayTotal.String())
	assert.True(t, stats.TodayApproved.Equal(decimal.NewFromInt(10000)), stats.TodayApproved.String())

	_, err = f.query.Statistics(context.Background(), Actor{UserID: f.alice.ID})
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
}

func TestQuery_StatisticsEmpty(t *testing.T) {
	f := newQueryFixture(t)

	stats, err := f.query.Statistics(context.Background(), adminActor)
	require.NoError(t, err)
	assert.Zero(t, stats.PendingCount)
	assert.True(t, stats.TodayTotal.IsZero())
	assert.True(t, stats.TodayApproved.IsZero())
}

func TestQuery_List(t *testing.T) {
	f := newQueryFixture(t)
	f.seed(t)

	tests := []struct {
		name  string
		query ListQuery
		want  []string
	}{
		{
			name:  "all newest first",
			query: ListQuery{Status: "all"},
			want:  []string{"DEP_B_1", "DEP_A_2", "DEP_A_1", "DEP_B_2", "DEP_B_3"},
		},
		{
			name:  "pending",
			query: ListQuery{Status: "pending"},
			want:  []string{"DEP_A_2", "DEP_B_3"},
		},
		{
			name:  "search by name",
			query: ListQuery{Search: "Alice"},
			want:  []string{"DEP_A_2", "DEP_A_1"},
		},
		{
			name:  "search by reference",
			query: ListQuery{Search: "dep_b_3"},
			want:  []string{"DEP_B_3"},
		},
		{
			name:  "single local day includes both ends",
			query: ListQuery{FromDate: "2024-03-10", ToDate: "2024-03-10"},
			want:  []string{"DEP_B_1", "DEP_A_2", "DEP_A_1"},
		},
		{
			name:  "range spanning two days",
			query: ListQuery{FromDate: "2024-03-08", ToDate: "2024-03-09"},
			want:  []string{"DEP_B_2", "DEP_B_3"},
		},
		{
			name:  "only one date bound is ignored",
			query: ListQuery{FromDate: "2024-03-10"},
			want:  []string{"DEP_B_1", "DEP_A_2", "DEP_A_1", "DEP_B_2", "DEP_B_3"},
		},
		{
			name:  "second page",
			query: ListQuery{Page: pagination.New(2, 2)},
			want:  []string{"DEP_A_1", "DEP_B_2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := f.query.List(context.Background(), adminActor, tt.query)
			require.NoError(t, err)

			refs := make([]string, 0, len(page.Deposits))
			for _, d := range page.Deposits {
				refs = append(refs, d.ReferenceCode)
			}
			assert.Equal(t, tt.want, refs)
		})
	}
}

func TestQuery_ListRejectsBadFilters(t *testing.T) {
	f := newQueryFixture(t)

	tests := []struct {
		name  string
		query ListQuery
		field string
	}{
		{"unknown status", ListQuery{Status: "done"}, "status"},
		{"bad from date", ListQuery{FromDate: "10/03/2024", ToDate: "2024-03-10"}, "from_date"},
		{"reversed range", ListQuery{FromDate: "2024-03-10", ToDate: "2024-03-01"}, "to_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.query.List(context.Background(), adminActor, tt.query)
			de, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.KindValidation, de.Kind)
			assert.Contains(t, de.FieldMap(), tt.field)
		})
	}

	_, err := f.query.List(context.Background(), Actor{UserID: f.alice.ID}, ListQuery{})
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
}

func TestQuery_UserHistoryIsScopedToCaller(t *testing.T) {
	f := newQueryFixture(t)
	f.seed(t)

	page, err := f.query.UserHistory(context.Background(), Actor{UserID: f.alice.ID}, pagination.New(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	for _, d := range page.Deposits {
		assert.Equal(t, f.alice.ID, d.UserID)
	}

	page, err = f.query.UserHistory(context.Background(), Actor{UserID: 9999}, pagination.New(1, 10))
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Empty(t, page.Deposits)
}

func TestQuery_Events(t *testing.T) {
	f := newQueryFixture(t)
	f.seed(t)

	_, err := f.query.Events(context.Background(), adminActor, "DEP_missing")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	events, err := f.query.Events(context.Background(), adminActor, "DEP_A_1")
	require.NoError(t, err)
	assert.Empty(t, events)

	_, err = f.query.Events(context.Background(), Actor{UserID: f.alice.ID}, "DEP_A_1")
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
}
