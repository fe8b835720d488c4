package deposit

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	apperrors "github.com/tuantrunglc/ecom-backend-api/internal/errors"
	"github.com/tuantrunglc/ecom-backend-api/internal/models"
	"github.com/tuantrunglc/ecom-backend-api/internal/repositories"
	"github.com/tuantrunglc/ecom-backend-api/internal/repositories/repotest"
	"github.com/tuantrunglc/ecom-backend-api/internal/services/wallet"
	"github.com/tuantrunglc/ecom-backend-api/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const proofURL = "http://localhost:3000/storage/deposits/proof_1_abc.png"

type fixture struct {
	db      *gorm.DB
	store   repositories.Store
	svc     *service
	storage string
	user    *models.User
	admin   *models.User
}

func newFixture(t *testing.T, seq ReferenceSequencer) *fixture {
	t.Helper()

	db := repotest.NewDB(t)
	user := &models.User{Model: gorm.Model{ID: 42}, Name: "Nguyen Van A", Email: "a@example.com", Password: "x", Role: models.RoleUser}
	require.NoError(t, db.Create(user).Error)
	admin := &models.User{Model: gorm.Model{ID: 1}, Name: "Admin", Email: "admin@example.com", Password: "x", Role: models.RoleAdmin}
	require.NoError(t, db.Create(admin).Error)

	store := repositories.NewStore(db)
	root := t.TempDir()
	svc := NewService(
		store,
		wallet.NewService(store, nil, nil),
		storage.NewLocalStore(root, "http://localhost:3000/storage"),
		seq,
		DefaultConfig(),
		nil,
	).(*service)

	return &fixture{db: db, store: store, svc: svc, storage: root, user: user, admin: admin}
}

func (f *fixture) balance(t *testing.T, userID uint) decimal.Decimal {
	t.Helper()
	b, err := f.store.Users().GetBalance(context.Background(), userID)
	require.NoError(t, err)
	return b
}

func (f *fixture) create(t *testing.T, amount string) *models.Deposit {
	t.Helper()
	d, err := f.svc.Create(context.Background(), Actor{UserID: f.user.ID}, CreateInput{
		Amount:      amount,
		BankAccount: "1234567890",
		ProofImage:  proofURL,
	})
	require.NoError(t, err)
	return d
}

var adminActor = Actor{UserID: 1, IsAdmin: true}

func TestService_ApproveScenario(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	d := f.create(t, "500000")
	assert.Equal(t, models.DepositStatusPending, d.Status)
	assert.Regexp(t, regexp.MustCompile(`^DEP_42_\d+$`), d.ReferenceCode)
	assert.Equal(t, proofURL, d.ProofImage)
	assert.Nil(t, d.ProcessedBy)
	assert.Nil(t, d.ProcessedAt)

	before := f.balance(t, 42)
	note := "ok"
	approved, err := f.svc.Approve(ctx, adminActor, d.ReferenceCode, &note)
	require.NoError(t, err)
	assert.Equal(t, models.DepositStatusApproved, approved.Status)
	require.NotNil(t, approved.ProcessedBy)
	assert.Equal(t, uint(1), *approved.ProcessedBy)
	assert.NotNil(t, approved.ProcessedAt)
	require.NotNil(t, approved.Processor)
	assert.Equal(t, "Admin", approved.Processor.Name)
	assert.True(t, f.balance(t, 42).Sub(before).Equal(decimal.NewFromInt(500000)))

	_, err = f.svc.Approve(ctx, adminActor, d.ReferenceCode, nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
	assert.True(t, f.balance(t, 42).Sub(before).Equal(decimal.NewFromInt(500000)))

	_, err = f.svc.Reject(ctx, adminActor, d.ReferenceCode, nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))

	events, err := f.store.Deposits().ListEvents(ctx, d.ReferenceCode)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.DepositEventCreated, events[0].Event)
	assert.Equal(t, models.DepositEventApproved, events[1].Event)
	require.NotNil(t, events[1].FromStatus)
	assert.Equal(t, models.DepositStatusPending, *events[1].FromStatus)
	assert.Equal(t, uint(1), events[1].ActorID)
}

func TestService_RejectLeavesWalletUnchanged(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	d := f.create(t, "75000")
	before := f.balance(t, 42)

	note := "not found"
	rejected, err := f.svc.Reject(ctx, adminActor, d.ReferenceCode, &note)
	require.NoError(t, err)
	assert.Equal(t, models.DepositStatusRejected, rejected.Status)
	require.NotNil(t, rejected.AdminNote)
	assert.Equal(t, "not found", *rejected.AdminNote)
	assert.True(t, f.balance(t, 42).Equal(before))

	stored, err := f.store.Deposits().GetByReference(ctx, d.ReferenceCode)
	require.NoError(t, err)
	assert.Equal(t, models.DepositStatusRejected, stored.Status)
	assert.NotNil(t, stored.ProcessedAt)

	_, err = f.svc.Approve(ctx, adminActor, d.ReferenceCode, nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
	assert.True(t, f.balance(t, 42).Equal(before))
}

func TestService_ProcessErrors(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	d := f.create(t, "20000")

	_, err := f.svc.Approve(ctx, Actor{UserID: 42}, d.ReferenceCode, nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	_, err = f.svc.Approve(ctx, adminActor, "DEP_missing", nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	_, err = f.svc.UpdateStatus(ctx, adminActor, d.ReferenceCode, UpdateStatusInput{Status: "pending"})
	de, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindValidation, de.Kind)
	assert.Contains(t, de.FieldMap(), "status")

	_, err = f.svc.UpdateStatus(ctx, Actor{UserID: 42}, d.ReferenceCode, UpdateStatusInput{Status: "approved"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	got, err := f.store.Deposits().GetByReference(ctx, d.ReferenceCode)
	require.NoError(t, err)
	assert.Equal(t, models.DepositStatusPending, got.Status)
	assert.True(t, f.balance(t, 42).IsZero())
}

func TestService_UpdateStatusDispatches(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	a := f.create(t, "10000")
	b := f.create(t, "30000")

	note := "  "
	got, err := f.svc.UpdateStatus(ctx, adminActor, a.ReferenceCode, UpdateStatusInput{Status: "approved", AdminNote: &note})
	require.NoError(t, err)
	assert.Equal(t, models.DepositStatusApproved, got.Status)
	assert.Nil(t, got.AdminNote)

	got, err = f.svc.UpdateStatus(ctx, adminActor, b.ReferenceCode, UpdateStatusInput{Status: "rejected"})
	require.NoError(t, err)
	assert.Equal(t, models.DepositStatusRejected, got.Status)

	assert.True(t, f.balance(t, 42).Equal(decimal.NewFromInt(10000)))
}

func TestService_CreateValidation(t *testing.T) {
	long := string(bytes.Repeat([]byte("x"), 501))

	tests := []struct {
		name   string
		input  CreateInput
		fields []string
	}{
		{
			name:   "below minimum",
			input:  CreateInput{Amount: "9999", BankAccount: "123", ProofImage: proofURL},
			fields: []string{"amount"},
		},
		{
			name:   "above maximum",
			input:  CreateInput{Amount: "100000001", BankAccount: "123", ProofImage: proofURL},
			fields: []string{"amount"},
		},
		{
			name:   "not numeric",
			input:  CreateInput{Amount: "ten", BankAccount: "123", ProofImage: proofURL},
			fields: []string{"amount"},
		},
		{
			name:   "huge exponent",
			input:  CreateInput{Amount: "1e100000000", BankAccount: "123", ProofImage: proofURL},
			fields: []string{"amount"},
		},
		{
			name:   "tiny exponent",
			input:  CreateInput{Amount: "1e-100000000", BankAccount: "123", ProofImage: proofURL},
			fields: []string{"amount"},
		},
		{
			name:   "too many decimals",
			input:  CreateInput{Amount: "10000.001", BankAccount: "123", ProofImage: proofURL},
			fields: []string{"amount"},
		},
		{
			name:   "missing everything",
			input:  CreateInput{},
			fields: []string{"amount", "bank_account", "proof_image"},
		},
		{
			name:   "long bank account and description",
			input:  CreateInput{Amount: "10000", BankAccount: long[:51], Description: &long, ProofImage: proofURL},
			fields: []string{"bank_account", "description"},
		},
		{
			name:   "unsupported inline image",
			input:  CreateInput{Amount: "10000", BankAccount: "123", ProofImage: "data:image/bmp;base64,Qk0="},
			fields: []string{"proof_image"},
		},
		{
			name:   "corrupt inline image",
			input:  CreateInput{Amount: "10000", BankAccount: "123", ProofImage: "data:image/png;base64,aGVsbG8="},
			fields: []string{"proof_image"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)

			start := time.Now()
			_, err := f.svc.Create(context.Background(), Actor{UserID: 42}, tt.input)
			assert.Less(t, time.Since(start), 5*time.Second)
			de, ok := apperrors.As(err)
			require.True(t, ok, "%v", err)
			assert.Equal(t, apperrors.KindValidation, de.Kind)
			for _, field := range tt.fields {
				assert.Contains(t, de.FieldMap(), field)
			}

			var count int64
			require.NoError(t, f.db.Model(&models.Deposit{}).Count(&count).Error)
			assert.Zero(t, count)
		})
	}
}

func TestService_CreateBoundaryAmounts(t *testing.T) {
	f := newFixture(t, nil)

	low := f.create(t, "10000")
	assert.True(t, low.Amount.Equal(decimal.NewFromInt(10000)))

	f.svc.now = func() time.Time { return time.Now().Add(time.Second) }
	high := f.create(t, "100000000")
	assert.True(t, high.Amount.Equal(decimal.NewFromInt(100000000)))
	assert.NotEqual(t, low.ReferenceCode, high.ReferenceCode)
}

func TestService_CreateStoresInlineImage(t *testing.T) {
	f := newFixture(t, nil)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))))
	inline := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	d, err := f.svc.Create(context.Background(), Actor{UserID: 42}, CreateInput{
		Amount:      "50000",
		BankAccount: "VCB 0011",
		ProofImage:  inline,
	})
	require.NoError(t, err)
	assert.Regexp(t, `^http://localhost:3000/storage/deposits/proof_\d+_[0-9a-f-]+\.png$`, d.ProofImage)

	files, err := filepath.Glob(filepath.Join(f.storage, "deposits", "proof_*.png"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

type fixedSequencer struct{ n int64 }

func (s fixedSequencer) NextSequence(context.Context, uint, int64) (int64, error) { return s.n, nil }

func TestService_CreateRetriesOnReferenceCollision(t *testing.T) {
	f := newFixture(t, fixedSequencer{n: 1})
	frozen := time.Unix(1700000000, 0)
	f.svc.now = func() time.Time { return frozen }

	first := f.create(t, "10000")
	assert.Equal(t, "DEP_42_1700000000", first.ReferenceCode)

	second := f.create(t, "20000")
	assert.Regexp(t, `^DEP_42_1700000000_\d{4}$`, second.ReferenceCode)
}

func TestService_CreateUsesSequenceSuffix(t *testing.T) {
	f := newFixture(t, fixedSequencer{n: 3})
	f.svc.now = func() time.Time { return time.Unix(1700000000, 0) }

	d := f.create(t, "10000")
	assert.Equal(t, "DEP_42_1700000000_3", d.ReferenceCode)
}

func TestService_CreateFailureRemovesStoredImage(t *testing.T) {
	f := newFixture(t, fixedSequencer{n: 1})
	f.svc.config.MaxReferenceTries = 1
	f.svc.now = func() time.Time { return time.Unix(1700000000, 0) }
	f.create(t, "10000")

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))))
	_, err := f.svc.Create(context.Background(), Actor{UserID: 42}, CreateInput{
		Amount:      "10000",
		BankAccount: "123",
		ProofImage:  "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindInternal))

	entries, err := os.ReadDir(filepath.Join(f.storage, "deposits"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestService_ConcurrentDecisionsHaveOneWinner(t *testing.T) {
	for _, mixed := range []bool{false, true} {
		name := "all approve"
		if mixed {
			name = "approve and reject"
		}
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, nil)
			d := f.create(t, "250000")

			const n = 8
			var (
				wg        sync.WaitGroup
				mu        sync.Mutex
				winners   []models.DepositStatus
				conflicts int
			)
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					var (
						got *models.Deposit
						err error
					)
					if mixed && i%2 == 1 {
						got, err = f.svc.Reject(context.Background(), adminActor, d.ReferenceCode, nil)
					} else {
						got, err = f.svc.Approve(context.Background(), adminActor, d.ReferenceCode, nil)
					}

					mu.Lock()
					defer mu.Unlock()
					switch {
					case err == nil:
						winners = append(winners, got.Status)
					case apperrors.IsKind(err, apperrors.KindInvalidState):
						conflicts++
					default:
						t.Errorf("unexpected error: %v", err)
					}
				}(i)
			}
			wg.Wait()

			require.Len(t, winners, 1)
			assert.Equal(t, n-1, conflicts)

			want := decimal.Zero
			if winners[0] == models.DepositStatusApproved {
				want = decimal.NewFromInt(250000)
			}
			assert.True(t, f.balance(t, 42).Equal(want), f.balance(t, 42).String())

			events, err := f.store.Deposits().ListEvents(context.Background(), d.ReferenceCode)
			require.NoError(t, err)
			assert.Len(t, events, 2)
		})
	}
}
