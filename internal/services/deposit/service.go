package deposit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/tuantrunglc/ecom-backend-api/internal/errors"
	"github.com/tuantrunglc/ecom-backend-api/internal/logger"
	"github.com/tuantrunglc/ecom-backend-api/internal/models"
	"github.com/tuantrunglc/ecom-backend-api/internal/repositories"
	"github.com/tuantrunglc/ecom-backend-api/internal/services/wallet"
	"github.com/tuantrunglc/ecom-backend-api/internal/storage"

	"go.uber.org/zap"
)

// Operation names used for metrics and logs
const (
	OpCreate  = "create"
	OpApprove = "approve"
	OpReject  = "reject"
)

type blobRemover interface {
	Remove(ctx context.Context, url string) error
}

type service struct {
	store   repositories.Store
	ledger  wallet.Service
	blobs   storage.BlobStore
	refs    referenceGenerator
	config  Config
	metrics MetricsCollector
	now     func() time.Time
}

// NewService wires the workflow. seq may be nil, in which case reference
// collisions are resolved only by the insert retry.
func NewService(
	store repositories.Store,
	ledger wallet.Service,
	blobs storage.BlobStore,
	seq ReferenceSequencer,
	config Config,
	metrics MetricsCollector,
) Service {
	if store == nil {
		panic("store is required")
	}
	if ledger == nil {
		panic("ledger is required")
	}
	if blobs == nil {
		panic("blob store is required")
	}

	defaults := DefaultConfig()
	if config.MinAmount.IsZero() && config.MaxAmount.IsZero() {
		config.MinAmount = defaults.MinAmount
		config.MaxAmount = defaults.MaxAmount
	}
	if config.MaxReferenceTries <= 0 {
		config.MaxReferenceTries = defaults.MaxReferenceTries
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		store:   store,
		ledger:  ledger,
		blobs:   blobs,
		refs:    referenceGenerator{seq: seq},
		config:  config,
		metrics: metrics,
		now:     time.Now,
	}
}

func (s *service) Create(ctx context.Context, actor Actor, input CreateInput) (_ *models.Deposit, err error) {
	start := time.Now()
	defer s.observe(OpCreate, start, &err)

	if actor.UserID == 0 {
		return nil, errForbidden()
	}

	amount, err := ValidateCreate(s.config, input)
	if err != nil {
		return nil, err
	}

	proofURL, stored, err := s.resolveProof(ctx, input.ProofImage)
	if err != nil {
		return nil, err
	}

	deposit, err := s.insert(ctx, actor, &models.Deposit{
		UserID:      actor.UserID,
		Amount:      amount,
		Description: trimmed(input.Description),
		BankAccount: strings.TrimSpace(input.BankAccount),
		ProofImage:  proofURL,
		Status:      models.DepositStatusPending,
	})
	if err != nil {
		if stored {
			s.discardProof(ctx, proofURL)
		}
		return nil, err
	}

	s.metrics.RecordDepositCreated()
	logger.Info(ctx, "deposit created",
		zap.String("reference_code", deposit.ReferenceCode),
		zap.Uint("user_id", deposit.UserID),
		zap.String("amount", deposit.Amount.String()),
	)
	return deposit, nil
}

// resolveProof stores inline images and passes references through.
// stored reports whether a new object was written.
func (s *service) resolveProof(ctx context.Context, proof string) (url string, stored bool, err error) {
	proof = strings.TrimSpace(proof)
	if !storage.IsInlineImage(proof) {
		return proof, false, nil
	}

	img, err := storage.DecodeInlineImage(proof)
	if err != nil {
		msg := "proof_image is not a valid image"
		if errors.Is(err, storage.ErrUnsupportedImageType) {
			msg = "proof_image must be a jpg, jpeg, png or gif image"
		}
		return "", false, apperrors.Validation([]apperrors.FieldError{{Field: "proof_image", Message: msg}})
	}

	url, err = s.blobs.Put(ctx, img.Data, img.ContentType)
	if err != nil {
		return "", false, apperrors.Internal(fmt.Errorf("store proof image: %w", err))
	}
	return url, true, nil
}

func (s *service) discardProof(ctx context.Context, url string) {
	remover, ok := s.blobs.(blobRemover)
	if !ok {
		return
	}
	if err := remover.Remove(ctx, url); err != nil {
		logger.Warn(ctx, "failed to remove orphaned proof image", zap.String("url", url), zap.Error(err))
	}
}

// insert persists the deposit and its created event in one transaction,
// retrying with a fresh reference code when the code is already taken.
func (s *service) insert(ctx context.Context, actor Actor, deposit *models.Deposit) (*models.Deposit, error) {
	now := s.now().UTC()
	reference := s.refs.First(ctx, actor.UserID, now)

	for attempt := 1; ; attempt++ {
		candidate := *deposit
		candidate.ReferenceCode = reference
		candidate.CreatedAt = now
		candidate.UpdatedAt = now

		err := s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
			if err := tx.Deposits().Create(ctx, &candidate); err != nil {
				return err
			}
			return tx.Deposits().CreateEvent(ctx, &models.DepositEvent{
				DepositID:     candidate.ID,
				ReferenceCode: candidate.ReferenceCode,
				Event:         models.DepositEventCreated,
				ToStatus:      models.DepositStatusPending,
				ActorID:       actor.UserID,
				Amount:        candidate.Amount,
				CreatedAt:     now,
			})
		})
		if err == nil {
			return &candidate, nil
		}
		if !errors.Is(err, repositories.ErrDuplicateReference) || attempt >= s.config.MaxReferenceTries {
			return nil, apperrors.Internal(fmt.Errorf("create deposit: %w", err))
		}

		logger.Warn(ctx, "deposit reference collision, retrying",
			zap.String("reference_code", reference),
			zap.Int("attempt", attempt),
		)
		reference = s.refs.Retry(actor.UserID, now)
	}
}

func (s *service) Approve(ctx context.Context, actor Actor, referenceCode string, note *string) (*models.Deposit, error) {
	return s.process(ctx, actor, referenceCode, models.DepositStatusApproved, note)
}

func (s *service) Reject(ctx context.Context, actor Actor, referenceCode string, note *string) (*models.Deposit, error) {
	return s.process(ctx, actor, referenceCode, models.DepositStatusRejected, note)
}

func (s *service) UpdateStatus(ctx context.Context, actor Actor, referenceCode string, input UpdateStatusInput) (*models.Deposit, error) {
	if !actor.IsAdmin {
		return nil, errForbidden()
	}

	status, err := ValidateUpdateStatus(input)
	if err != nil {
		return nil, err
	}
	return s.process(ctx, actor, referenceCode, status, trimmed(input.AdminNote))
}

// process moves a pending deposit to a terminal status. The row lock and
// the status compare-and-set both live inside the transaction, and an
// approval credits the wallet before the transaction commits.
func (s *service) process(ctx context.Context, actor Actor, referenceCode string, to models.DepositStatus, note *string) (_ *models.Deposit, err error) {
	op := OpReject
	if to == models.DepositStatusApproved {
		op = OpApprove
	}
	start := time.Now()
	defer s.observe(op, start, &err)

	if !actor.IsAdmin {
		return nil, errForbidden()
	}
	if !to.IsTerminal() {
		return nil, apperrors.Validation([]apperrors.FieldError{{Field: "status", Message: "status must be one of: approved, rejected"}})
	}

	var result *models.Deposit
	err = s.store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		deposit, err := tx.Deposits().GetByReferenceForUpdate(ctx, referenceCode)
		if err != nil {
			if errors.Is(err, repositories.ErrDepositNotFound) {
				return errNotFound()
			}
			return err
		}

		from := deposit.Status
		if !from.CanTransitionTo(to) {
			return errAlreadyProcessed()
		}

		at := s.now().UTC()
		changed, err := tx.Deposits().TransitionStatus(ctx, repositories.TransitionParams{
			DepositID:   deposit.ID,
			From:        from,
			To:          to,
			ProcessedBy: actor.UserID,
			Note:        note,
			At:          at,
		})
		if err != nil {
			return err
		}
		if !changed {
			return errAlreadyProcessed()
		}

		event := models.DepositEventRejected
		if to == models.DepositStatusApproved {
			event = models.DepositEventApproved
		}
		if err := tx.Deposits().CreateEvent(ctx, &models.DepositEvent{
			DepositID:     deposit.ID,
			ReferenceCode: deposit.ReferenceCode,
			Event:         event,
			FromStatus:    &from,
			ToStatus:      to,
			ActorID:       actor.UserID,
			Note:          note,
			Amount:        deposit.Amount,
			CreatedAt:     at,
		}); err != nil {
			return err
		}

		if to == models.DepositStatusApproved {
			if err := s.ledger.Credit(ctx, tx, deposit.UserID, deposit.Amount); err != nil {
				return err
			}
		}

		deposit.Status = to
		deposit.AdminNote = note
		deposit.ProcessedBy = &actor.UserID
		deposit.ProcessedAt = &at
		deposit.UpdatedAt = at

		processor, err := tx.Users().GetByID(ctx, actor.UserID)
		switch {
		case err == nil:
			deposit.Processor = processor
		case !errors.Is(err, repositories.ErrUserNotFound):
			return err
		}

		result = deposit
		return nil
	})
	if err != nil {
		if _, ok := apperrors.As(err); ok {
			return nil, err
		}
		return nil, apperrors.Internal(fmt.Errorf("%s deposit %s: %w", op, referenceCode, err))
	}

	if to == models.DepositStatusApproved {
		s.ledger.InvalidateBalance(ctx, result.UserID)
	}
	s.metrics.RecordDepositProcessed(string(to))
	logger.Info(ctx, "deposit "+string(to),
		zap.String("reference_code", result.ReferenceCode),
		zap.Uint("admin_id", actor.UserID),
		zap.Uint("user_id", result.UserID),
		zap.String("amount", result.Amount.String()),
	)
	return result, nil
}

func (s *service) observe(op string, start time.Time, err *error) {
	s.metrics.RecordOperationDuration(op, time.Since(start))
	if *err != nil {
		s.metrics.RecordError(op, string(apperrors.KindOf(*err)))
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
