package deposit

import (
	"github.com/tuantrunglc/ecom-backend-api/internal/models"
	"github.com/tuantrunglc/ecom-backend-api/internal/validation"

	"github.com/shopspring/decimal"
)

const (
	maxDescriptionLength = 500
	maxBankAccountLength = 50
	maxAdminNoteLength   = 500
	amountPlaces         = 2
)

// ValidateCreate checks a deposit request and returns the parsed amount.
// The error, if any, is a validation DomainError listing every bad field.
func ValidateCreate(cfg Config, in CreateInput) (decimal.Decimal, error) {
	v := validation.New()

	amount, ok := v.Decimal("amount", in.Amount)
	if ok {
		v.Between("amount", amount, cfg.MinAmount, cfg.MaxAmount)
		v.MaxDecimalPlaces("amount", amount, amountPlaces)
	}

	if in.Description != nil {
		v.MaxLength("description", *in.Description, maxDescriptionLength)
	}

	v.Required("bank_account", in.BankAccount, "bank_account is required")
	if !v.HasError("bank_account") {
		v.MaxLength("bank_account", in.BankAccount, maxBankAccountLength)
	}

	v.Required("proof_image", in.ProofImage, "proof_image is required")

	return amount, v.Err()
}

// ValidateUpdateStatus checks an admin decision.
func ValidateUpdateStatus(in UpdateStatusInput) (models.DepositStatus, error) {
	v := validation.New()

	v.Required("status", in.Status, "status is required")
	if !v.HasError("status") {
		v.OneOf("status", in.Status, string(models.DepositStatusApproved), string(models.DepositStatusRejected))
	}
	if in.AdminNote != nil {
		v.MaxLength("admin_note", *in.AdminNote, maxAdminNoteLength)
	}

	return models.DepositStatus(in.Status), v.Err()
}
