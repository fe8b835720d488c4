package deposit

import (
	"github.com/tuantrunglc/ecom-backend-api/internal/models"
	"github.com/tuantrunglc/ecom-backend-api/internal/utils/pagination"

	"github.com/shopspring/decimal"
)

// Actor is the authenticated caller, passed explicitly into every call.
type Actor struct {
	UserID  uint
	IsAdmin bool
}

// CreateInput is a deposit request as submitted by the user. Amount is the
// raw decimal text so that "abc" and 1e3 are both handled by validation.
type CreateInput struct {
	Amount      string
	Description *string
	BankAccount string
	// ProofImage is either a data:image URI or an already stored URL.
	ProofImage string
}

// UpdateStatusInput is an admin decision on a pending deposit.
type UpdateStatusInput struct {
	Status    string
	AdminNote *string
}

// ListQuery carries the admin list filters as received. Status "" or
// "all" disables the status filter. FromDate and ToDate (YYYY-MM-DD) only
// apply when both are set.
type ListQuery struct {
	Page     pagination.Params
	Status   string
	Search   string
	FromDate string
	ToDate   string
}

// Page is one page of deposits and the total across all pages.
type Page struct {
	Deposits []models.Deposit
	Total    int64
	Params   pagination.Params
}

// Statistics feeds the admin dashboard. Today is the calendar day in the
// configured timezone.
type Statistics struct {
	PendingCount  int64           `json:"pending_count"`
	ApprovedCount int64           `json:"approved_count"`
	RejectedCount int64           `json:"rejected_count"`
	TodayTotal    decimal.Decimal `json:"today_total"`
	TodayApproved decimal.Decimal `json:"today_approved"`
}

// Config holds the workflow limits.
type Config struct {
	MinAmount         decimal.Decimal
	MaxAmount         decimal.Decimal
	MaxReferenceTries int
}

func DefaultConfig() Config {
	return Config{
		MinAmount:         decimal.NewFromInt(10000),
		MaxAmount:         decimal.NewFromInt(100000000),
		MaxReferenceTries: 5,
	}
}
