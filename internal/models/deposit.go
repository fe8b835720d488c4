package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepositStatus is the state of a deposit request.
type DepositStatus string

const (
	DepositStatusPending  DepositStatus = "pending"
	DepositStatusApproved DepositStatus = "approved"
	DepositStatusRejected DepositStatus = "rejected"
)

func (s DepositStatus) Valid() bool {
	switch s {
	case DepositStatusPending, DepositStatusApproved, DepositStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func (s DepositStatus) IsTerminal() bool {
	return s == DepositStatusApproved || s == DepositStatusRejected
}

// CanTransitionTo holds the whole state machine: pending moves to
// approved or rejected, nothing else moves.
func (s DepositStatus) CanTransitionTo(next DepositStatus) bool {
	return s == DepositStatusPending && next.IsTerminal()
}

// Deposit is a user's request to top up the wallet from a bank transfer.
// Rows are never deleted; they are the audit trail.
type Deposit struct {
	ID            uint            `gorm:"primarykey" json:"-"`
	ReferenceCode string          `gorm:"size:64;uniqueIndex;not null" json:"reference_code"`
	UserID        uint            `gorm:"not null;index:idx_deposits_user_status,priority:1" json:"user_id"`
	User          *User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Description   *string         `gorm:"type:text" json:"description"`
	BankAccount   string          `gorm:"size:50;not null" json:"bank_account"`
	ProofImage    string          `gorm:"not null" json:"proof_image"`
	Status        DepositStatus   `gorm:"size:16;not null;default:'pending';index:idx_deposits_user_status,priority:2;index:idx_deposits_status_created,priority:1" json:"status"`
	AdminNote     *string         `gorm:"type:text" json:"admin_note"`
	ProcessedBy   *uint           `json:"-"`
	Processor     *User           `gorm:"foreignKey:ProcessedBy;constraint:OnDelete:SET NULL" json:"processed_by,omitempty"`
	ProcessedAt   *time.Time      `json:"processed_at"`
	CreatedAt     time.Time       `gorm:"index:idx_deposits_status_created,priority:2" json:"created_at"`
	UpdatedAt     time.Time       `json:"-"`
}

// IsProcessed reports whether the audit fields are expected to be set.
func (d *Deposit) IsProcessed() bool {
	return d.Status != DepositStatusPending
}

// DepositEventType names a recorded transition.
type DepositEventType string

const (
	DepositEventCreated  DepositEventType = "created"
	DepositEventApproved DepositEventType = "approved"
	DepositEventRejected DepositEventType = "rejected"
)

// DepositEvent is written in the same transaction as the transition it
// records.
type DepositEvent struct {
	ID            uint             `gorm:"primarykey" json:"id"`
	DepositID     uint             `gorm:"not null;index" json:"-"`
	ReferenceCode string           `gorm:"size:64;not null;index" json:"reference_code"`
	Event         DepositEventType `gorm:"size:16;not null" json:"event"`
	FromStatus    *DepositStatus   `gorm:"size:16" json:"from_status"`
	ToStatus      DepositStatus    `gorm:"size:16;not null" json:"to_status"`
	ActorID       uint             `gorm:"not null" json:"actor_id"`
	Note          *string          `gorm:"type:text" json:"note,omitempty"`
	Amount        decimal.Decimal  `gorm:"type:decimal(15,2);not null" json:"amount"`
	CreatedAt     time.Time        `json:"created_at"`
}
