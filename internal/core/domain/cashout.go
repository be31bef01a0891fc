package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashoutStatus is the lifecycle state of a cashout request.
type CashoutStatus string

const (
	CashoutStatusPending   CashoutStatus = "pending"
	CashoutStatusApproved  CashoutStatus = "approved"
	CashoutStatusRejected  CashoutStatus = "rejected"
	CashoutStatusSettled   CashoutStatus = "settled"
	CashoutStatusCompleted CashoutStatus = "completed"
)

// CashoutRequest is a seller's request to move funds to their bank account.
// Approval/rejection is a manual, role-gated action; settled/completed
// transitions are owned by the settlement engine after bank confirmation.
type CashoutRequest struct {
	ID              uuid.UUID       `json:"id"`
	SellerRef       uuid.UUID       `json:"seller_ref"`
	Amount          decimal.Decimal `json:"amount"`
	Status          CashoutStatus   `json:"status"`
	ApprovedBy      *uuid.UUID      `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	RejectionReason *string         `json:"rejection_reason,omitempty"`
	BankAccountRef  *string         `json:"bank_account_ref,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// IsTerminal reports whether the request reached a final state.
func (c *CashoutRequest) IsTerminal() bool {
	return c.Status == CashoutStatusRejected || c.Status == CashoutStatusCompleted
}

// CanDecide reports whether a manual approve/reject is still allowed.
func (c *CashoutRequest) CanDecide() bool {
	return c.Status == CashoutStatusPending
}

// AwaitingBankConfirmation reports whether the request should be checked
// against the external transfer feed. A settled request is included so a
// confirmation interrupted before completion finishes on the next run.
func (c *CashoutRequest) AwaitingBankConfirmation() bool {
	return c.Status == CashoutStatusPending ||
		c.Status == CashoutStatusApproved ||
		c.Status == CashoutStatusSettled
}
