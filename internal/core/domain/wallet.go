package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet is the seller-facing balance view. It is a derived cache: both the
// available balance and the unavailable funds must always be re-derivable
// from the ledger entry history. Clients never mutate it directly.
type Wallet struct {
	SellerRef uuid.UUID       `json:"seller_ref"`
	Available decimal.Decimal `json:"available"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// UnavailableFund is a retained amount waiting out its hold period.
type UnavailableFund struct {
	ID          uuid.UUID       `json:"id"`
	SellerRef   uuid.UUID       `json:"seller_ref"`
	Amount      decimal.Decimal `json:"amount"`
	AvailableIn time.Time       `json:"available_in"`
	OriginRef   string          `json:"origin_ref"`
	Released    bool            `json:"released"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Matured reports whether the hold period has elapsed.
func (f *UnavailableFund) Matured(now time.Time) bool {
	return !f.Released && !now.Before(f.AvailableIn)
}

// WalletOperationType tags entries in a wallet's operation log.
type WalletOperationType string

const (
	WalletOpCredit  WalletOperationType = "credit"
	WalletOpDebit   WalletOperationType = "debit"
	WalletOpHold    WalletOperationType = "hold"
	WalletOpRelease WalletOperationType = "release"
)

// WalletOperation is one line of a wallet's operation log.
type WalletOperation struct {
	ID        uuid.UUID           `json:"id"`
	SellerRef uuid.UUID           `json:"seller_ref"`
	Type      WalletOperationType `json:"type"`
	Amount    decimal.Decimal     `json:"amount"`
	Ref       string              `json:"ref"`
	CreatedAt time.Time           `json:"created_at"`
}
