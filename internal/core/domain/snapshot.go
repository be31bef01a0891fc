package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateKeyLayout is the canonical UTC day key used by snapshots, batches and
// exports.
const DateKeyLayout = "2006-01-02"

// DateKeyOf returns the UTC day key for a point in time.
func DateKeyOf(t time.Time) string {
	return t.UTC().Format(DateKeyLayout)
}

// ParseDateKey parses a day key back into its UTC midnight.
func ParseDateKey(key string) (time.Time, error) {
	return time.ParseInLocation(DateKeyLayout, key, time.UTC)
}

// LedgerSnapshot is the daily consolidation of postings for one
// (account, seller) pair. Totals are written by the aggregator; divergence
// and locked are owned exclusively by the reconciler after creation.
//
// Sign convention: Balance = DebitTotal − CreditTotal. Under this
// convention a sale debits cash (cash balance rises) and credits
// seller_liability (liability balance goes negative, i.e. owed to the
// seller).
type LedgerSnapshot struct {
	DateKey     string          `json:"date_key"`
	SellerRef   *uuid.UUID      `json:"seller_ref,omitempty"`
	Account     Account         `json:"account"`
	DebitTotal  decimal.Decimal `json:"debit_total"`
	CreditTotal decimal.Decimal `json:"credit_total"`
	Balance     decimal.Decimal `json:"balance"`
	Divergence  decimal.Decimal `json:"divergence"`
	Locked      bool            `json:"locked"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// OwedToSeller returns the positive amount owed for a seller_liability
// snapshot, or zero when nothing is owed.
func (s *LedgerSnapshot) OwedToSeller() decimal.Decimal {
	if s.Account != AccountSellerLiability || !s.Balance.IsNegative() {
		return decimal.Zero
	}
	return s.Balance.Neg()
}
