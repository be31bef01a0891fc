package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerBatch is the closing record for one calendar date. At most one
// exists per date (unique date_key constraint); once Closed it is
// immutable and re-closing the date is a no-op.
type LedgerBatch struct {
	DateKey      string          `json:"date_key"`
	BatchID      uuid.UUID       `json:"batch_id"`
	TotalEntries int64           `json:"total_entries"`
	TotalDebit   decimal.Decimal `json:"total_debit"`
	TotalCredit  decimal.Decimal `json:"total_credit"`
	Closed       bool            `json:"closed"`
	ClosedAt     time.Time       `json:"closed_at"`
}
