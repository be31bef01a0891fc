package ports

import (
	"context"
	"time"

	"ledger-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=feeds.go -destination=mocks/feeds_mocks.go -package=mocks

// StatementRow is one line of an external acquirer/bank statement.
type StatementRow struct {
	Account domain.Account  `json:"account"`
	Balance decimal.Decimal `json:"balance"`
}

// StatementSource supplies the external statement the reconciler compares
// snapshots against. Implementations must bound the call with a timeout; a
// transport failure is an ExternalDependencyError, never "no divergence".
type StatementSource interface {
	FetchStatement(ctx context.Context, dateKey string) ([]StatementRow, error)
}

// BankTransfer is one transfer reported by the external bank feed.
type BankTransfer struct {
	ID             string          `json:"id"`
	Amount         decimal.Decimal `json:"amount"`
	BankAccountRef string          `json:"bank_account_ref"`
	TransferredAt  time.Time       `json:"transferred_at"`
}

// TransferFeed supplies completed bank transfers for D+2 confirmation.
type TransferFeed interface {
	ListTransfers(ctx context.Context, since, until time.Time) ([]BankTransfer, error)
}

// RiskEvaluator classifies a sale's fraud risk, driving the retention
// policy lookup.
type RiskEvaluator interface {
	Evaluate(ctx context.Context, sellerRef uuid.UUID, method domain.PaymentMethod, amount decimal.Decimal) (domain.RiskLevel, error)
}

// LedgerEvent is published after a ledger state change commits.
type LedgerEvent struct {
	Kind      string    `json:"kind"` // ledger.batch.posted | ledger.day.closed
	BatchID   uuid.UUID `json:"batch_id"`
	DateKey   string    `json:"date_key,omitempty"`
	Entries   int       `json:"entries"`
	Timestamp time.Time `json:"timestamp"`
}

// EventPublisher emits ledger events best-effort: publishing never blocks
// or fails the write path.
type EventPublisher interface {
	Publish(ctx context.Context, ev LedgerEvent) error
	Close() error
}
