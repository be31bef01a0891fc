package ports

import (
	"context"
	"time"

	"ledger-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountBalance is one aggregated balance line (balance = Σdebit − Σcredit).
type AccountBalance struct {
	Account domain.Account  `json:"account"`
	Balance decimal.Decimal `json:"balance"`
}

// TrialBalanceRow is one line of the trial balance over a date range.
type TrialBalanceRow struct {
	Account     domain.Account  `json:"account"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// DayTotals aggregates one UTC day of postings.
type DayTotals struct {
	TotalEntries int64
	TotalDebit   decimal.Decimal
	TotalCredit  decimal.Decimal
}

// DayGroup is the per-(account, seller) aggregation feeding a snapshot.
type DayGroup struct {
	Account     domain.Account
	SellerRef   *uuid.UUID
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
}

// EntryRepository persists the append-only ledger entries. CreateBatch is
// the only write; everything else is read-side aggregation.
// Methods accepting pgx.Tx run inside the caller's transaction.
type EntryRepository interface {
	CreateBatch(ctx context.Context, tx pgx.Tx, entries []domain.LedgerEntry) error
	GetBatchIDByIdempotencyKey(ctx context.Context, key string) (*uuid.UUID, error)
	GetBatchIDByIdempotencyKeyTx(ctx context.Context, tx pgx.Tx, key string) (*uuid.UUID, error)
	ListByBatch(ctx context.Context, batchID uuid.UUID) ([]domain.LedgerEntry, error)
	ListBatchIDs(ctx context.Context) ([]uuid.UUID, error)
	AggregateDay(ctx context.Context, tx pgx.Tx, day time.Time) (*DayTotals, error)
	AggregateDayGroups(ctx context.Context, tx pgx.Tx, day time.Time) ([]DayGroup, error)
	DistinctAccountsByDay(ctx context.Context, day time.Time) ([]domain.Account, error)
	// Balance reader queries
	SumBySeller(ctx context.Context, sellerRef uuid.UUID) ([]AccountBalance, error)
	SumByAccount(ctx context.Context, sellerRef uuid.UUID, account domain.Account) (decimal.Decimal, error)
	TrialBalance(ctx context.Context, from, to time.Time) ([]TrialBalanceRow, error)
	GlobalBalance(ctx context.Context) ([]AccountBalance, error)
}

// SnapshotRepository persists daily snapshots. Upsert runs inside the
// closer's transaction; divergence/lock updates are individually atomic so
// a mid-run reconciliation failure leaves remaining rows untouched.
type SnapshotRepository interface {
	Upsert(ctx context.Context, tx pgx.Tx, s *domain.LedgerSnapshot) error
	GetByKey(ctx context.Context, dateKey string, account domain.Account, sellerRef *uuid.UUID) (*domain.LedgerSnapshot, error)
	ListByDate(ctx context.Context, dateKey string) ([]domain.LedgerSnapshot, error)
	ListAccountsByDate(ctx context.Context, dateKey string) ([]domain.Account, error)
	ListReleasable(ctx context.Context, dateKey string) ([]domain.LedgerSnapshot, error)
	UpdateDivergence(ctx context.Context, dateKey string, account domain.Account, sellerRef *uuid.UUID, divergence decimal.Decimal) error
	SetLockedByDate(ctx context.Context, dateKey string, locked bool) (int64, error)
	AdjustBalance(ctx context.Context, dateKey string, account domain.Account, sellerRef *uuid.UUID, delta decimal.Decimal) error
}

// BatchRepository persists the one-per-date closing records.
type BatchRepository interface {
	Create(ctx context.Context, tx pgx.Tx, b *domain.LedgerBatch) error
	GetByDate(ctx context.Context, dateKey string) (*domain.LedgerBatch, error)
}

// CashoutRepository persists cashout requests and their status machine.
type CashoutRepository interface {
	Create(ctx context.Context, c *domain.CashoutRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CashoutRequest, error)
	ListBySeller(ctx context.Context, sellerRef uuid.UUID) ([]domain.CashoutRequest, error)
	ListAwaitingConfirmation(ctx context.Context, olderThan time.Time) ([]domain.CashoutRequest, error)
	UpdateDecision(ctx context.Context, c *domain.CashoutRequest) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CashoutStatus) error
}

// WalletRepository persists the derived seller balance view.
// ForUpdate variants take a row lock so the sale-time reservation and the
// release flows cannot race for the same seller.
type WalletRepository interface {
	Create(ctx context.Context, w *domain.Wallet) error
	GetBySeller(ctx context.Context, sellerRef uuid.UUID) (*domain.Wallet, error)
	GetBySellerForUpdate(ctx context.Context, tx pgx.Tx, sellerRef uuid.UUID) (*domain.Wallet, error)
	UpdateAvailable(ctx context.Context, tx pgx.Tx, sellerRef uuid.UUID, available decimal.Decimal) error
	AddUnavailableFund(ctx context.Context, tx pgx.Tx, f *domain.UnavailableFund) error
	ListMaturedFunds(ctx context.Context, now time.Time) ([]domain.UnavailableFund, error)
	ListUnavailableFunds(ctx context.Context, sellerRef uuid.UUID) ([]domain.UnavailableFund, error)
	MarkFundReleased(ctx context.Context, tx pgx.Tx, fundID uuid.UUID) error
	AppendOperation(ctx context.Context, tx pgx.Tx, op *domain.WalletOperation) error
	ListOperations(ctx context.Context, sellerRef uuid.UUID, limit int) ([]domain.WalletOperation, error)
}

// PolicyRepository persists retention policies.
type PolicyRepository interface {
	Create(ctx context.Context, p *domain.RetentionPolicy) error
	GetActive(ctx context.Context, method domain.PaymentMethod, risk domain.RiskLevel) (*domain.RetentionPolicy, error)
}

// AuditRepository persists durable audit events written by batch jobs.
type AuditRepository interface {
	Create(ctx context.Context, ev *domain.AuditEvent) error
	ListByDate(ctx context.Context, dateKey string) ([]domain.AuditEvent, error)
}

// IdempotencyCache is the fast-path replay check in front of the database
// lookup. A miss (nil, nil) falls through to the authoritative DB check.
type IdempotencyCache interface {
	Get(ctx context.Context, key string) (*uuid.UUID, error)
	Set(ctx context.Context, key string, batchID uuid.UUID, ttl time.Duration) error
}

// JobLockStore guards the single-instance batch jobs against concurrent
// runs of the same job.
type JobLockStore interface {
	Acquire(ctx context.Context, job string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, job string) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
