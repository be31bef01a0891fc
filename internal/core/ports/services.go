package ports

import (
	"context"
	"time"

	"ledger-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=services.go -destination=mocks/services_mocks.go -package=mocks

// LedgerPoster is the single write path into the entry store.
type LedgerPoster interface {
	// Post validates, chains and atomically commits a balanced batch.
	// A replayed idempotency key returns the original batch id with
	// replayed=true and writes nothing.
	Post(ctx context.Context, intents []domain.PostingIntent, pctx domain.PostContext) (batchID uuid.UUID, replayed bool, err error)
}

// BalanceReader aggregates balances from the entry store on demand.
type BalanceReader interface {
	GetBalanceBySeller(ctx context.Context, sellerRef uuid.UUID) ([]AccountBalance, error)
	GetBalanceByAccount(ctx context.Context, sellerRef uuid.UUID, account domain.Account) (decimal.Decimal, error)
	GetTrialBalance(ctx context.Context, from, to time.Time) ([]TrialBalanceRow, error)
	GetGlobalBalance(ctx context.Context) ([]AccountBalance, error)
}

// BatchCloser orchestrates the end-of-day close.
type BatchCloser interface {
	// CloseDailyBatch closes the UTC day of date. Returns noop=true when
	// the day is already closed.
	CloseDailyBatch(ctx context.Context, date time.Time) (batch *domain.LedgerBatch, noop bool, err error)
}

// IntegrityFinding is one defect discovered by the auditor.
type IntegrityFinding struct {
	BatchID uuid.UUID `json:"batch_id"`
	Kind    string    `json:"kind"` // unbalanced | broken_hash
	Detail  string    `json:"detail"`
}

// IntegrityReport is the auditor's full output for one run.
type IntegrityReport struct {
	DateKey           string             `json:"date_key"`
	VerifiedBatches   int                `json:"verified_batches"`
	UnbalancedBatches int                `json:"unbalanced_batches"`
	BrokenHashes      int                `json:"broken_hashes"`
	MissingSnapshots  []domain.Account   `json:"missing_snapshots"`
	Details           []IntegrityFinding `json:"details"`
}

// IntegrityAuditor independently re-derives every batch's hash chain and
// balance. It performs no writes beyond the durable audit record.
type IntegrityAuditor interface {
	RunIntegrityCheck(ctx context.Context, date time.Time) (*IntegrityReport, error)
}

// ReconciliationResult summarizes one reconciliation run.
type ReconciliationResult struct {
	DateKey           string           `json:"date_key"`
	Matched           int              `json:"matched"`
	MissingInLedger   []domain.Account `json:"missing_in_ledger"`
	MissingInExternal []domain.Account `json:"missing_in_external"`
	DivergenceRatio   decimal.Decimal  `json:"divergence_ratio"`
	Locked            bool             `json:"locked"`
}

// Reconciler compares a day's snapshots against the external statement and
// locks the whole day when aggregate divergence crosses the threshold.
type Reconciler interface {
	Reconcile(ctx context.Context, dateKey string, statement []StatementRow) (*ReconciliationResult, error)
	ReconcileRemote(ctx context.Context, dateKey string) (*ReconciliationResult, error)
}

// SettlementRunReport summarizes one settlement job run. Item failures are
// isolated: one seller or request failing never aborts the rest.
type SettlementRunReport struct {
	DateKey   string   `json:"date_key,omitempty"`
	Processed int      `json:"processed"`
	Succeeded int      `json:"succeeded"`
	Skipped   int      `json:"skipped"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

// SettlementEngine releases seller funds (D+1) and confirms bank-side
// completion of cashouts (D+2).
type SettlementEngine interface {
	ReleaseDayPlusOne(ctx context.Context, dateKey string) (*SettlementRunReport, error)
	ConfirmDayPlusTwo(ctx context.Context, cutoff time.Time) (*SettlementRunReport, error)
}

// ReserveCalculator computes the risk reserve and retention hold for a sale.
type ReserveCalculator interface {
	ComputeReserve(amount decimal.Decimal) decimal.Decimal
	ComputeRetention(ctx context.Context, method domain.PaymentMethod, risk domain.RiskLevel, netAmount decimal.Decimal) (*domain.RetentionDecision, error)
	ReleaseMaturedFunds(ctx context.Context, now time.Time) (*SettlementRunReport, error)
}

// SaleRequest is the validated input from the request layer for a sale.
type SaleRequest struct {
	Amount      decimal.Decimal
	Method      domain.PaymentMethod
	Description string
	ProductRef  string
	SellerRef   uuid.UUID
}

// SaleResult is the ledger outcome of a sale.
type SaleResult struct {
	TransactionRef string                    `json:"transaction_ref"`
	BatchID        uuid.UUID                 `json:"batch_id"`
	NetAmount      decimal.Decimal           `json:"net_amount"`
	ReserveAmount  decimal.Decimal           `json:"reserve_amount"`
	Retention      *domain.RetentionDecision `json:"retention,omitempty"`
}

// SaleService runs the sale-time flow: risk evaluation, reserve/retention
// calculation, ledger posting and wallet reservation.
type SaleService interface {
	CreateSale(ctx context.Context, req SaleRequest) (*SaleResult, error)
}

// CashoutDecision carries a manual approve/reject.
type CashoutDecision struct {
	Approve   bool
	DecidedBy uuid.UUID
	Reason    string
}

// CashoutService owns creation and the manual approval flow of cashout
// requests. Settlement transitions belong to the SettlementEngine.
type CashoutService interface {
	CreateCashout(ctx context.Context, sellerRef uuid.UUID, amount decimal.Decimal, bankAccountRef *string) (*domain.CashoutRequest, error)
	Decide(ctx context.Context, id uuid.UUID, decision CashoutDecision) (*domain.CashoutRequest, error)
	ListBySeller(ctx context.Context, sellerRef uuid.UUID) ([]domain.CashoutRequest, error)
}

// ExportResult describes a written snapshot export.
type ExportResult struct {
	Path        string `json:"path"`
	HashPath    string `json:"hash_path"`
	ContentHash string `json:"content_hash"`
	Rows        int    `json:"rows"`
}

// SnapshotExporter writes a day's snapshots to a durable file with a
// content hash recorded alongside for tamper evidence of the export itself.
type SnapshotExporter interface {
	ExportSnapshots(ctx context.Context, dateKey string, dir string) (*ExportResult, error)
}

// WalletReader exposes the seller-facing wallet view.
type WalletReader interface {
	GetWallet(ctx context.Context, sellerRef uuid.UUID) (*domain.Wallet, []domain.UnavailableFund, error)
}
