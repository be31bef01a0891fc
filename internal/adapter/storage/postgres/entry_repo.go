package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ledger-gateway/internal/core/domain"
	"ledger-gateway/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// EntryRepo implements ports.EntryRepository over the append-only
// ledger_entries table. Inserts go through CreateBatch only; there is no
// update or delete path by construction.
type EntryRepo struct {
	pool Pool
}

// NewEntryRepo creates a new EntryRepo.
func NewEntryRepo(pool Pool) *EntryRepo {
	return &EntryRepo{pool: pool}
}

const entryColumns = `batch_id, sequence, transaction_ref, seller_ref, account, entry_type,
	amount, currency, idempotency_key, side_hash, source_system, source_detail, created_at, event_at`

// CreateBatch inserts all entries of a batch within the caller's
// transaction. Entries must arrive in sequence order.
func (r *EntryRepo) CreateBatch(ctx context.Context, tx pgx.Tx, entries []domain.LedgerEntry) error {
	query := `INSERT INTO ledger_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	for _, e := range entries {
		_, err := tx.Exec(ctx, query,
			e.BatchID, e.Sequence, e.TransactionRef, e.SellerRef, e.Account, e.Type,
			e.Amount, e.Currency, e.IdempotencyKey, e.SideHash,
			e.SourceSystem, e.SourceDetail, e.CreatedAt, e.EventAt,
		)
		if err != nil {
			return fmt.Errorf("insert ledger entry %d: %w", e.Sequence, err)
		}
	}
	return nil
}

// GetBatchIDByIdempotencyKey returns the batch id previously posted under
// key, or nil when the key is unused.
func (r *EntryRepo) GetBatchIDByIdempotencyKey(ctx context.Context, key string) (*uuid.UUID, error) {
	return scanBatchID(r.pool.QueryRow(ctx,
		`SELECT batch_id FROM ledger_entries WHERE idempotency_key = $1 LIMIT 1`, key))
}

// GetBatchIDByIdempotencyKeyTx is the in-transaction variant of the replay
// check, so the lookup and the insert observe the same snapshot.
func (r *EntryRepo) GetBatchIDByIdempotencyKeyTx(ctx context.Context, tx pgx.Tx, key string) (*uuid.UUID, error) {
	return scanBatchID(tx.QueryRow(ctx,
		`SELECT batch_id FROM ledger_entries WHERE idempotency_key = $1 LIMIT 1`, key))
}

func scanBatchID(row pgx.Row) (*uuid.UUID, error) {
	var id uuid.UUID
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan batch id: %w", err)
	}
	return &id, nil
}

// ListByBatch fetches a batch's entries in sequence order, the order the
// hash chain was computed in.
func (r *EntryRepo) ListByBatch(ctx context.Context, batchID uuid.UUID) ([]domain.LedgerEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+entryColumns+` FROM ledger_entries WHERE batch_id = $1 ORDER BY sequence`, batchID)
	if err != nil {
		return nil, fmt.Errorf("list entries by batch: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListBatchIDs returns every distinct batch id in the store.
func (r *EntryRepo) ListBatchIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT batch_id FROM ledger_entries`)
	if err != nil {
		return nil, fmt.Errorf("list batch ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan batch id row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batch id rows: %w", err)
	}
	return ids, nil
}

// AggregateDay sums the UTC day's postings within the caller's transaction.
func (r *EntryRepo) AggregateDay(ctx context.Context, tx pgx.Tx, day time.Time) (*ports.DayTotals, error) {
	start, end := dayWindow(day)

	totals := &ports.DayTotals{}
	err := tx.QueryRow(ctx, `SELECT COUNT(*),
		COALESCE(SUM(amount) FILTER (WHERE entry_type = 'debit'), 0),
		COALESCE(SUM(amount) FILTER (WHERE entry_type = 'credit'), 0)
		FROM ledger_entries WHERE event_at >= $1 AND event_at < $2`,
		start, end,
	).Scan(&totals.TotalEntries, &totals.TotalDebit, &totals.TotalCredit)
	if err != nil {
		return nil, fmt.Errorf("aggregate day: %w", err)
	}
	return totals, nil
}

// AggregateDayGroups groups the UTC day's postings by (account, seller)
// within the caller's transaction, feeding the snapshot upserts.
func (r *EntryRepo) AggregateDayGroups(ctx context.Context, tx pgx.Tx, day time.Time) ([]ports.DayGroup, error) {
	start, end := dayWindow(day)

	rows, err := tx.Query(ctx, `SELECT account, seller_ref,
		COALESCE(SUM(amount) FILTER (WHERE entry_type = 'debit'), 0),
		COALESCE(SUM(amount) FILTER (WHERE entry_type = 'credit'), 0)
		FROM ledger_entries WHERE event_at >= $1 AND event_at < $2
		GROUP BY account, seller_ref`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("aggregate day groups: %w", err)
	}
	defer rows.Close()

	var groups []ports.DayGroup
	for rows.Next() {
		g := ports.DayGroup{}
		if err := rows.Scan(&g.Account, &g.SellerRef, &g.DebitTotal, &g.CreditTotal); err != nil {
			return nil, fmt.Errorf("scan day group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate day groups: %w", err)
	}
	return groups, nil
}

// DistinctAccountsByDay lists the accounts touched on the UTC day.
func (r *EntryRepo) DistinctAccountsByDay(ctx context.Context, day time.Time) ([]domain.Account, error) {
	start, end := dayWindow(day)

	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT account FROM ledger_entries WHERE event_at >= $1 AND event_at < $2`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("distinct accounts by day: %w", err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// SumBySeller aggregates balances per account for one seller.
func (r *EntryRepo) SumBySeller(ctx context.Context, sellerRef uuid.UUID) ([]ports.AccountBalance, error) {
	rows, err := r.pool.Query(ctx, `SELECT account,
		COALESCE(SUM(CASE WHEN entry_type = 'debit' THEN amount ELSE -amount END), 0)
		FROM ledger_entries WHERE seller_ref = $1 GROUP BY account ORDER BY account`,
		sellerRef)
	if err != nil {
		return nil, fmt.Errorf("sum by seller: %w", err)
	}
	defer rows.Close()

	return scanAccountBalances(rows)
}

// SumByAccount computes one seller's balance on one account.
func (r *EntryRepo) SumByAccount(ctx context.Context, sellerRef uuid.UUID, account domain.Account) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.pool.QueryRow(ctx, `SELECT
		COALESCE(SUM(CASE WHEN entry_type = 'debit' THEN amount ELSE -amount END), 0)
		FROM ledger_entries WHERE seller_ref = $1 AND account = $2`,
		sellerRef, account,
	).Scan(&balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum by account: %w", err)
	}
	return balance, nil
}

// TrialBalance aggregates debit/credit totals per account over [from, to).
func (r *EntryRepo) TrialBalance(ctx context.Context, from, to time.Time) ([]ports.TrialBalanceRow, error) {
	rows, err := r.pool.Query(ctx, `SELECT account,
		COALESCE(SUM(amount) FILTER (WHERE entry_type = 'debit'), 0),
		COALESCE(SUM(amount) FILTER (WHERE entry_type = 'credit'), 0)
		FROM ledger_entries WHERE event_at >= $1 AND event_at < $2
		GROUP BY account ORDER BY account`,
		from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("trial balance: %w", err)
	}
	defer rows.Close()

	var result []ports.TrialBalanceRow
	for rows.Next() {
		row := ports.TrialBalanceRow{}
		if err := rows.Scan(&row.Account, &row.TotalDebit, &row.TotalCredit); err != nil {
			return nil, fmt.Errorf("scan trial balance row: %w", err)
		}
		row.Balance = row.TotalDebit.Sub(row.TotalCredit)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trial balance rows: %w", err)
	}
	return result, nil
}

// GlobalBalance aggregates every account's balance over the full history.
func (r *EntryRepo) GlobalBalance(ctx context.Context) ([]ports.AccountBalance, error) {
	rows, err := r.pool.Query(ctx, `SELECT account,
		COALESCE(SUM(CASE WHEN entry_type = 'debit' THEN amount ELSE -amount END), 0)
		FROM ledger_entries GROUP BY account ORDER BY account`)
	if err != nil {
		return nil, fmt.Errorf("global balance: %w", err)
	}
	defer rows.Close()

	return scanAccountBalances(rows)
}

func dayWindow(day time.Time) (time.Time, time.Time) {
	start := day.UTC().Truncate(24 * time.Hour)
	return start, start.Add(24 * time.Hour)
}

func scanEntries(rows pgx.Rows) ([]domain.LedgerEntry, error) {
	var entries []domain.LedgerEntry
	for rows.Next() {
		e := domain.LedgerEntry{}
		err := rows.Scan(
			&e.BatchID, &e.Sequence, &e.TransactionRef, &e.SellerRef, &e.Account, &e.Type,
			&e.Amount, &e.Currency, &e.IdempotencyKey, &e.SideHash,
			&e.SourceSystem, &e.SourceDetail, &e.CreatedAt, &e.EventAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger entries: %w", err)
	}
	return entries, nil
}

func scanAccounts(rows pgx.Rows) ([]domain.Account, error) {
	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return accounts, nil
}

func scanAccountBalances(rows pgx.Rows) ([]ports.AccountBalance, error) {
	var balances []ports.AccountBalance
	for rows.Next() {
		b := ports.AccountBalance{}
		if err := rows.Scan(&b.Account, &b.Balance); err != nil {
			return nil, fmt.Errorf("scan account balance: %w", err)
		}
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account balances: %w", err)
	}
	return balances, nil
}
