package postgres

import (
	"context"
	"errors"
	"fmt"

	"ledger-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// SnapshotRepo implements ports.SnapshotRepository. Rows are unique per
// (date_key, account, seller_ref); the table's unique index is declared
// NULLS NOT DISTINCT so platform-level snapshots (no seller) upsert too.
type SnapshotRepo struct {
	pool Pool
}

// NewSnapshotRepo creates a new SnapshotRepo.
func NewSnapshotRepo(pool Pool) *SnapshotRepo {
	return &SnapshotRepo{pool: pool}
}

const snapshotColumns = `date_key, seller_ref, account, debit_total, credit_total, balance,
	divergence, locked, created_at, updated_at`

// Upsert writes one snapshot row within the closer's transaction.
// Re-running for the same date overwrites totals with identical values;
// divergence and locked are left to the reconciler.
func (r *SnapshotRepo) Upsert(ctx context.Context, tx pgx.Tx, s *domain.LedgerSnapshot) error {
	query := `INSERT INTO ledger_snapshots (` + snapshotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (date_key, account, seller_ref) DO UPDATE SET
			debit_total = EXCLUDED.debit_total,
			credit_total = EXCLUDED.credit_total,
			balance = EXCLUDED.balance,
			updated_at = EXCLUDED.updated_at`

	_, err := tx.Exec(ctx, query,
		s.DateKey, s.SellerRef, s.Account, s.DebitTotal, s.CreditTotal, s.Balance,
		s.Divergence, s.Locked, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

// GetByKey fetches one snapshot row, or nil when absent.
func (r *SnapshotRepo) GetByKey(ctx context.Context, dateKey string, account domain.Account, sellerRef *uuid.UUID) (*domain.LedgerSnapshot, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+snapshotColumns+` FROM ledger_snapshots
		WHERE date_key = $1 AND account = $2 AND seller_ref IS NOT DISTINCT FROM $3`,
		dateKey, account, sellerRef)

	s, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// ListByDate fetches every snapshot for a date.
func (r *SnapshotRepo) ListByDate(ctx context.Context, dateKey string) ([]domain.LedgerSnapshot, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+snapshotColumns+` FROM ledger_snapshots WHERE date_key = $1 ORDER BY account, seller_ref`,
		dateKey)
	if err != nil {
		return nil, fmt.Errorf("list snapshots by date: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// ListAccountsByDate lists the distinct accounts snapshotted for a date.
func (r *SnapshotRepo) ListAccountsByDate(ctx context.Context, dateKey string) ([]domain.Account, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT account FROM ledger_snapshots WHERE date_key = $1`, dateKey)
	if err != nil {
		return nil, fmt.Errorf("list snapshot accounts: %w", err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// ListReleasable returns the unlocked seller-liability snapshots with funds
// owed (negative balance under the debit-minus-credit convention).
func (r *SnapshotRepo) ListReleasable(ctx context.Context, dateKey string) ([]domain.LedgerSnapshot, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+snapshotColumns+` FROM ledger_snapshots
		WHERE date_key = $1 AND account = $2 AND locked = false
			AND seller_ref IS NOT NULL AND balance < 0
		ORDER BY seller_ref`,
		dateKey, domain.AccountSellerLiability)
	if err != nil {
		return nil, fmt.Errorf("list releasable snapshots: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// UpdateDivergence sets one row's divergence. Each call is individually
// atomic so a failed reconciliation run leaves the remaining rows for the
// next scheduled run.
func (r *SnapshotRepo) UpdateDivergence(ctx context.Context, dateKey string, account domain.Account, sellerRef *uuid.UUID, divergence decimal.Decimal) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE ledger_snapshots SET divergence = $1, updated_at = now()
		WHERE date_key = $2 AND account = $3 AND seller_ref IS NOT DISTINCT FROM $4`,
		divergence, dateKey, account, sellerRef)
	if err != nil {
		return fmt.Errorf("update snapshot divergence: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("snapshot not found: %s/%s", dateKey, account)
	}
	return nil
}

// SetLockedByDate flips the lock on every snapshot of the date and returns
// the number of rows affected. The lock is deliberately whole-day.
func (r *SnapshotRepo) SetLockedByDate(ctx context.Context, dateKey string, locked bool) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE ledger_snapshots SET locked = $1, updated_at = now() WHERE date_key = $2`,
		locked, dateKey)
	if err != nil {
		return 0, fmt.Errorf("set snapshots locked: %w", err)
	}
	return tag.RowsAffected(), nil
}

// AdjustBalance applies a delta to one snapshot's balance (used when a
// confirmed cashout decrements the liability snapshot).
func (r *SnapshotRepo) AdjustBalance(ctx context.Context, dateKey string, account domain.Account, sellerRef *uuid.UUID, delta decimal.Decimal) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE ledger_snapshots SET balance = balance + $1, updated_at = now()
		WHERE date_key = $2 AND account = $3 AND seller_ref IS NOT DISTINCT FROM $4`,
		delta, dateKey, account, sellerRef)
	if err != nil {
		return fmt.Errorf("adjust snapshot balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("snapshot not found: %s/%s", dateKey, account)
	}
	return nil
}

func scanSnapshot(row pgx.Row) (*domain.LedgerSnapshot, error) {
	s := &domain.LedgerSnapshot{}
	err := row.Scan(
		&s.DateKey, &s.SellerRef, &s.Account, &s.DebitTotal, &s.CreditTotal, &s.Balance,
		&s.Divergence, &s.Locked, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func scanSnapshots(rows pgx.Rows) ([]domain.LedgerSnapshot, error) {
	var snapshots []domain.LedgerSnapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snapshots = append(snapshots, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snapshots, nil
}
