package postgres

import (
	"context"
	"errors"
	"fmt"

	"ledger-gateway/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint
// violation, used to detect a concurrent close of the same date.
const uniqueViolation = "23505"

// BatchRepo implements ports.BatchRepository over ledger_batches, the
// insert-once-per-date closing records.
type BatchRepo struct {
	pool Pool
}

// NewBatchRepo creates a new BatchRepo.
func NewBatchRepo(pool Pool) *BatchRepo {
	return &BatchRepo{pool: pool}
}

// Create inserts the closing record within the closer's transaction. A
// unique violation on date_key maps to domain.ErrDateAlreadyClosed so a
// racing closer treats it as "already closing/closed", not a fatal error.
func (r *BatchRepo) Create(ctx context.Context, tx pgx.Tx, b *domain.LedgerBatch) error {
	query := `INSERT INTO ledger_batches (date_key, batch_id, total_entries, total_debit,
		total_credit, closed, closed_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(ctx, query,
		b.DateKey, b.BatchID, b.TotalEntries, b.TotalDebit, b.TotalCredit, b.Closed, b.ClosedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDateAlreadyClosed
		}
		return fmt.Errorf("insert ledger batch: %w", err)
	}
	return nil
}

// GetByDate fetches the closing record for a date, or nil when the date is
// still open.
func (r *BatchRepo) GetByDate(ctx context.Context, dateKey string) (*domain.LedgerBatch, error) {
	b := &domain.LedgerBatch{}
	err := r.pool.QueryRow(ctx,
		`SELECT date_key, batch_id, total_entries, total_debit, total_credit, closed, closed_at
		FROM ledger_batches WHERE date_key = $1`, dateKey,
	).Scan(&b.DateKey, &b.BatchID, &b.TotalEntries, &b.TotalDebit, &b.TotalCredit, &b.Closed, &b.ClosedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger batch: %w", err)
	}
	return b, nil
}
