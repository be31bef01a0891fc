package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ledger-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CashoutRepo implements ports.CashoutRepository.
type CashoutRepo struct {
	pool Pool
}

// NewCashoutRepo creates a new CashoutRepo.
func NewCashoutRepo(pool Pool) *CashoutRepo {
	return &CashoutRepo{pool: pool}
}

const cashoutColumns = `id, seller_ref, amount, status, approved_by, approved_at,
	rejection_reason, bank_account_ref, created_at, updated_at`

// Create inserts a new cashout request.
func (r *CashoutRepo) Create(ctx context.Context, c *domain.CashoutRequest) error {
	query := `INSERT INTO cashout_requests (` + cashoutColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		c.ID, c.SellerRef, c.Amount, c.Status, c.ApprovedBy, c.ApprovedAt,
		c.RejectionReason, c.BankAccountRef, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert cashout request: %w", err)
	}
	return nil
}

// GetByID fetches a cashout request, or nil when absent.
func (r *CashoutRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.CashoutRequest, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+cashoutColumns+` FROM cashout_requests WHERE id = $1`, id)

	c, err := scanCashout(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// ListBySeller fetches a seller's requests, newest first.
func (r *CashoutRepo) ListBySeller(ctx context.Context, sellerRef uuid.UUID) ([]domain.CashoutRequest, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+cashoutColumns+` FROM cashout_requests
		WHERE seller_ref = $1 ORDER BY created_at DESC`, sellerRef)
	if err != nil {
		return nil, fmt.Errorf("list cashouts by seller: %w", err)
	}
	defer rows.Close()

	return scanCashouts(rows)
}

// ListAwaitingConfirmation fetches pending/approved requests created before
// the D+2 cutoff, oldest first.
func (r *CashoutRepo) ListAwaitingConfirmation(ctx context.Context, olderThan time.Time) ([]domain.CashoutRequest, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+cashoutColumns+` FROM cashout_requests
		WHERE status IN ($1, $2) AND created_at < $3 ORDER BY created_at`,
		domain.CashoutStatusPending, domain.CashoutStatusApproved, olderThan)
	if err != nil {
		return nil, fmt.Errorf("list cashouts awaiting confirmation: %w", err)
	}
	defer rows.Close()

	return scanCashouts(rows)
}

// UpdateDecision persists a manual approve/reject outcome.
func (r *CashoutRepo) UpdateDecision(ctx context.Context, c *domain.CashoutRequest) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cashout_requests SET status = $1, approved_by = $2, approved_at = $3,
		rejection_reason = $4, updated_at = $5 WHERE id = $6`,
		c.Status, c.ApprovedBy, c.ApprovedAt, c.RejectionReason, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("update cashout decision: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cashout request not found: %s", c.ID)
	}
	return nil
}

// UpdateStatus transitions a request's status. Each call is individually
// atomic; the settlement engine relies on that for loop-level isolation.
func (r *CashoutRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CashoutStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cashout_requests SET status = $1, updated_at = now() WHERE id = $2`,
		status, id)
	if err != nil {
		return fmt.Errorf("update cashout status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cashout request not found: %s", id)
	}
	return nil
}

func scanCashout(row pgx.Row) (*domain.CashoutRequest, error) {
	c := &domain.CashoutRequest{}
	err := row.Scan(
		&c.ID, &c.SellerRef, &c.Amount, &c.Status, &c.ApprovedBy, &c.ApprovedAt,
		&c.RejectionReason, &c.BankAccountRef, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func scanCashouts(rows pgx.Rows) ([]domain.CashoutRequest, error) {
	var cashouts []domain.CashoutRequest
	for rows.Next() {
		c, err := scanCashout(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cashout request: %w", err)
		}
		cashouts = append(cashouts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cashout requests: %w", err)
	}
	return cashouts, nil
}
