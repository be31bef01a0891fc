package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ledger-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// WalletRepo implements ports.WalletRepository. The wallet tables are a
// derived cache of the ledger; every mutation happens inside a transaction
// holding the seller's row lock.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

const walletColumns = `seller_ref, available, created_at, updated_at`

// Create inserts a new wallet with a zero balance.
func (r *WalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO wallets (`+walletColumns+`) VALUES ($1, $2, $3, $4)`,
		w.SellerRef, w.Available, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// GetBySeller fetches a seller's wallet, or nil when absent.
func (r *WalletRepo) GetBySeller(ctx context.Context, sellerRef uuid.UUID) (*domain.Wallet, error) {
	return scanWallet(r.pool.QueryRow(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE seller_ref = $1`, sellerRef))
}

// GetBySellerForUpdate locks and fetches a seller's wallet row, serializing
// the sale-time reservation against the release flows.
func (r *WalletRepo) GetBySellerForUpdate(ctx context.Context, tx pgx.Tx, sellerRef uuid.UUID) (*domain.Wallet, error) {
	return scanWallet(tx.QueryRow(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE seller_ref = $1 FOR UPDATE`, sellerRef))
}

// UpdateAvailable sets the available balance within the caller's
// transaction (the row lock must already be held).
func (r *WalletRepo) UpdateAvailable(ctx context.Context, tx pgx.Tx, sellerRef uuid.UUID, available decimal.Decimal) error {
	tag, err := tx.Exec(ctx,
		`UPDATE wallets SET available = $1, updated_at = now() WHERE seller_ref = $2`,
		available, sellerRef)
	if err != nil {
		return fmt.Errorf("update wallet available: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", sellerRef)
	}
	return nil
}

// AddUnavailableFund records a retained amount with its maturity timestamp.
func (r *WalletRepo) AddUnavailableFund(ctx context.Context, tx pgx.Tx, f *domain.UnavailableFund) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO wallet_unavailable_funds (id, seller_ref, amount, available_in, origin_ref, released, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		f.ID, f.SellerRef, f.Amount, f.AvailableIn, f.OriginRef, f.Released, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert unavailable fund: %w", err)
	}
	return nil
}

// ListMaturedFunds fetches unreleased funds whose maturity has passed.
func (r *WalletRepo) ListMaturedFunds(ctx context.Context, now time.Time) ([]domain.UnavailableFund, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, seller_ref, amount, available_in, origin_ref, released, created_at
		FROM wallet_unavailable_funds
		WHERE released = false AND available_in <= $1 ORDER BY available_in`, now)
	if err != nil {
		return nil, fmt.Errorf("list matured funds: %w", err)
	}
	defer rows.Close()

	return scanFunds(rows)
}

// ListUnavailableFunds fetches a seller's outstanding holds.
func (r *WalletRepo) ListUnavailableFunds(ctx context.Context, sellerRef uuid.UUID) ([]domain.UnavailableFund, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, seller_ref, amount, available_in, origin_ref, released, created_at
		FROM wallet_unavailable_funds
		WHERE seller_ref = $1 AND released = false ORDER BY available_in`, sellerRef)
	if err != nil {
		return nil, fmt.Errorf("list unavailable funds: %w", err)
	}
	defer rows.Close()

	return scanFunds(rows)
}

// MarkFundReleased flags a hold as released within the caller's transaction.
func (r *WalletRepo) MarkFundReleased(ctx context.Context, tx pgx.Tx, fundID uuid.UUID) error {
	tag, err := tx.Exec(ctx,
		`UPDATE wallet_unavailable_funds SET released = true WHERE id = $1 AND released = false`,
		fundID)
	if err != nil {
		return fmt.Errorf("mark fund released: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("unavailable fund not found or already released: %s", fundID)
	}
	return nil
}

// AppendOperation writes one operation-log line within the caller's
// transaction.
func (r *WalletRepo) AppendOperation(ctx context.Context, tx pgx.Tx, op *domain.WalletOperation) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO wallet_operations (id, seller_ref, op_type, amount, ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		op.ID, op.SellerRef, op.Type, op.Amount, op.Ref, op.CreatedAt)
	if err != nil {
		return fmt.Errorf("append wallet operation: %w", err)
	}
	return nil
}

// ListOperations fetches a seller's most recent operation-log lines.
func (r *WalletRepo) ListOperations(ctx context.Context, sellerRef uuid.UUID, limit int) ([]domain.WalletOperation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, seller_ref, op_type, amount, ref, created_at FROM wallet_operations
		WHERE seller_ref = $1 ORDER BY created_at DESC LIMIT $2`, sellerRef, limit)
	if err != nil {
		return nil, fmt.Errorf("list wallet operations: %w", err)
	}
	defer rows.Close()

	var ops []domain.WalletOperation
	for rows.Next() {
		op := domain.WalletOperation{}
		if err := rows.Scan(&op.ID, &op.SellerRef, &op.Type, &op.Amount, &op.Ref, &op.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan wallet operation: %w", err)
		}
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet operations: %w", err)
	}
	return ops, nil
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	w := &domain.Wallet{}
	err := row.Scan(&w.SellerRef, &w.Available, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan wallet: %w", err)
	}
	return w, nil
}

func scanFunds(rows pgx.Rows) ([]domain.UnavailableFund, error) {
	var funds []domain.UnavailableFund
	for rows.Next() {
		f := domain.UnavailableFund{}
		err := rows.Scan(&f.ID, &f.SellerRef, &f.Amount, &f.AvailableIn, &f.OriginRef, &f.Released, &f.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan unavailable fund: %w", err)
		}
		funds = append(funds, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unavailable funds: %w", err)
	}
	return funds, nil
}
