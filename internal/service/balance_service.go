package service

import (
	"context"
	"fmt"
	"time"

	"ledger-gateway/internal/core/domain"
	"ledger-gateway/internal/core/ports"
	"ledger-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceServiceImpl implements ports.BalanceReader by aggregating the
// entry store on demand. It never consults snapshots, so a balance read is
// always current even before the day closes.
type BalanceServiceImpl struct {
	entryRepo ports.EntryRepository
}

// NewBalanceService creates a new BalanceServiceImpl.
func NewBalanceService(entryRepo ports.EntryRepository) *BalanceServiceImpl {
	return &BalanceServiceImpl{entryRepo: entryRepo}
}

// GetBalanceBySeller aggregates one seller's balance across accounts.
func (s *BalanceServiceImpl) GetBalanceBySeller(ctx context.Context, sellerRef uuid.UUID) ([]ports.AccountBalance, error) {
	balances, err := s.entryRepo.SumBySeller(ctx, sellerRef)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("sum by seller: %w", err))
	}
	return balances, nil
}

// GetBalanceByAccount computes one seller's balance on one account.
func (s *BalanceServiceImpl) GetBalanceByAccount(ctx context.Context, sellerRef uuid.UUID, account domain.Account) (decimal.Decimal, error) {
	if !account.Valid() {
		return decimal.Zero, apperror.ErrUnknownAccount(string(account))
	}
	balance, err := s.entryRepo.SumByAccount(ctx, sellerRef, account)
	if err != nil {
		return decimal.Zero, apperror.ErrDatabaseError(fmt.Errorf("sum by account: %w", err))
	}
	return balance, nil
}

// GetTrialBalance aggregates per-account totals over [from, to).
func (s *BalanceServiceImpl) GetTrialBalance(ctx context.Context, from, to time.Time) ([]ports.TrialBalanceRow, error) {
	if !to.After(from) {
		return nil, apperror.Validation("trial balance range must not be empty")
	}
	rows, err := s.entryRepo.TrialBalance(ctx, from, to)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("trial balance: %w", err))
	}
	return rows, nil
}

// GetGlobalBalance aggregates every account over the full history.
func (s *BalanceServiceImpl) GetGlobalBalance(ctx context.Context) ([]ports.AccountBalance, error) {
	balances, err := s.entryRepo.GlobalBalance(ctx)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("global balance: %w", err))
	}
	return balances, nil
}
