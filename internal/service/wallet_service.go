package service

import (
	"context"
	"fmt"

	"ledger-gateway/internal/core/domain"
	"ledger-gateway/internal/core/ports"
	"ledger-gateway/pkg/apperror"

	"github.com/google/uuid"
)

// WalletServiceImpl implements ports.WalletReader, the seller-facing view
// of available and held funds.
type WalletServiceImpl struct {
	walletRepo ports.WalletRepository
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(walletRepo ports.WalletRepository) *WalletServiceImpl {
	return &WalletServiceImpl{walletRepo: walletRepo}
}

// GetWallet returns the seller's wallet and outstanding holds.
func (s *WalletServiceImpl) GetWallet(ctx context.Context, sellerRef uuid.UUID) (*domain.Wallet, []domain.UnavailableFund, error) {
	wallet, err := s.walletRepo.GetBySeller(ctx, sellerRef)
	if err != nil {
		return nil, nil, apperror.ErrDatabaseError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, nil, apperror.ErrNotFound("wallet")
	}

	funds, err := s.walletRepo.ListUnavailableFunds(ctx, sellerRef)
	if err != nil {
		return nil, nil, apperror.ErrDatabaseError(fmt.Errorf("list unavailable funds: %w", err))
	}
	return wallet, funds, nil
}
