package service

import (
	"context"
	"fmt"
	"time"

	"ledger-gateway/internal/core/domain"
	"ledger-gateway/internal/core/ports"
	"ledger-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CashoutServiceImpl implements ports.CashoutService: creation and the
// manual approve/reject flow. The settled/completed transitions belong to
// the settlement engine.
type CashoutServiceImpl struct {
	cashoutRepo ports.CashoutRepository
	walletRepo  ports.WalletRepository
	transactor  ports.DBTransactor
	log         zerolog.Logger
}

// NewCashoutService creates a new CashoutServiceImpl.
func NewCashoutService(
	cashoutRepo ports.CashoutRepository,
	walletRepo ports.WalletRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *CashoutServiceImpl {
	return &CashoutServiceImpl{
		cashoutRepo: cashoutRepo,
		walletRepo:  walletRepo,
		transactor:  transactor,
		log:         log,
	}
}

// CreateCashout reserves the amount from the seller's available balance
// under a row lock and records a pending request.
func (s *CashoutServiceImpl) CreateCashout(ctx context.Context, sellerRef uuid.UUID, amount decimal.Decimal, bankAccountRef *string) (*domain.CashoutRequest, error) {
	if !amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	amount = domain.Round2(amount)

	now := time.Now().UTC()
	req := &domain.CashoutRequest{
		ID:             uuid.New(),
		SellerRef:      sellerRef,
		Amount:         amount,
		Status:         domain.CashoutStatusPending,
		BankAccountRef: bankAccountRef,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.reserveFunds(ctx, sellerRef, amount, req.ID); err != nil {
		return nil, err
	}

	if err := s.cashoutRepo.Create(ctx, req); err != nil {
		// The reservation is already committed; give the funds back.
		if rbErr := s.returnFunds(ctx, sellerRef, amount, req.ID); rbErr != nil {
			s.log.Error().Err(rbErr).Str("seller_ref", sellerRef.String()).Msg("failed to return reserved funds after create failure")
		}
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create cashout: %w", err))
	}

	s.log.Info().
		Str("cashout_id", req.ID.String()).
		Str("seller_ref", sellerRef.String()).
		Str("amount", amount.StringFixed(2)).
		Msg("cashout request created")

	return req, nil
}

// Decide applies a manual approve/reject to a pending request. Rejection
// returns the reserved funds to the available balance.
func (s *CashoutServiceImpl) Decide(ctx context.Context, id uuid.UUID, decision ports.CashoutDecision) (*domain.CashoutRequest, error) {
	req, err := s.cashoutRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get cashout: %w", err))
	}
	if req == nil {
		return nil, apperror.ErrNotFound("cashout request")
	}
	if !req.CanDecide() {
		return nil, apperror.ErrCashoutNotActionable(string(req.Status))
	}

	now := time.Now().UTC()
	req.UpdatedAt = now
	if decision.Approve {
		req.Status = domain.CashoutStatusApproved
		req.ApprovedBy = &decision.DecidedBy
		req.ApprovedAt = &now
	} else {
		req.Status = domain.CashoutStatusRejected
		reason := decision.Reason
		req.RejectionReason = &reason
	}

	if err := s.cashoutRepo.UpdateDecision(ctx, req); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("update cashout decision: %w", err))
	}

	if req.Status == domain.CashoutStatusRejected {
		if err := s.returnFunds(ctx, req.SellerRef, req.Amount, req.ID); err != nil {
			s.log.Error().Err(err).Str("cashout_id", req.ID.String()).Msg("failed to return funds for rejected cashout")
		}
	}

	s.log.Info().
		Str("cashout_id", req.ID.String()).
		Str("status", string(req.Status)).
		Str("decided_by", decision.DecidedBy.String()).
		Msg("cashout decision applied")

	return req, nil
}

// ListBySeller returns a seller's requests, newest first.
func (s *CashoutServiceImpl) ListBySeller(ctx context.Context, sellerRef uuid.UUID) ([]domain.CashoutRequest, error) {
	list, err := s.cashoutRepo.ListBySeller(ctx, sellerRef)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list cashouts: %w", err))
	}
	return list, nil
}

func (s *CashoutServiceImpl) reserveFunds(ctx context.Context, sellerRef uuid.UUID, amount decimal.Decimal, cashoutID uuid.UUID) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.walletRepo.GetBySellerForUpdate(ctx, dbTx, sellerRef)
	if err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil || wallet.Available.LessThan(amount) {
		return apperror.ErrInsufficientBalance()
	}

	if err := s.walletRepo.UpdateAvailable(ctx, dbTx, sellerRef, wallet.Available.Sub(amount)); err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("reserve funds: %w", err))
	}
	op := &domain.WalletOperation{
		ID:        uuid.New(),
		SellerRef: sellerRef,
		Type:      domain.WalletOpDebit,
		Amount:    amount,
		Ref:       "cashout:" + cashoutID.String(),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.walletRepo.AppendOperation(ctx, dbTx, op); err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("append wallet operation: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}

func (s *CashoutServiceImpl) returnFunds(ctx context.Context, sellerRef uuid.UUID, amount decimal.Decimal, cashoutID uuid.UUID) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.walletRepo.GetBySellerForUpdate(ctx, dbTx, sellerRef)
	if err != nil {
		return fmt.Errorf("lock wallet: %w", err)
	}
	if wallet == nil {
		return fmt.Errorf("wallet not found: %s", sellerRef)
	}

	if err := s.walletRepo.UpdateAvailable(ctx, dbTx, sellerRef, wallet.Available.Add(amount)); err != nil {
		return fmt.Errorf("return funds: %w", err)
	}
	op := &domain.WalletOperation{
		ID:        uuid.New(),
		SellerRef: sellerRef,
		Type:      domain.WalletOpCredit,
		Amount:    amount,
		Ref:       "cashout:" + cashoutID.String() + ":returned",
		CreatedAt: time.Now().UTC(),
	}
	if err := s.walletRepo.AppendOperation(ctx, dbTx, op); err != nil {
		return fmt.Errorf("append wallet operation: %w", err)
	}

	return dbTx.Commit(ctx)
}
