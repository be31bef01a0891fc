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
)

// SaleServiceImpl implements ports.SaleService: the sale-time flow of risk
// evaluation, reserve/retention calculation, ledger posting and wallet
// bookkeeping.
type SaleServiceImpl struct {
	poster     ports.LedgerPoster
	calculator ports.ReserveCalculator
	risk       ports.RiskEvaluator
	walletRepo ports.WalletRepository
	transactor ports.DBTransactor
	currency   string
	log        zerolog.Logger
}

// NewSaleService creates a new SaleServiceImpl.
func NewSaleService(
	poster ports.LedgerPoster,
	calculator ports.ReserveCalculator,
	risk ports.RiskEvaluator,
	walletRepo ports.WalletRepository,
	transactor ports.DBTransactor,
	currency string,
	log zerolog.Logger,
) *SaleServiceImpl {
	return &SaleServiceImpl{
		poster:     poster,
		calculator: calculator,
		risk:       risk,
		walletRepo: walletRepo,
		transactor: transactor,
		currency:   currency,
		log:        log,
	}
}

// CreateSale validates the request, evaluates risk, splits the gross amount
// into net, reserve and retention, and posts the balanced sale batch.
func (s *SaleServiceImpl) CreateSale(ctx context.Context, req ports.SaleRequest) (*ports.SaleResult, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	if !domain.ValidMethod(req.Method) {
		return nil, apperror.Validation(fmt.Sprintf("unknown payment method: %s", req.Method))
	}
	if req.SellerRef == uuid.Nil {
		return nil, apperror.Validation("seller reference is required")
	}

	// An unreachable risk evaluator degrades to the most conservative
	// classification instead of blocking sales.
	risk, err := s.risk.Evaluate(ctx, req.SellerRef, req.Method, req.Amount)
	if err != nil {
		s.log.Warn().Err(err).Str("seller_ref", req.SellerRef.String()).Msg("risk evaluation failed, assuming high risk")
		risk = domain.RiskHigh
	}

	amount := domain.Round2(req.Amount)
	reserve := s.calculator.ComputeReserve(amount)
	net := amount.Sub(reserve)

	retention, err := s.calculator.ComputeRetention(ctx, req.Method, risk, net)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	ref := fmt.Sprintf("SALE-%s-%d", req.SellerRef.String()[:8], now.UnixMilli())

	// The retained slice of the net goes to its own account so the D+1
	// release only ever moves the immediately-available part.
	intents := []domain.PostingIntent{
		{Account: domain.AccountCash, Type: domain.EntryTypeDebit, Amount: amount},
		{Account: domain.AccountSellerLiability, Type: domain.EntryTypeCredit, Amount: net.Sub(retention.RetentionAmount)},
		{Account: domain.AccountRiskReserve, Type: domain.EntryTypeCredit, Amount: reserve},
	}
	if retention.RetentionAmount.IsPositive() {
		intents = append(intents, domain.PostingIntent{
			Account: domain.AccountRetentionHold,
			Type:    domain.EntryTypeCredit,
			Amount:  retention.RetentionAmount,
		})
	}

	pctx := domain.PostContext{
		IdempotencyKey: domain.BuildSaleKey(ref),
		TransactionRef: ref,
		SellerRef:      &req.SellerRef,
		SourceSystem:   "checkout",
		SourceDetail:   req.Description,
		Currency:       s.currency,
		EventAt:        &now,
	}

	batchID, _, err := s.poster.Post(ctx, intents, pctx)
	if err != nil {
		return nil, err
	}

	if err := s.recordRetention(ctx, req.SellerRef, ref, retention); err != nil {
		// The ledger batch is committed; the hold record is bookkeeping on
		// the derived view and must not fail the sale.
		s.log.Error().Err(err).Str("transaction_ref", ref).Msg("failed to record retention hold")
	}

	s.log.Info().
		Str("transaction_ref", ref).
		Str("batch_id", batchID.String()).
		Str("seller_ref", req.SellerRef.String()).
		Str("amount", amount.StringFixed(2)).
		Str("reserve", reserve.StringFixed(2)).
		Str("retention", retention.RetentionAmount.StringFixed(2)).
		Msg("sale posted")

	return &ports.SaleResult{
		TransactionRef: ref,
		BatchID:        batchID,
		NetAmount:      net,
		ReserveAmount:  reserve,
		Retention:      retention,
	}, nil
}

// recordRetention ensures the seller has a wallet and records the retained
// amount as an unavailable fund with its maturity.
func (s *SaleServiceImpl) recordRetention(ctx context.Context, sellerRef uuid.UUID, ref string, retention *domain.RetentionDecision) error {
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
		now := time.Now().UTC()
		w := &domain.Wallet{SellerRef: sellerRef, CreatedAt: now, UpdatedAt: now}
		if err := s.walletRepo.Create(ctx, w); err != nil {
			return fmt.Errorf("create wallet: %w", err)
		}
	}

	if !retention.RetentionAmount.IsPositive() {
		return dbTx.Commit(ctx)
	}

	now := time.Now().UTC()
	fund := &domain.UnavailableFund{
		ID:          uuid.New(),
		SellerRef:   sellerRef,
		Amount:      retention.RetentionAmount,
		AvailableIn: retention.AvailableIn,
		OriginRef:   ref,
		CreatedAt:   now,
	}
	if err := s.walletRepo.AddUnavailableFund(ctx, dbTx, fund); err != nil {
		return fmt.Errorf("add unavailable fund: %w", err)
	}

	op := &domain.WalletOperation{
		ID:        uuid.New(),
		SellerRef: sellerRef,
		Type:      domain.WalletOpHold,
		Amount:    retention.RetentionAmount,
		Ref:       ref,
		CreatedAt: now,
	}
	if err := s.walletRepo.AppendOperation(ctx, dbTx, op); err != nil {
		return fmt.Errorf("append wallet operation: %w", err)
	}

	return dbTx.Commit(ctx)
}
