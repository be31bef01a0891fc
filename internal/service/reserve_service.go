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

// ReserveServiceImpl implements ports.ReserveCalculator: the risk reserve
// cut, the retention hold decision, and the sweep that releases matured
// holds back to the available balance.
type ReserveServiceImpl struct {
	policyRepo     ports.PolicyRepository
	walletRepo     ports.WalletRepository
	transactor     ports.DBTransactor
	reservePercent decimal.Decimal
	log            zerolog.Logger
}

// NewReserveService creates a new ReserveServiceImpl. reservePercent is
// expressed as 5.0 for five percent.
func NewReserveService(
	policyRepo ports.PolicyRepository,
	walletRepo ports.WalletRepository,
	transactor ports.DBTransactor,
	reservePercent decimal.Decimal,
	log zerolog.Logger,
) *ReserveServiceImpl {
	return &ReserveServiceImpl{
		policyRepo:     policyRepo,
		walletRepo:     walletRepo,
		transactor:     transactor,
		reservePercent: reservePercent,
		log:            log,
	}
}

// ComputeReserve returns the risk reserve cut of a gross sale amount.
func (s *ReserveServiceImpl) ComputeReserve(amount decimal.Decimal) decimal.Decimal {
	return domain.Percent(amount, s.reservePercent)
}

// ComputeRetention decides how much of the net proceeds is held and until
// when. An active policy for (method, risk) wins; otherwise the method
// defaults apply: instant rails release immediately, delayed-clearing rails
// hold the full net until the clearing window passes.
func (s *ReserveServiceImpl) ComputeRetention(ctx context.Context, method domain.PaymentMethod, risk domain.RiskLevel, netAmount decimal.Decimal) (*domain.RetentionDecision, error) {
	if !domain.ValidMethod(method) {
		return nil, apperror.Validation(fmt.Sprintf("unknown payment method: %s", method))
	}

	policy, err := s.policyRepo.GetActive(ctx, method, risk)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("lookup retention policy: %w", err))
	}

	now := time.Now().UTC()
	if policy != nil {
		return &domain.RetentionDecision{
			RetentionAmount:   domain.Percent(netAmount, policy.Percentage),
			AvailableIn:       now.AddDate(0, 0, policy.HoldDays),
			PercentageApplied: policy.Percentage,
		}, nil
	}

	holdDays := domain.DefaultHoldDays(method)
	if holdDays == 0 {
		return &domain.RetentionDecision{
			RetentionAmount:   decimal.Zero,
			AvailableIn:       now,
			PercentageApplied: decimal.Zero,
		}, nil
	}
	return &domain.RetentionDecision{
		RetentionAmount:   domain.Round2(netAmount),
		AvailableIn:       now.AddDate(0, 0, holdDays),
		PercentageApplied: decimal.NewFromInt(100),
	}, nil
}

// ReleaseMaturedFunds moves every matured unavailable entry back to the
// seller's available balance. Per-fund failures are isolated.
func (s *ReserveServiceImpl) ReleaseMaturedFunds(ctx context.Context, now time.Time) (*ports.SettlementRunReport, error) {
	funds, err := s.walletRepo.ListMaturedFunds(ctx, now)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list matured funds: %w", err))
	}

	report := &ports.SettlementRunReport{}
	for _, fund := range funds {
		report.Processed++
		if err := s.releaseFund(ctx, fund); err != nil {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", fund.ID, err))
			s.log.Error().Err(err).Str("fund_id", fund.ID.String()).Msg("fund release failed, continuing")
			continue
		}
		report.Succeeded++
	}

	s.log.Info().
		Int("processed", report.Processed).
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Msg("retention sweep completed")

	return report, nil
}

// releaseFund flips one fund to released and credits the wallet, both under
// the seller's row lock so a concurrent sweep cannot double-release.
func (s *ReserveServiceImpl) releaseFund(ctx context.Context, fund domain.UnavailableFund) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.walletRepo.GetBySellerForUpdate(ctx, dbTx, fund.SellerRef)
	if err != nil {
		return fmt.Errorf("lock wallet: %w", err)
	}
	if wallet == nil {
		return fmt.Errorf("wallet not found: %s", fund.SellerRef)
	}

	if err := s.walletRepo.MarkFundReleased(ctx, dbTx, fund.ID); err != nil {
		return fmt.Errorf("mark fund released: %w", err)
	}
	if err := s.walletRepo.UpdateAvailable(ctx, dbTx, fund.SellerRef, wallet.Available.Add(fund.Amount)); err != nil {
		return fmt.Errorf("credit wallet: %w", err)
	}

	op := &domain.WalletOperation{
		ID:        uuid.New(),
		SellerRef: fund.SellerRef,
		Type:      domain.WalletOpRelease,
		Amount:    fund.Amount,
		Ref:       fund.OriginRef,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.walletRepo.AppendOperation(ctx, dbTx, op); err != nil {
		return fmt.Errorf("append wallet operation: %w", err)
	}

	return dbTx.Commit(ctx)
}
