package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ledger-gateway/internal/core/domain"
	"ledger-gateway/internal/core/ports"
	"ledger-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// SettlementServiceImpl implements ports.SettlementEngine: the D+1 release
// of seller funds and the D+2 confirmation of cashouts against the bank
// transfer feed. Both runs isolate per-item failures; one seller or request
// failing never aborts the rest of the run.
type SettlementServiceImpl struct {
	poster       ports.LedgerPoster
	snapshotRepo ports.SnapshotRepository
	walletRepo   ports.WalletRepository
	cashoutRepo  ports.CashoutRepository
	auditRepo    ports.AuditRepository
	feed         ports.TransferFeed
	transactor   ports.DBTransactor
	currency     string
	log          zerolog.Logger
}

// NewSettlementService creates a new SettlementServiceImpl.
func NewSettlementService(
	poster ports.LedgerPoster,
	snapshotRepo ports.SnapshotRepository,
	walletRepo ports.WalletRepository,
	cashoutRepo ports.CashoutRepository,
	auditRepo ports.AuditRepository,
	feed ports.TransferFeed,
	transactor ports.DBTransactor,
	currency string,
	log zerolog.Logger,
) *SettlementServiceImpl {
	return &SettlementServiceImpl{
		poster:       poster,
		snapshotRepo: snapshotRepo,
		walletRepo:   walletRepo,
		cashoutRepo:  cashoutRepo,
		auditRepo:    auditRepo,
		feed:         feed,
		transactor:   transactor,
		currency:     currency,
		log:          log,
	}
}

// ReleaseDayPlusOne releases the liabilities of dateKey to the sellers'
// wallets. A day locked by the reconciler refuses the whole run; nothing is
// released from a day under divergence review.
func (s *SettlementServiceImpl) ReleaseDayPlusOne(ctx context.Context, dateKey string) (*ports.SettlementRunReport, error) {
	snapshots, err := s.snapshotRepo.ListByDate(ctx, dateKey)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list snapshots: %w", err))
	}
	for _, snap := range snapshots {
		if snap.Locked {
			return nil, apperror.ErrDivergenceLocked(dateKey)
		}
	}

	releasable, err := s.snapshotRepo.ListReleasable(ctx, dateKey)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list releasable: %w", err))
	}

	report := &ports.SettlementRunReport{DateKey: dateKey}
	for _, snap := range releasable {
		report.Processed++
		if err := s.releaseSeller(ctx, dateKey, snap); err != nil {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", snap.SellerRef, err))
			s.log.Error().Err(err).
				Str("date_key", dateKey).
				Str("seller_ref", snap.SellerRef.String()).
				Msg("seller release failed, continuing")
			continue
		}
		report.Succeeded++
	}

	s.persistReport(ctx, domain.AuditKindSettlementRelease, dateKey, report)

	s.log.Info().
		Str("date_key", dateKey).
		Int("processed", report.Processed).
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Msg("d+1 release completed")

	return report, nil
}

// releaseSeller posts the release batch and credits the wallet for one
// seller. The settlement idempotency key makes re-runs per-seller no-ops.
func (s *SettlementServiceImpl) releaseSeller(ctx context.Context, dateKey string, snap domain.LedgerSnapshot) error {
	amount := snap.OwedToSeller()
	if amount.IsZero() || snap.SellerRef == nil {
		return nil
	}
	key := domain.BuildSettlementKey(*snap.SellerRef, dateKey)

	intents := []domain.PostingIntent{
		{Account: domain.AccountSellerLiability, Type: domain.EntryTypeDebit, Amount: amount},
		{Account: domain.AccountCash, Type: domain.EntryTypeCredit, Amount: amount},
	}
	pctx := domain.PostContext{
		IdempotencyKey: key,
		TransactionRef: key,
		SellerRef:      snap.SellerRef,
		SourceSystem:   "settlement",
		SourceDetail:   "d+1 release",
		Currency:       s.currency,
	}

	_, replayed, err := s.poster.Post(ctx, intents, pctx)
	if err != nil {
		return fmt.Errorf("post release batch: %w", err)
	}
	if replayed {
		// Already released on a previous run; wallet was credited then.
		return nil
	}

	return s.creditWallet(ctx, *snap.SellerRef, amount, key)
}

// creditWallet adds the released amount to the wallet's available balance
// under the seller's row lock.
func (s *SettlementServiceImpl) creditWallet(ctx context.Context, sellerRef uuid.UUID, amount decimal.Decimal, ref string) error {
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
		wallet, err = s.walletRepo.GetBySellerForUpdate(ctx, dbTx, sellerRef)
		if err != nil || wallet == nil {
			return fmt.Errorf("lock created wallet: %w", err)
		}
	}

	if err := s.walletRepo.UpdateAvailable(ctx, dbTx, sellerRef, wallet.Available.Add(amount)); err != nil {
		return fmt.Errorf("credit wallet: %w", err)
	}

	op := &domain.WalletOperation{
		ID:        uuid.New(),
		SellerRef: sellerRef,
		Type:      domain.WalletOpCredit,
		Amount:    amount,
		Ref:       ref,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.walletRepo.AppendOperation(ctx, dbTx, op); err != nil {
		return fmt.Errorf("append wallet operation: %w", err)
	}

	return dbTx.Commit(ctx)
}

// ConfirmDayPlusTwo matches pending/approved cashouts older than the cutoff
// against the bank transfer feed. A feed failure leaves every request
// untouched for the next run.
func (s *SettlementServiceImpl) ConfirmDayPlusTwo(ctx context.Context, cutoff time.Time) (*ports.SettlementRunReport, error) {
	requests, err := s.cashoutRepo.ListAwaitingConfirmation(ctx, cutoff)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list awaiting cashouts: %w", err))
	}

	report := &ports.SettlementRunReport{}
	if len(requests) == 0 {
		return report, nil
	}

	since := requests[0].CreatedAt
	for _, req := range requests {
		if req.CreatedAt.Before(since) {
			since = req.CreatedAt
		}
	}
	transfers, err := s.feed.ListTransfers(ctx, since, time.Now().UTC())
	if err != nil {
		return nil, apperror.ErrExternalDependency("bank transfers", err)
	}

	consumed := make(map[string]bool, len(transfers))
	for _, req := range requests {
		report.Processed++
		matched, err := s.confirmCashout(ctx, req, transfers, consumed)
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", req.ID, err))
			s.log.Error().Err(err).Str("cashout_id", req.ID.String()).Msg("cashout confirmation failed, continuing")
			continue
		}
		if matched {
			report.Succeeded++
		} else {
			report.Skipped++
		}
	}

	s.persistReport(ctx, domain.AuditKindSettlementConfirm, domain.DateKeyOf(cutoff), report)

	s.log.Info().
		Int("processed", report.Processed).
		Int("succeeded", report.Succeeded).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("d+2 confirmation completed")

	return report, nil
}

// confirmCashout matches one request against the feed. Exactly one
// candidate confirms; zero or several leave the request untouched (several
// requires manual resolution, never a guess).
func (s *SettlementServiceImpl) confirmCashout(ctx context.Context, req domain.CashoutRequest, transfers []ports.BankTransfer, consumed map[string]bool) (bool, error) {
	var candidates []ports.BankTransfer
	for _, tr := range transfers {
		if consumed[tr.ID] {
			continue
		}
		if tr.Amount.Sub(req.Amount).Abs().GreaterThan(domain.Epsilon) {
			continue
		}
		if req.BankAccountRef != nil && tr.BankAccountRef != "" && tr.BankAccountRef != *req.BankAccountRef {
			continue
		}
		candidates = append(candidates, tr)
	}

	switch len(candidates) {
	case 0:
		return false, nil
	case 1:
	default:
		s.log.Warn().
			Str("cashout_id", req.ID.String()).
			Int("candidates", len(candidates)).
			Msg("ambiguous transfer match, leaving for manual resolution")
		return false, nil
	}

	transfer := candidates[0]
	consumed[transfer.ID] = true

	intents := []domain.PostingIntent{
		{Account: domain.AccountSellerLiability, Type: domain.EntryTypeDebit, Amount: req.Amount},
		{Account: domain.AccountCash, Type: domain.EntryTypeCredit, Amount: req.Amount},
	}
	pctx := domain.PostContext{
		IdempotencyKey: domain.BuildCashoutKey(req.ID),
		TransactionRef: "cashout:" + req.ID.String(),
		SellerRef:      &req.SellerRef,
		SourceSystem:   "settlement",
		SourceDetail:   "d+2 confirmation transfer " + transfer.ID,
		Currency:       s.currency,
	}
	if _, _, err := s.poster.Post(ctx, intents, pctx); err != nil {
		return false, fmt.Errorf("post cashout batch: %w", err)
	}

	// Funds have moved once the batch is posted: the request is settled even
	// if the bookkeeping below does not finish. A request left settled is
	// picked up again on the next run and the replayed post is a no-op.
	if err := s.cashoutRepo.UpdateStatus(ctx, req.ID, domain.CashoutStatusSettled); err != nil {
		return false, fmt.Errorf("settle cashout: %w", err)
	}

	// Decrement the origin day's liability snapshot toward zero. A missing
	// snapshot (day not closed yet) is logged, not fatal. A request resumed
	// from settled was already adjusted on the run that settled it.
	if req.Status != domain.CashoutStatusSettled {
		dateKey := domain.DateKeyOf(req.CreatedAt)
		if err := s.snapshotRepo.AdjustBalance(ctx, dateKey, domain.AccountSellerLiability, &req.SellerRef, req.Amount); err != nil {
			s.log.Warn().Err(err).
				Str("cashout_id", req.ID.String()).
				Str("date_key", dateKey).
				Msg("failed to adjust liability snapshot")
		}
	}

	if err := s.cashoutRepo.UpdateStatus(ctx, req.ID, domain.CashoutStatusCompleted); err != nil {
		return false, fmt.Errorf("complete cashout: %w", err)
	}

	s.log.Info().
		Str("cashout_id", req.ID.String()).
		Str("transfer_id", transfer.ID).
		Str("amount", req.Amount.StringFixed(2)).
		Msg("cashout confirmed against bank transfer")

	return true, nil
}

func (s *SettlementServiceImpl) persistReport(ctx context.Context, kind domain.AuditEventKind, dateKey string, report *ports.SettlementRunReport) {
	detail, err := json.Marshal(report)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal settlement report")
		return
	}
	ev := &domain.AuditEvent{
		ID:        uuid.New(),
		Kind:      kind,
		DateKey:   dateKey,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.auditRepo.Create(ctx, ev); err != nil {
		s.log.Error().Err(err).Msg("failed to persist settlement report")
	}
}
