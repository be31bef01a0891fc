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

// ReconcileServiceImpl implements ports.Reconciler. It compares a day's
// snapshots against an external statement and locks the entire day when the
// aggregate divergence crosses the threshold. The lock is whole-day on
// purpose: a divergent day cannot be partially trusted.
type ReconcileServiceImpl struct {
	snapshotRepo ports.SnapshotRepository
	auditRepo    ports.AuditRepository
	source       ports.StatementSource
	threshold    decimal.Decimal
	log          zerolog.Logger
}

// NewReconcileService creates a new ReconcileServiceImpl. threshold is the
// lock ratio, e.g. 0.05 for five percent.
func NewReconcileService(
	snapshotRepo ports.SnapshotRepository,
	auditRepo ports.AuditRepository,
	source ports.StatementSource,
	threshold decimal.Decimal,
	log zerolog.Logger,
) *ReconcileServiceImpl {
	return &ReconcileServiceImpl{
		snapshotRepo: snapshotRepo,
		auditRepo:    auditRepo,
		source:       source,
		threshold:    threshold,
		log:          log,
	}
}

// ReconcileRemote fetches the statement from the external source and
// reconciles against it. A transport failure is surfaced as an external
// dependency error; it never counts as "no divergence".
func (s *ReconcileServiceImpl) ReconcileRemote(ctx context.Context, dateKey string) (*ports.ReconciliationResult, error) {
	statement, err := s.source.FetchStatement(ctx, dateKey)
	if err != nil {
		return nil, apperror.ErrExternalDependency("bank statement", err)
	}
	return s.Reconcile(ctx, dateKey, statement)
}

// Reconcile compares the date's snapshots against the given statement.
func (s *ReconcileServiceImpl) Reconcile(ctx context.Context, dateKey string, statement []ports.StatementRow) (*ports.ReconciliationResult, error) {
	snapshots, err := s.snapshotRepo.ListByDate(ctx, dateKey)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list snapshots: %w", err))
	}
	if len(snapshots) == 0 {
		return nil, apperror.ErrNotFound(fmt.Sprintf("snapshots for %s", dateKey))
	}

	// Seller-level rows collapse into one ledger total per account.
	ledger := make(map[domain.Account]decimal.Decimal, len(snapshots))
	for _, snap := range snapshots {
		ledger[snap.Account] = ledger[snap.Account].Add(snap.Balance)
	}
	external := make(map[domain.Account]decimal.Decimal, len(statement))
	for _, row := range statement {
		external[row.Account] = external[row.Account].Add(row.Balance)
	}

	result := &ports.ReconciliationResult{DateKey: dateKey}
	totalDivergence := decimal.Zero
	ledgerMagnitude := decimal.Zero
	externalMagnitude := decimal.Zero

	for account, balance := range ledger {
		ledgerMagnitude = ledgerMagnitude.Add(balance.Abs())
		ext, ok := external[account]
		if !ok {
			result.MissingInExternal = append(result.MissingInExternal, account)
			totalDivergence = totalDivergence.Add(balance.Abs())
			continue
		}
		diff := balance.Sub(ext).Abs()
		totalDivergence = totalDivergence.Add(diff)
		if diff.LessThan(domain.Epsilon) {
			result.Matched++
		} else {
			s.recordDivergence(ctx, dateKey, account, snapshots, diff)
		}
	}
	for account, balance := range external {
		externalMagnitude = externalMagnitude.Add(balance.Abs())
		if _, ok := ledger[account]; !ok {
			result.MissingInLedger = append(result.MissingInLedger, account)
			totalDivergence = totalDivergence.Add(balance.Abs())
		}
	}

	result.DivergenceRatio = divergenceRatio(totalDivergence, ledgerMagnitude, externalMagnitude)
	result.Locked = result.DivergenceRatio.GreaterThanOrEqual(s.threshold)

	locked, err := s.snapshotRepo.SetLockedByDate(ctx, dateKey, result.Locked)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("set snapshot lock: %w", err))
	}

	s.persistResult(ctx, dateKey, result)

	s.log.Info().
		Str("date_key", dateKey).
		Int("matched", result.Matched).
		Str("divergence_ratio", result.DivergenceRatio.String()).
		Bool("locked", result.Locked).
		Int64("rows_affected", locked).
		Msg("reconciliation completed")

	return result, nil
}

// recordDivergence writes the account-level divergence onto each of the
// account's snapshot rows. Each update is individually atomic; a mid-run
// failure leaves the remaining rows for the next scheduled run.
func (s *ReconcileServiceImpl) recordDivergence(ctx context.Context, dateKey string, account domain.Account, snapshots []domain.LedgerSnapshot, diff decimal.Decimal) {
	for _, snap := range snapshots {
		if snap.Account != account {
			continue
		}
		if err := s.snapshotRepo.UpdateDivergence(ctx, dateKey, account, snap.SellerRef, diff); err != nil {
			s.log.Warn().Err(err).
				Str("date_key", dateKey).
				Str("account", string(account)).
				Msg("failed to record snapshot divergence")
		}
	}
}

func (s *ReconcileServiceImpl) persistResult(ctx context.Context, dateKey string, result *ports.ReconciliationResult) {
	detail, err := json.Marshal(result)
	if err != nil {
		s.log.Error().Err(err).Str("date_key", dateKey).Msg("failed to marshal reconciliation result")
		return
	}

	kind := domain.AuditKindReconciliation
	if result.Locked {
		kind = domain.AuditKindSnapshotLock
	}
	ev := &domain.AuditEvent{
		ID:        uuid.New(),
		Kind:      kind,
		DateKey:   dateKey,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.auditRepo.Create(ctx, ev); err != nil {
		s.log.Error().Err(err).Str("date_key", dateKey).Msg("failed to persist reconciliation result")
	}
}

// divergenceRatio is total divergence over the larger side's magnitude,
// zero when both sides are zero.
func divergenceRatio(divergence, ledgerMagnitude, externalMagnitude decimal.Decimal) decimal.Decimal {
	denom := decimal.Max(ledgerMagnitude, externalMagnitude)
	if denom.IsZero() {
		return decimal.Zero
	}
	return divergence.Div(denom)
}
