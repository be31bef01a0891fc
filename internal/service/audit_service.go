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
)

// AuditServiceImpl implements ports.IntegrityAuditor. It independently
// re-derives every batch's balance and hash chain from the stored entries
// and never trusts the totals recorded at close time. Findings are reports:
// the only write is the durable audit record.
type AuditServiceImpl struct {
	entryRepo    ports.EntryRepository
	snapshotRepo ports.SnapshotRepository
	auditRepo    ports.AuditRepository
	log          zerolog.Logger
}

// NewAuditService creates a new AuditServiceImpl.
func NewAuditService(
	entryRepo ports.EntryRepository,
	snapshotRepo ports.SnapshotRepository,
	auditRepo ports.AuditRepository,
	log zerolog.Logger,
) *AuditServiceImpl {
	return &AuditServiceImpl{
		entryRepo:    entryRepo,
		snapshotRepo: snapshotRepo,
		auditRepo:    auditRepo,
		log:          log,
	}
}

// RunIntegrityCheck verifies every batch in the store and diffs the date's
// entry accounts against its snapshot accounts.
func (s *AuditServiceImpl) RunIntegrityCheck(ctx context.Context, date time.Time) (*ports.IntegrityReport, error) {
	dateKey := domain.DateKeyOf(date)
	report := &ports.IntegrityReport{DateKey: dateKey}

	batchIDs, err := s.entryRepo.ListBatchIDs(ctx)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list batch ids: %w", err))
	}

	for _, id := range batchIDs {
		entries, err := s.entryRepo.ListByBatch(ctx, id)
		if err != nil {
			return nil, apperror.ErrDatabaseError(fmt.Errorf("list batch %s: %w", id, err))
		}
		s.verifyBatch(report, id, entries)
	}

	missing, err := s.findMissingSnapshots(ctx, date, dateKey)
	if err != nil {
		return nil, err
	}
	report.MissingSnapshots = missing

	s.persistReport(ctx, dateKey, report)

	s.log.Info().
		Str("date_key", dateKey).
		Int("verified", report.VerifiedBatches).
		Int("unbalanced", report.UnbalancedBatches).
		Int("broken_hashes", report.BrokenHashes).
		Int("missing_snapshots", len(report.MissingSnapshots)).
		Msg("integrity check completed")

	return report, nil
}

// verifyBatch re-derives one batch's totals and hash chain. A broken chain
// short-circuits at the first mismatch; later entries in the same batch
// cannot be trusted once the chain diverges.
func (s *AuditServiceImpl) verifyBatch(report *ports.IntegrityReport, id uuid.UUID, entries []domain.LedgerEntry) {
	report.VerifiedBatches++

	debit, credit := domain.BatchTotals(entries)
	if !domain.WithinEpsilon(debit, credit) {
		report.UnbalancedBatches++
		report.Details = append(report.Details, ports.IntegrityFinding{
			BatchID: id,
			Kind:    "unbalanced",
			Detail:  fmt.Sprintf("debit %s != credit %s", debit.StringFixed(2), credit.StringFixed(2)),
		})
	}

	if idx := domain.VerifyChain(entries); idx >= 0 {
		report.BrokenHashes++
		report.Details = append(report.Details, ports.IntegrityFinding{
			BatchID: id,
			Kind:    "broken_hash",
			Detail:  fmt.Sprintf("hash chain breaks at sequence %d", idx),
		})
	}
}

func (s *AuditServiceImpl) findMissingSnapshots(ctx context.Context, date time.Time, dateKey string) ([]domain.Account, error) {
	entryAccounts, err := s.entryRepo.DistinctAccountsByDay(ctx, date)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("distinct accounts: %w", err))
	}
	snapAccounts, err := s.snapshotRepo.ListAccountsByDate(ctx, dateKey)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("snapshot accounts: %w", err))
	}

	seen := make(map[domain.Account]bool, len(snapAccounts))
	for _, a := range snapAccounts {
		seen[a] = true
	}

	var missing []domain.Account
	for _, a := range entryAccounts {
		if !seen[a] {
			missing = append(missing, a)
		}
	}
	return missing, nil
}

// persistReport writes the durable audit record. Failure to persist is
// logged but does not fail the check; the report is still returned.
func (s *AuditServiceImpl) persistReport(ctx context.Context, dateKey string, report *ports.IntegrityReport) {
	detail, err := json.Marshal(report)
	if err != nil {
		s.log.Error().Err(err).Str("date_key", dateKey).Msg("failed to marshal integrity report")
		return
	}
	ev := &domain.AuditEvent{
		ID:        uuid.New(),
		Kind:      domain.AuditKindIntegrityCheck,
		DateKey:   dateKey,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.auditRepo.Create(ctx, ev); err != nil {
		s.log.Error().Err(err).Str("date_key", dateKey).Msg("failed to persist integrity report")
	}
}
