package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ledger-gateway/internal/core/domain"
	"ledger-gateway/internal/core/ports"
	"ledger-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// ClosingServiceImpl implements ports.BatchCloser: the end-of-day job that
// writes the one-per-date closing record and consolidates the day's entries
// into snapshots, all in one transaction.
type ClosingServiceImpl struct {
	entryRepo    ports.EntryRepository
	snapshotRepo ports.SnapshotRepository
	batchRepo    ports.BatchRepository
	publisher    ports.EventPublisher
	transactor   ports.DBTransactor
	log          zerolog.Logger
}

// NewClosingService creates a new ClosingServiceImpl.
func NewClosingService(
	entryRepo ports.EntryRepository,
	snapshotRepo ports.SnapshotRepository,
	batchRepo ports.BatchRepository,
	publisher ports.EventPublisher,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *ClosingServiceImpl {
	return &ClosingServiceImpl{
		entryRepo:    entryRepo,
		snapshotRepo: snapshotRepo,
		batchRepo:    batchRepo,
		publisher:    publisher,
		transactor:   transactor,
		log:          log,
	}
}

// CloseDailyBatch closes the UTC day of date. A day that is already closed
// returns the existing record with noop=true; a day with no postings aborts
// without writing anything.
func (s *ClosingServiceImpl) CloseDailyBatch(ctx context.Context, date time.Time) (*domain.LedgerBatch, bool, error) {
	dateKey := domain.DateKeyOf(date)

	existing, err := s.batchRepo.GetByDate(ctx, dateKey)
	if err != nil {
		return nil, false, apperror.ErrDatabaseError(fmt.Errorf("check existing batch: %w", err))
	}
	if existing != nil {
		s.log.Info().Str("date_key", dateKey).Msg("day already closed, nothing to do")
		return existing, true, nil
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, false, apperror.ErrDatabaseError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	totals, err := s.entryRepo.AggregateDay(ctx, dbTx, date)
	if err != nil {
		return nil, false, apperror.ErrDatabaseError(fmt.Errorf("aggregate day: %w", err))
	}
	if totals.TotalEntries == 0 {
		return nil, false, apperror.ErrNothingToClose(dateKey)
	}
	if !domain.Round2(totals.TotalDebit).Equal(domain.Round2(totals.TotalCredit)) {
		// Only possible if the append-only store was tampered with.
		return nil, false, apperror.ErrUnbalancedBatch()
	}

	snapshots, err := s.createDailySnapshots(ctx, dbTx, date, dateKey)
	if err != nil {
		return nil, false, err
	}

	now := time.Now().UTC()
	batch := &domain.LedgerBatch{
		DateKey:      dateKey,
		BatchID:      uuid.New(),
		TotalEntries: totals.TotalEntries,
		TotalDebit:   domain.Round2(totals.TotalDebit),
		TotalCredit:  domain.Round2(totals.TotalCredit),
		Closed:       true,
		ClosedAt:     now,
	}
	if err := s.batchRepo.Create(ctx, dbTx, batch); err != nil {
		if errors.Is(err, domain.ErrDateAlreadyClosed) {
			// A racing closer won; return its committed record as an
			// already-closed no-op, same as the guard at the top.
			s.log.Info().Str("date_key", dateKey).Msg("concurrent close detected, yielding")
			winner, ferr := s.batchRepo.GetByDate(ctx, dateKey)
			if ferr != nil {
				return nil, false, apperror.ErrDatabaseError(fmt.Errorf("fetch winning batch: %w", ferr))
			}
			if winner == nil {
				return nil, false, apperror.ErrDatabaseError(fmt.Errorf("batch record for %s missing after concurrent close", dateKey))
			}
			return winner, true, nil
		}
		return nil, false, apperror.ErrDatabaseError(fmt.Errorf("create batch record: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, false, apperror.ErrDatabaseError(fmt.Errorf("commit tx: %w", err))
	}

	ev := ports.LedgerEvent{
		Kind:      "ledger.day.closed",
		BatchID:   batch.BatchID,
		DateKey:   dateKey,
		Entries:   int(totals.TotalEntries),
		Timestamp: now,
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("date_key", dateKey).Msg("failed to publish close event")
	}

	s.log.Info().
		Str("date_key", dateKey).
		Str("batch_id", batch.BatchID.String()).
		Int64("entries", totals.TotalEntries).
		Int("snapshots", snapshots).
		Msg("ledger day closed")

	return batch, false, nil
}

// createDailySnapshots groups the day's postings by (account, seller) and
// upserts one snapshot per group. Re-running for the same date overwrites
// totals with identical values, so the close stays idempotent.
func (s *ClosingServiceImpl) createDailySnapshots(ctx context.Context, dbTx pgx.Tx, date time.Time, dateKey string) (int, error) {
	groups, err := s.entryRepo.AggregateDayGroups(ctx, dbTx, date)
	if err != nil {
		return 0, apperror.ErrDatabaseError(fmt.Errorf("aggregate day groups: %w", err))
	}

	now := time.Now().UTC()
	for _, g := range groups {
		snap := &domain.LedgerSnapshot{
			DateKey:     dateKey,
			SellerRef:   g.SellerRef,
			Account:     g.Account,
			DebitTotal:  domain.Round2(g.DebitTotal),
			CreditTotal: domain.Round2(g.CreditTotal),
			Balance:     domain.Round2(g.DebitTotal.Sub(g.CreditTotal)),
			Locked:      false,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.snapshotRepo.Upsert(ctx, dbTx, snap); err != nil {
			return 0, apperror.ErrDatabaseError(fmt.Errorf("upsert snapshot %s/%s: %w", dateKey, g.Account, err))
		}
	}
	return len(groups), nil
}
