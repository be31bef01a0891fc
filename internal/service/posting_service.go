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
	"github.com/rs/zerolog"
)

const idempotencyTTL = 24 * time.Hour

// PostingServiceImpl implements ports.LedgerPoster, the single write path
// into the entry store.
type PostingServiceImpl struct {
	entryRepo  ports.EntryRepository
	batchRepo  ports.BatchRepository
	idempCache ports.IdempotencyCache
	publisher  ports.EventPublisher
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewPostingService creates a new PostingServiceImpl.
func NewPostingService(
	entryRepo ports.EntryRepository,
	batchRepo ports.BatchRepository,
	idempCache ports.IdempotencyCache,
	publisher ports.EventPublisher,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *PostingServiceImpl {
	return &PostingServiceImpl{
		entryRepo:  entryRepo,
		batchRepo:  batchRepo,
		idempCache: idempCache,
		publisher:  publisher,
		transactor: transactor,
		log:        log,
	}
}

// Post validates, chains and atomically commits a balanced batch. A replayed
// idempotency key returns the original batch id with replayed=true and
// writes nothing.
func (s *PostingServiceImpl) Post(ctx context.Context, intents []domain.PostingIntent, pctx domain.PostContext) (uuid.UUID, bool, error) {
	if pctx.IdempotencyKey == "" {
		return uuid.Nil, false, apperror.ErrInvalidPosting("idempotency key is required")
	}
	if pctx.Currency == "" {
		return uuid.Nil, false, apperror.ErrInvalidPosting("currency is required")
	}
	if err := domain.ValidateIntents(intents); err != nil {
		return uuid.Nil, false, mapIntentError(err, intents)
	}

	// Layer 1: Redis idempotency check
	cached, err := s.idempCache.Get(ctx, pctx.IdempotencyKey)
	if err != nil {
		s.log.Warn().Err(err).Str("key", pctx.IdempotencyKey).Msg("redis idempotency check failed, falling through to DB")
	}
	if cached != nil {
		return *cached, true, nil
	}

	// Begin database transaction
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return uuid.Nil, false, apperror.ErrDatabaseError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Layer 2: authoritative DB idempotency check, same snapshot as the insert
	existing, err := s.entryRepo.GetBatchIDByIdempotencyKeyTx(ctx, dbTx, pctx.IdempotencyKey)
	if err != nil {
		return uuid.Nil, false, apperror.ErrDatabaseError(fmt.Errorf("db idempotency check: %w", err))
	}
	if existing != nil {
		return *existing, true, nil
	}

	// A backdated posting must not land on a day whose closing record is
	// already written; the closed totals and snapshots are frozen.
	if pctx.EventAt != nil {
		dateKey := domain.DateKeyOf(*pctx.EventAt)
		closedDay, err := s.batchRepo.GetByDate(ctx, dateKey)
		if err != nil {
			return uuid.Nil, false, apperror.ErrDatabaseError(fmt.Errorf("check closed day: %w", err))
		}
		if closedDay != nil {
			return uuid.Nil, false, apperror.ErrDayAlreadyClosed(dateKey)
		}
	}

	now := time.Now().UTC()
	batchID := uuid.New()
	entries := domain.BuildEntries(batchID, intents, pctx, now)

	if err := s.entryRepo.CreateBatch(ctx, dbTx, entries); err != nil {
		return uuid.Nil, false, apperror.ErrDatabaseError(fmt.Errorf("create batch: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return uuid.Nil, false, apperror.ErrDatabaseError(fmt.Errorf("commit tx: %w", err))
	}

	// Post-process: cache in Redis (best-effort)
	if err := s.idempCache.Set(ctx, pctx.IdempotencyKey, batchID, idempotencyTTL); err != nil {
		s.log.Warn().Err(err).Str("key", pctx.IdempotencyKey).Msg("failed to cache idempotency in redis")
	}

	// Post-process: emit event (best-effort)
	ev := ports.LedgerEvent{
		Kind:      "ledger.batch.posted",
		BatchID:   batchID,
		Entries:   len(entries),
		Timestamp: now,
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("batch_id", batchID.String()).Msg("failed to publish ledger event")
	}

	s.log.Info().
		Str("batch_id", batchID.String()).
		Str("transaction_ref", pctx.TransactionRef).
		Int("entries", len(entries)).
		Msg("ledger batch posted")

	return batchID, false, nil
}

func mapIntentError(err error, intents []domain.PostingIntent) error {
	switch {
	case errors.Is(err, domain.ErrBatchSize):
		return apperror.ErrBatchTooSmall()
	case errors.Is(err, domain.ErrUnbalanced):
		return apperror.ErrUnbalancedBatch()
	case errors.Is(err, domain.ErrInvalidAccount):
		for _, in := range intents {
			if !in.Account.Valid() {
				return apperror.ErrUnknownAccount(string(in.Account))
			}
		}
		return apperror.ErrUnknownAccount("")
	default:
		return apperror.ErrInvalidPosting(err.Error())
	}
}
