package service

import (
	"context"
	"testing"

	"ledger-gateway/internal/core/domain"
	"ledger-gateway/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStatementSource struct {
	statement []ports.StatementRow
	err       error
}

func (s *stubStatementSource) FetchStatement(context.Context, string) ([]ports.StatementRow, error) {
	return s.statement, s.err
}

type reconcileFixture struct {
	svc          *ReconcileServiceImpl
	snapshotRepo *memSnapshotRepo
	auditRepo    *memAuditRepo
	source       *stubStatementSource
	seller       uuid.UUID
}

// newReconcileFixture seeds one closed day: cash 100, seller liability -95,
// risk reserve -5. Total magnitude is 200.
func newReconcileFixture(t *testing.T, dateKey string) *reconcileFixture {
	t.Helper()
	snapshotRepo := newMemSnapshotRepo()
	auditRepo := &memAuditRepo{}
	source := &stubStatementSource{}
	seller := uuid.New()

	seed := []domain.LedgerSnapshot{
		{DateKey: dateKey, Account: domain.AccountCash, Balance: decimal.RequireFromString("100.00")},
		{DateKey: dateKey, Account: domain.AccountSellerLiability, SellerRef: &seller, Balance: decimal.RequireFromString("-95.00")},
		{DateKey: dateKey, Account: domain.AccountRiskReserve, Balance: decimal.RequireFromString("-5.00")},
	}
	for i := range seed {
		require.NoError(t, snapshotRepo.Upsert(context.Background(), nil, &seed[i]))
	}

	threshold := decimal.RequireFromString("0.05")
	return &reconcileFixture{
		svc:          NewReconcileService(snapshotRepo, auditRepo, source, threshold, zerolog.Nop()),
		snapshotRepo: snapshotRepo,
		auditRepo:    auditRepo,
		source:       source,
		seller:       seller,
	}
}

func statementFor(cash, liability, reserve string) []ports.StatementRow {
	return []ports.StatementRow{
		{Account: domain.AccountCash, Balance: decimal.RequireFromString(cash)},
		{Account: domain.AccountSellerLiability, Balance: decimal.RequireFromString(liability)},
		{Account: domain.AccountRiskReserve, Balance: decimal.RequireFromString(reserve)},
	}
}

func TestReconcile_AllMatched(t *testing.T) {
	f := newReconcileFixture(t, "2026-08-28")

	result, err := f.svc.Reconcile(context.Background(), "2026-08-28", statementFor("100.00", "-95.00", "-5.00"))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Matched)
	assert.True(t, result.DivergenceRatio.IsZero())
	assert.False(t, result.Locked)

	require.Len(t, f.auditRepo.events, 1)
	assert.Equal(t, domain.AuditKindReconciliation, f.auditRepo.events[0].Kind)
}

func TestReconcile_DivergenceAboveThresholdLocksDay(t *testing.T) {
	f := newReconcileFixture(t, "2026-08-28")

	// 12.00 of divergence on a 200.00 magnitude: ratio 0.06 >= 0.05.
	result, err := f.svc.Reconcile(context.Background(), "2026-08-28", statementFor("88.00", "-95.00", "-5.00"))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Matched)
	assert.Equal(t, "0.06", result.DivergenceRatio.String())
	assert.True(t, result.Locked)

	snapshots, err := f.snapshotRepo.ListByDate(context.Background(), "2026-08-28")
	require.NoError(t, err)
	for _, snap := range snapshots {
		assert.True(t, snap.Locked, "account %s should be locked", snap.Account)
	}

	require.Len(t, f.auditRepo.events, 1)
	assert.Equal(t, domain.AuditKindSnapshotLock, f.auditRepo.events[0].Kind)
}

func TestReconcile_DivergenceBelowThresholdStaysOpen(t *testing.T) {
	f := newReconcileFixture(t, "2026-08-28")

	// 6.00 of divergence on a 200.00 magnitude: ratio 0.03 < 0.05.
	result, err := f.svc.Reconcile(context.Background(), "2026-08-28", statementFor("94.00", "-95.00", "-5.00"))
	require.NoError(t, err)
	assert.Equal(t, "0.03", result.DivergenceRatio.String())
	assert.False(t, result.Locked)

	// The account-level divergence is still written onto the snapshot rows.
	cash, err := f.snapshotRepo.GetByKey(context.Background(), "2026-08-28", domain.AccountCash, nil)
	require.NoError(t, err)
	assert.Equal(t, "6.00", cash.Divergence.StringFixed(2))
	assert.False(t, cash.Locked)
}

func TestReconcile_CleanRunUnlocksPreviouslyLockedDay(t *testing.T) {
	f := newReconcileFixture(t, "2026-08-28")

	_, err := f.svc.Reconcile(context.Background(), "2026-08-28", statementFor("88.00", "-95.00", "-5.00"))
	require.NoError(t, err)

	result, err := f.svc.Reconcile(context.Background(), "2026-08-28", statementFor("100.00", "-95.00", "-5.00"))
	require.NoError(t, err)
	assert.False(t, result.Locked)

	snapshots, err := f.snapshotRepo.ListByDate(context.Background(), "2026-08-28")
	require.NoError(t, err)
	for _, snap := range snapshots {
		assert.False(t, snap.Locked)
	}
}

func TestReconcile_MissingAccounts(t *testing.T) {
	f := newReconcileFixture(t, "2026-08-28")

	statement := []ports.StatementRow{
		{Account: domain.AccountCash, Balance: decimal.RequireFromString("100.00")},
		{Account: domain.AccountSellerLiability, Balance: decimal.RequireFromString("-95.00")},
		{Account: domain.AccountFeeRevenue, Balance: decimal.RequireFromString("-1.00")},
	}
	result, err := f.svc.Reconcile(context.Background(), "2026-08-28", statement)
	require.NoError(t, err)
	assert.Equal(t, []domain.Account{domain.AccountRiskReserve}, result.MissingInExternal)
	assert.Equal(t, []domain.Account{domain.AccountFeeRevenue}, result.MissingInLedger)
	assert.Equal(t, "0.03", result.DivergenceRatio.String())
}

func TestReconcile_NoSnapshotsForDate(t *testing.T) {
	f := newReconcileFixture(t, "2026-08-28")

	_, err := f.svc.Reconcile(context.Background(), "2026-08-29", statementFor("100.00", "-95.00", "-5.00"))
	assertAppCode(t, err, "LED_022")
}

func TestReconcileRemote(t *testing.T) {
	f := newReconcileFixture(t, "2026-08-28")
	f.source.statement = statementFor("100.00", "-95.00", "-5.00")

	result, err := f.svc.ReconcileRemote(context.Background(), "2026-08-28")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Matched)
}

func TestReconcileRemote_SourceFailure(t *testing.T) {
	f := newReconcileFixture(t, "2026-08-28")
	f.source.err = assert.AnError

	_, err := f.svc.ReconcileRemote(context.Background(), "2026-08-28")
	assertAppCode(t, err, "EXT_001")

	// A transport failure never counts as "no divergence": nothing is
	// written and nothing is unlocked.
	assert.Empty(t, f.auditRepo.events)
}
