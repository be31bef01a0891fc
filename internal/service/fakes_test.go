package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"ledger-gateway/internal/core/domain"
	"ledger-gateway/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// In-memory fakes implementing the repository ports. Write methods ignore
// the pgx.Tx handle; the fakes are not transactional.

type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Begin(context.Context) (pgx.Tx, error) { return t, nil }
func (t *fakeTx) Commit(context.Context) error          { t.committed = true; return nil }
func (t *fakeTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}
func (t *fakeTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *fakeTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }
func (t *fakeTx) LargeObjects() pgx.LargeObjects                         { return pgx.LargeObjects{} }
func (t *fakeTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *fakeTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (t *fakeTx) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }
func (t *fakeTx) QueryRow(context.Context, string, ...any) pgx.Row        { return nil }
func (t *fakeTx) Conn() *pgx.Conn                                         { return nil }

type fakeTransactor struct {
	beginErr error
}

func (f *fakeTransactor) Begin(context.Context) (pgx.Tx, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return &fakeTx{}, nil
}

type memEntryRepo struct {
	entries []domain.LedgerEntry
}

func (r *memEntryRepo) CreateBatch(_ context.Context, _ pgx.Tx, entries []domain.LedgerEntry) error {
	r.entries = append(r.entries, entries...)
	return nil
}

func (r *memEntryRepo) GetBatchIDByIdempotencyKey(_ context.Context, key string) (*uuid.UUID, error) {
	for _, e := range r.entries {
		if e.IdempotencyKey == key {
			id := e.BatchID
			return &id, nil
		}
	}
	return nil, nil
}

func (r *memEntryRepo) GetBatchIDByIdempotencyKeyTx(ctx context.Context, _ pgx.Tx, key string) (*uuid.UUID, error) {
	return r.GetBatchIDByIdempotencyKey(ctx, key)
}

func (r *memEntryRepo) ListByBatch(_ context.Context, batchID uuid.UUID) ([]domain.LedgerEntry, error) {
	var out []domain.LedgerEntry
	for _, e := range r.entries {
		if e.BatchID == batchID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (r *memEntryRepo) ListBatchIDs(context.Context) ([]uuid.UUID, error) {
	seen := map[uuid.UUID]bool{}
	var ids []uuid.UUID
	for _, e := range r.entries {
		if !seen[e.BatchID] {
			seen[e.BatchID] = true
			ids = append(ids, e.BatchID)
		}
	}
	return ids, nil
}

func inDay(e domain.LedgerEntry, day time.Time) bool {
	start := day.UTC().Truncate(24 * time.Hour)
	return !e.EventAt.Before(start) && e.EventAt.Before(start.Add(24*time.Hour))
}

func (r *memEntryRepo) AggregateDay(_ context.Context, _ pgx.Tx, day time.Time) (*ports.DayTotals, error) {
	totals := &ports.DayTotals{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	for _, e := range r.entries {
		if !inDay(e, day) {
			continue
		}
		totals.TotalEntries++
		if e.Type == domain.EntryTypeDebit {
			totals.TotalDebit = totals.TotalDebit.Add(e.Amount)
		} else {
			totals.TotalCredit = totals.TotalCredit.Add(e.Amount)
		}
	}
	return totals, nil
}

func (r *memEntryRepo) AggregateDayGroups(_ context.Context, _ pgx.Tx, day time.Time) ([]ports.DayGroup, error) {
	type key struct {
		account domain.Account
		seller  string
	}
	groups := map[key]*ports.DayGroup{}
	var order []key
	for _, e := range r.entries {
		if !inDay(e, day) {
			continue
		}
		k := key{account: e.Account}
		if e.SellerRef != nil {
			k.seller = e.SellerRef.String()
		}
		g, ok := groups[k]
		if !ok {
			g = &ports.DayGroup{Account: e.Account, SellerRef: e.SellerRef, DebitTotal: decimal.Zero, CreditTotal: decimal.Zero}
			groups[k] = g
			order = append(order, k)
		}
		if e.Type == domain.EntryTypeDebit {
			g.DebitTotal = g.DebitTotal.Add(e.Amount)
		} else {
			g.CreditTotal = g.CreditTotal.Add(e.Amount)
		}
	}
	out := make([]ports.DayGroup, 0, len(order))
	for _, k := range order {
		out = append(out, *groups[k])
	}
	return out, nil
}

func (r *memEntryRepo) DistinctAccountsByDay(_ context.Context, day time.Time) ([]domain.Account, error) {
	seen := map[domain.Account]bool{}
	var out []domain.Account
	for _, e := range r.entries {
		if inDay(e, day) && !seen[e.Account] {
			seen[e.Account] = true
			out = append(out, e.Account)
		}
	}
	return out, nil
}

func (r *memEntryRepo) SumBySeller(_ context.Context, sellerRef uuid.UUID) ([]ports.AccountBalance, error) {
	sums := map[domain.Account]decimal.Decimal{}
	var order []domain.Account
	for _, e := range r.entries {
		if e.SellerRef == nil || *e.SellerRef != sellerRef {
			continue
		}
		if _, ok := sums[e.Account]; !ok {
			order = append(order, e.Account)
		}
		if e.Type == domain.EntryTypeDebit {
			sums[e.Account] = sums[e.Account].Add(e.Amount)
		} else {
			sums[e.Account] = sums[e.Account].Sub(e.Amount)
		}
	}
	out := make([]ports.AccountBalance, 0, len(order))
	for _, a := range order {
		out = append(out, ports.AccountBalance{Account: a, Balance: sums[a]})
	}
	return out, nil
}

func (r *memEntryRepo) SumByAccount(_ context.Context, sellerRef uuid.UUID, account domain.Account) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range r.entries {
		if e.SellerRef == nil || *e.SellerRef != sellerRef || e.Account != account {
			continue
		}
		if e.Type == domain.EntryTypeDebit {
			sum = sum.Add(e.Amount)
		} else {
			sum = sum.Sub(e.Amount)
		}
	}
	return sum, nil
}

func (r *memEntryRepo) TrialBalance(_ context.Context, from, to time.Time) ([]ports.TrialBalanceRow, error) {
	rows := map[domain.Account]*ports.TrialBalanceRow{}
	var order []domain.Account
	for _, e := range r.entries {
		if e.EventAt.Before(from) || !e.EventAt.Before(to) {
			continue
		}
		row, ok := rows[e.Account]
		if !ok {
			row = &ports.TrialBalanceRow{Account: e.Account, TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
			rows[e.Account] = row
			order = append(order, e.Account)
		}
		if e.Type == domain.EntryTypeDebit {
			row.TotalDebit = row.TotalDebit.Add(e.Amount)
		} else {
			row.TotalCredit = row.TotalCredit.Add(e.Amount)
		}
	}
	out := make([]ports.TrialBalanceRow, 0, len(order))
	for _, a := range order {
		row := rows[a]
		row.Balance = row.TotalDebit.Sub(row.TotalCredit)
		out = append(out, *row)
	}
	return out, nil
}

func (r *memEntryRepo) GlobalBalance(context.Context) ([]ports.AccountBalance, error) {
	sums := map[domain.Account]decimal.Decimal{}
	var order []domain.Account
	for _, e := range r.entries {
		if _, ok := sums[e.Account]; !ok {
			order = append(order, e.Account)
		}
		if e.Type == domain.EntryTypeDebit {
			sums[e.Account] = sums[e.Account].Add(e.Amount)
		} else {
			sums[e.Account] = sums[e.Account].Sub(e.Amount)
		}
	}
	out := make([]ports.AccountBalance, 0, len(order))
	for _, a := range order {
		out = append(out, ports.AccountBalance{Account: a, Balance: sums[a]})
	}
	return out, nil
}

func snapKey(dateKey string, account domain.Account, sellerRef *uuid.UUID) string {
	if sellerRef == nil {
		return dateKey + "|" + string(account) + "|"
	}
	return dateKey + "|" + string(account) + "|" + sellerRef.String()
}

type memSnapshotRepo struct {
	snaps map[string]*domain.LedgerSnapshot
}

func newMemSnapshotRepo() *memSnapshotRepo {
	return &memSnapshotRepo{snaps: map[string]*domain.LedgerSnapshot{}}
}

func (r *memSnapshotRepo) Upsert(_ context.Context, _ pgx.Tx, s *domain.LedgerSnapshot) error {
	cp := *s
	r.snaps[snapKey(s.DateKey, s.Account, s.SellerRef)] = &cp
	return nil
}

func (r *memSnapshotRepo) GetByKey(_ context.Context, dateKey string, account domain.Account, sellerRef *uuid.UUID) (*domain.LedgerSnapshot, error) {
	if s, ok := r.snaps[snapKey(dateKey, account, sellerRef)]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *memSnapshotRepo) ListByDate(_ context.Context, dateKey string) ([]domain.LedgerSnapshot, error) {
	var out []domain.LedgerSnapshot
	for _, s := range r.snaps {
		if s.DateKey == dateKey {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *memSnapshotRepo) ListAccountsByDate(_ context.Context, dateKey string) ([]domain.Account, error) {
	seen := map[domain.Account]bool{}
	var out []domain.Account
	for _, s := range r.snaps {
		if s.DateKey == dateKey && !seen[s.Account] {
			seen[s.Account] = true
			out = append(out, s.Account)
		}
	}
	return out, nil
}

func (r *memSnapshotRepo) ListReleasable(_ context.Context, dateKey string) ([]domain.LedgerSnapshot, error) {
	var out []domain.LedgerSnapshot
	for _, s := range r.snaps {
		if s.DateKey == dateKey && s.Account == domain.AccountSellerLiability &&
			!s.Locked && s.SellerRef != nil && s.Balance.IsNegative() {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *memSnapshotRepo) UpdateDivergence(_ context.Context, dateKey string, account domain.Account, sellerRef *uuid.UUID, divergence decimal.Decimal) error {
	s, ok := r.snaps[snapKey(dateKey, account, sellerRef)]
	if !ok {
		return fmt.Errorf("snapshot not found: %s/%s", dateKey, account)
	}
	s.Divergence = divergence
	return nil
}

func (r *memSnapshotRepo) SetLockedByDate(_ context.Context, dateKey string, locked bool) (int64, error) {
	var n int64
	for _, s := range r.snaps {
		if s.DateKey == dateKey {
			s.Locked = locked
			n++
		}
	}
	return n, nil
}

func (r *memSnapshotRepo) AdjustBalance(_ context.Context, dateKey string, account domain.Account, sellerRef *uuid.UUID, delta decimal.Decimal) error {
	s, ok := r.snaps[snapKey(dateKey, account, sellerRef)]
	if !ok {
		return fmt.Errorf("snapshot not found: %s/%s", dateKey, account)
	}
	s.Balance = s.Balance.Add(delta)
	return nil
}

type memBatchRepo struct {
	batches map[string]*domain.LedgerBatch
}

func newMemBatchRepo() *memBatchRepo {
	return &memBatchRepo{batches: map[string]*domain.LedgerBatch{}}
}

func (r *memBatchRepo) Create(_ context.Context, _ pgx.Tx, b *domain.LedgerBatch) error {
	if _, ok := r.batches[b.DateKey]; ok {
		return domain.ErrDateAlreadyClosed
	}
	cp := *b
	r.batches[b.DateKey] = &cp
	return nil
}

func (r *memBatchRepo) GetByDate(_ context.Context, dateKey string) (*domain.LedgerBatch, error) {
	if b, ok := r.batches[dateKey]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

type memCashoutRepo struct {
	requests map[uuid.UUID]*domain.CashoutRequest
	// statusLog records every UpdateStatus transition in order.
	statusLog []domain.CashoutStatus
}

func newMemCashoutRepo() *memCashoutRepo {
	return &memCashoutRepo{requests: map[uuid.UUID]*domain.CashoutRequest{}}
}

func (r *memCashoutRepo) Create(_ context.Context, c *domain.CashoutRequest) error {
	cp := *c
	r.requests[c.ID] = &cp
	return nil
}

func (r *memCashoutRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.CashoutRequest, error) {
	if c, ok := r.requests[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *memCashoutRepo) ListBySeller(_ context.Context, sellerRef uuid.UUID) ([]domain.CashoutRequest, error) {
	var out []domain.CashoutRequest
	for _, c := range r.requests {
		if c.SellerRef == sellerRef {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memCashoutRepo) ListAwaitingConfirmation(_ context.Context, olderThan time.Time) ([]domain.CashoutRequest, error) {
	var out []domain.CashoutRequest
	for _, c := range r.requests {
		if c.AwaitingBankConfirmation() && c.CreatedAt.Before(olderThan) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memCashoutRepo) UpdateDecision(_ context.Context, c *domain.CashoutRequest) error {
	if _, ok := r.requests[c.ID]; !ok {
		return fmt.Errorf("cashout request not found: %s", c.ID)
	}
	cp := *c
	r.requests[c.ID] = &cp
	return nil
}

func (r *memCashoutRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.CashoutStatus) error {
	c, ok := r.requests[id]
	if !ok {
		return fmt.Errorf("cashout request not found: %s", id)
	}
	c.Status = status
	r.statusLog = append(r.statusLog, status)
	return nil
}

type memWalletRepo struct {
	wallets map[uuid.UUID]*domain.Wallet
	funds   map[uuid.UUID]*domain.UnavailableFund
	ops     []domain.WalletOperation
	// failSeller makes every locked read for that seller fail, for
	// exercising per-item failure isolation.
	failSeller uuid.UUID
}

func newMemWalletRepo() *memWalletRepo {
	return &memWalletRepo{
		wallets: map[uuid.UUID]*domain.Wallet{},
		funds:   map[uuid.UUID]*domain.UnavailableFund{},
	}
}

func (r *memWalletRepo) Create(_ context.Context, w *domain.Wallet) error {
	cp := *w
	if cp.Available.IsZero() {
		cp.Available = decimal.Zero
	}
	r.wallets[w.SellerRef] = &cp
	return nil
}

func (r *memWalletRepo) GetBySeller(_ context.Context, sellerRef uuid.UUID) (*domain.Wallet, error) {
	if w, ok := r.wallets[sellerRef]; ok {
		cp := *w
		return &cp, nil
	}
	return nil, nil
}

func (r *memWalletRepo) GetBySellerForUpdate(ctx context.Context, _ pgx.Tx, sellerRef uuid.UUID) (*domain.Wallet, error) {
	if r.failSeller != uuid.Nil && sellerRef == r.failSeller {
		return nil, fmt.Errorf("simulated lock failure: %s", sellerRef)
	}
	return r.GetBySeller(ctx, sellerRef)
}

func (r *memWalletRepo) UpdateAvailable(_ context.Context, _ pgx.Tx, sellerRef uuid.UUID, available decimal.Decimal) error {
	w, ok := r.wallets[sellerRef]
	if !ok {
		return fmt.Errorf("wallet not found: %s", sellerRef)
	}
	w.Available = available
	return nil
}

func (r *memWalletRepo) AddUnavailableFund(_ context.Context, _ pgx.Tx, f *domain.UnavailableFund) error {
	cp := *f
	r.funds[f.ID] = &cp
	return nil
}

func (r *memWalletRepo) ListMaturedFunds(_ context.Context, now time.Time) ([]domain.UnavailableFund, error) {
	var out []domain.UnavailableFund
	for _, f := range r.funds {
		if f.Matured(now) {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *memWalletRepo) ListUnavailableFunds(_ context.Context, sellerRef uuid.UUID) ([]domain.UnavailableFund, error) {
	var out []domain.UnavailableFund
	for _, f := range r.funds {
		if f.SellerRef == sellerRef && !f.Released {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *memWalletRepo) MarkFundReleased(_ context.Context, _ pgx.Tx, fundID uuid.UUID) error {
	f, ok := r.funds[fundID]
	if !ok || f.Released {
		return fmt.Errorf("unavailable fund not found or already released: %s", fundID)
	}
	f.Released = true
	return nil
}

func (r *memWalletRepo) AppendOperation(_ context.Context, _ pgx.Tx, op *domain.WalletOperation) error {
	r.ops = append(r.ops, *op)
	return nil
}

func (r *memWalletRepo) ListOperations(_ context.Context, sellerRef uuid.UUID, limit int) ([]domain.WalletOperation, error) {
	var out []domain.WalletOperation
	for i := len(r.ops) - 1; i >= 0 && len(out) < limit; i-- {
		if r.ops[i].SellerRef == sellerRef {
			out = append(out, r.ops[i])
		}
	}
	return out, nil
}

type memPolicyRepo struct {
	policies []domain.RetentionPolicy
}

func (r *memPolicyRepo) Create(_ context.Context, p *domain.RetentionPolicy) error {
	r.policies = append(r.policies, *p)
	return nil
}

func (r *memPolicyRepo) GetActive(_ context.Context, method domain.PaymentMethod, risk domain.RiskLevel) (*domain.RetentionPolicy, error) {
	var best *domain.RetentionPolicy
	for i := range r.policies {
		p := &r.policies[i]
		if p.Method == method && p.RiskLevel == risk && p.Active {
			if best == nil || p.CreatedAt.After(best.CreatedAt) {
				best = p
			}
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

type memAuditRepo struct {
	events []domain.AuditEvent
}

func (r *memAuditRepo) Create(_ context.Context, ev *domain.AuditEvent) error {
	r.events = append(r.events, *ev)
	return nil
}

func (r *memAuditRepo) ListByDate(_ context.Context, dateKey string) ([]domain.AuditEvent, error) {
	var out []domain.AuditEvent
	for _, ev := range r.events {
		if ev.DateKey == dateKey {
			out = append(out, ev)
		}
	}
	return out, nil
}

type memIdempCache struct {
	values map[string]uuid.UUID
	getErr error
}

func newMemIdempCache() *memIdempCache {
	return &memIdempCache{values: map[string]uuid.UUID{}}
}

func (c *memIdempCache) Get(_ context.Context, key string) (*uuid.UUID, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	if id, ok := c.values[key]; ok {
		return &id, nil
	}
	return nil, nil
}

func (c *memIdempCache) Set(_ context.Context, key string, batchID uuid.UUID, _ time.Duration) error {
	c.values[key] = batchID
	return nil
}

type capturePublisher struct {
	events []ports.LedgerEvent
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, ev ports.LedgerEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *capturePublisher) Close() error { return nil }
