package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"ledger-gateway/internal/core/domain"
	"ledger-gateway/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// In-memory repos implementing the storage ports, guarded by mutexes so the
// concurrency tests can hammer them. Write methods ignore the pgx.Tx handle.

type inMemoryTx struct {
	done   sync.Once
	unlock func()
}

func (t *inMemoryTx) Begin(context.Context) (pgx.Tx, error) { return t, nil }
func (t *inMemoryTx) Commit(context.Context) error          { t.done.Do(t.unlock); return nil }
func (t *inMemoryTx) Rollback(context.Context) error        { t.done.Do(t.unlock); return nil }
func (t *inMemoryTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *inMemoryTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }
func (t *inMemoryTx) LargeObjects() pgx.LargeObjects                         { return pgx.LargeObjects{} }
func (t *inMemoryTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *inMemoryTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (t *inMemoryTx) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }
func (t *inMemoryTx) QueryRow(context.Context, string, ...any) pgx.Row        { return nil }
func (t *inMemoryTx) Conn() *pgx.Conn                                         { return nil }

// inMemoryTransactor serializes transactions behind one mutex, standing in
// for the row locks and unique constraints the real store provides.
type inMemoryTransactor struct {
	mu sync.Mutex
}

func (f *inMemoryTransactor) Begin(context.Context) (pgx.Tx, error) {
	f.mu.Lock()
	return &inMemoryTx{unlock: f.mu.Unlock}, nil
}

// --- Entry repo ---

type inMemoryEntryRepo struct {
	mu      sync.RWMutex
	entries []domain.LedgerEntry
}

func newInMemoryEntryRepo() *inMemoryEntryRepo { return &inMemoryEntryRepo{} }

func (r *inMemoryEntryRepo) CreateBatch(_ context.Context, _ pgx.Tx, entries []domain.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Emulates the unique idempotency-key constraint of the real store.
	if len(entries) > 0 {
		for _, e := range r.entries {
			if e.IdempotencyKey == entries[0].IdempotencyKey {
				return fmt.Errorf("duplicate idempotency key %q", e.IdempotencyKey)
			}
		}
	}
	r.entries = append(r.entries, entries...)
	return nil
}

func (r *inMemoryEntryRepo) GetBatchIDByIdempotencyKey(_ context.Context, key string) (*uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.IdempotencyKey == key {
			id := e.BatchID
			return &id, nil
		}
	}
	return nil, nil
}

func (r *inMemoryEntryRepo) GetBatchIDByIdempotencyKeyTx(ctx context.Context, _ pgx.Tx, key string) (*uuid.UUID, error) {
	return r.GetBatchIDByIdempotencyKey(ctx, key)
}

func (r *inMemoryEntryRepo) ListByBatch(_ context.Context, batchID uuid.UUID) ([]domain.LedgerEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.LedgerEntry
	for _, e := range r.entries {
		if e.BatchID == batchID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (r *inMemoryEntryRepo) ListBatchIDs(context.Context) ([]uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
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

func (r *inMemoryEntryRepo) AggregateDay(_ context.Context, _ pgx.Tx, day time.Time) (*ports.DayTotals, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
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

func (r *inMemoryEntryRepo) AggregateDayGroups(_ context.Context, _ pgx.Tx, day time.Time) ([]ports.DayGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
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

func (r *inMemoryEntryRepo) DistinctAccountsByDay(_ context.Context, day time.Time) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
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

func (r *inMemoryEntryRepo) SumBySeller(_ context.Context, sellerRef uuid.UUID) ([]ports.AccountBalance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
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

func (r *inMemoryEntryRepo) SumByAccount(_ context.Context, sellerRef uuid.UUID, account domain.Account) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
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

func (r *inMemoryEntryRepo) TrialBalance(_ context.Context, from, to time.Time) ([]ports.TrialBalanceRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
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

func (r *inMemoryEntryRepo) GlobalBalance(context.Context) ([]ports.AccountBalance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
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

// --- Snapshot repo ---

func snapKey(dateKey string, account domain.Account, sellerRef *uuid.UUID) string {
	if sellerRef == nil {
		return dateKey + "|" + string(account) + "|"
	}
	return dateKey + "|" + string(account) + "|" + sellerRef.String()
}

type inMemorySnapshotRepo struct {
	mu    sync.RWMutex
	snaps map[string]*domain.LedgerSnapshot
}

func newInMemorySnapshotRepo() *inMemorySnapshotRepo {
	return &inMemorySnapshotRepo{snaps: map[string]*domain.LedgerSnapshot{}}
}

func (r *inMemorySnapshotRepo) Upsert(_ context.Context, _ pgx.Tx, s *domain.LedgerSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.snaps[snapKey(s.DateKey, s.Account, s.SellerRef)] = &cp
	return nil
}

func (r *inMemorySnapshotRepo) GetByKey(_ context.Context, dateKey string, account domain.Account, sellerRef *uuid.UUID) (*domain.LedgerSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.snaps[snapKey(dateKey, account, sellerRef)]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *inMemorySnapshotRepo) ListByDate(_ context.Context, dateKey string) ([]domain.LedgerSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.LedgerSnapshot
	for _, s := range r.snaps {
		if s.DateKey == dateKey {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *inMemorySnapshotRepo) ListAccountsByDate(_ context.Context, dateKey string) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
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

func (r *inMemorySnapshotRepo) ListReleasable(_ context.Context, dateKey string) ([]domain.LedgerSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.LedgerSnapshot
	for _, s := range r.snaps {
		if s.DateKey == dateKey && s.Account == domain.AccountSellerLiability &&
			!s.Locked && s.SellerRef != nil && s.Balance.IsNegative() {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *inMemorySnapshotRepo) UpdateDivergence(_ context.Context, dateKey string, account domain.Account, sellerRef *uuid.UUID, divergence decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.snaps[snapKey(dateKey, account, sellerRef)]
	if !ok {
		return fmt.Errorf("snapshot not found: %s/%s", dateKey, account)
	}
	s.Divergence = divergence
	return nil
}

func (r *inMemorySnapshotRepo) SetLockedByDate(_ context.Context, dateKey string, locked bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.snaps {
		if s.DateKey == dateKey {
			s.Locked = locked
			n++
		}
	}
	return n, nil
}

func (r *inMemorySnapshotRepo) AdjustBalance(_ context.Context, dateKey string, account domain.Account, sellerRef *uuid.UUID, delta decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.snaps[snapKey(dateKey, account, sellerRef)]
	if !ok {
		return fmt.Errorf("snapshot not found: %s/%s", dateKey, account)
	}
	s.Balance = s.Balance.Add(delta)
	return nil
}

// --- Batch repo ---

type inMemoryBatchRepo struct {
	mu      sync.Mutex
	batches map[string]*domain.LedgerBatch
}

func newInMemoryBatchRepo() *inMemoryBatchRepo {
	return &inMemoryBatchRepo{batches: map[string]*domain.LedgerBatch{}}
}

func (r *inMemoryBatchRepo) Create(_ context.Context, _ pgx.Tx, b *domain.LedgerBatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.batches[b.DateKey]; ok {
		return domain.ErrDateAlreadyClosed
	}
	cp := *b
	r.batches[b.DateKey] = &cp
	return nil
}

func (r *inMemoryBatchRepo) GetByDate(_ context.Context, dateKey string) (*domain.LedgerBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.batches[dateKey]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

// --- Cashout repo ---

type inMemoryCashoutRepo struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*domain.CashoutRequest
}

func newInMemoryCashoutRepo() *inMemoryCashoutRepo {
	return &inMemoryCashoutRepo{requests: map[uuid.UUID]*domain.CashoutRequest{}}
}

func (r *inMemoryCashoutRepo) Create(_ context.Context, c *domain.CashoutRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.requests[c.ID] = &cp
	return nil
}

func (r *inMemoryCashoutRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.CashoutRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.requests[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *inMemoryCashoutRepo) ListBySeller(_ context.Context, sellerRef uuid.UUID) ([]domain.CashoutRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.CashoutRequest
	for _, c := range r.requests {
		if c.SellerRef == sellerRef {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *inMemoryCashoutRepo) ListAwaitingConfirmation(_ context.Context, olderThan time.Time) ([]domain.CashoutRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.CashoutRequest
	for _, c := range r.requests {
		if c.AwaitingBankConfirmation() && c.CreatedAt.Before(olderThan) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *inMemoryCashoutRepo) UpdateDecision(_ context.Context, c *domain.CashoutRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[c.ID]; !ok {
		return fmt.Errorf("cashout request not found: %s", c.ID)
	}
	cp := *c
	r.requests[c.ID] = &cp
	return nil
}

func (r *inMemoryCashoutRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.CashoutStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.requests[id]
	if !ok {
		return fmt.Errorf("cashout request not found: %s", id)
	}
	c.Status = status
	return nil
}

// --- Wallet repo ---

type inMemoryWalletRepo struct {
	mu      sync.Mutex
	wallets map[uuid.UUID]*domain.Wallet
	funds   map[uuid.UUID]*domain.UnavailableFund
	ops     []domain.WalletOperation
}

func newInMemoryWalletRepo() *inMemoryWalletRepo {
	return &inMemoryWalletRepo{
		wallets: map[uuid.UUID]*domain.Wallet{},
		funds:   map[uuid.UUID]*domain.UnavailableFund{},
	}
}

func (r *inMemoryWalletRepo) Create(_ context.Context, w *domain.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *w
	r.wallets[w.SellerRef] = &cp
	return nil
}

func (r *inMemoryWalletRepo) GetBySeller(_ context.Context, sellerRef uuid.UUID) (*domain.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.wallets[sellerRef]; ok {
		cp := *w
		return &cp, nil
	}
	return nil, nil
}

func (r *inMemoryWalletRepo) GetBySellerForUpdate(ctx context.Context, _ pgx.Tx, sellerRef uuid.UUID) (*domain.Wallet, error) {
	return r.GetBySeller(ctx, sellerRef)
}

func (r *inMemoryWalletRepo) UpdateAvailable(_ context.Context, _ pgx.Tx, sellerRef uuid.UUID, available decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[sellerRef]
	if !ok {
		return fmt.Errorf("wallet not found: %s", sellerRef)
	}
	w.Available = available
	return nil
}

func (r *inMemoryWalletRepo) AddUnavailableFund(_ context.Context, _ pgx.Tx, f *domain.UnavailableFund) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *f
	r.funds[f.ID] = &cp
	return nil
}

func (r *inMemoryWalletRepo) ListMaturedFunds(_ context.Context, now time.Time) ([]domain.UnavailableFund, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.UnavailableFund
	for _, f := range r.funds {
		if f.Matured(now) {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *inMemoryWalletRepo) ListUnavailableFunds(_ context.Context, sellerRef uuid.UUID) ([]domain.UnavailableFund, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.UnavailableFund
	for _, f := range r.funds {
		if f.SellerRef == sellerRef && !f.Released {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *inMemoryWalletRepo) MarkFundReleased(_ context.Context, _ pgx.Tx, fundID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.funds[fundID]
	if !ok || f.Released {
		return fmt.Errorf("unavailable fund not found or already released: %s", fundID)
	}
	f.Released = true
	return nil
}

func (r *inMemoryWalletRepo) AppendOperation(_ context.Context, _ pgx.Tx, op *domain.WalletOperation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, *op)
	return nil
}

func (r *inMemoryWalletRepo) ListOperations(_ context.Context, sellerRef uuid.UUID, limit int) ([]domain.WalletOperation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.WalletOperation
	for i := len(r.ops) - 1; i >= 0 && len(out) < limit; i-- {
		if r.ops[i].SellerRef == sellerRef {
			out = append(out, r.ops[i])
		}
	}
	return out, nil
}

// --- Policy repo ---

type inMemoryPolicyRepo struct {
	mu       sync.Mutex
	policies []domain.RetentionPolicy
}

func (r *inMemoryPolicyRepo) Create(_ context.Context, p *domain.RetentionPolicy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.policies = append(r.policies, *p)
	return nil
}

func (r *inMemoryPolicyRepo) GetActive(_ context.Context, method domain.PaymentMethod, risk domain.RiskLevel) (*domain.RetentionPolicy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
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

// --- Audit repo ---

type inMemoryAuditRepo struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (r *inMemoryAuditRepo) Create(_ context.Context, ev *domain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *ev)
	return nil
}

func (r *inMemoryAuditRepo) ListByDate(_ context.Context, dateKey string) ([]domain.AuditEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.AuditEvent
	for _, ev := range r.events {
		if ev.DateKey == dateKey {
			out = append(out, ev)
		}
	}
	return out, nil
}

// --- Statement source stub ---

type staticStatementSource struct {
	mu         sync.Mutex
	statements map[string][]ports.StatementRow
}

func newStaticStatementSource() *staticStatementSource {
	return &staticStatementSource{statements: map[string][]ports.StatementRow{}}
}

func (s *staticStatementSource) set(dateKey string, rows []ports.StatementRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statements[dateKey] = rows
}

func (s *staticStatementSource) FetchStatement(_ context.Context, dateKey string) ([]ports.StatementRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.statements[dateKey]
	if !ok {
		return nil, fmt.Errorf("no statement for %s", dateKey)
	}
	return rows, nil
}

// --- Transfer feed stub ---

type staticTransferFeed struct {
	mu        sync.Mutex
	transfers []ports.BankTransfer
}

func (f *staticTransferFeed) add(t ports.BankTransfer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transfers = append(f.transfers, t)
}

func (f *staticTransferFeed) ListTransfers(context.Context, time.Time, time.Time) ([]ports.BankTransfer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ports.BankTransfer(nil), f.transfers...), nil
}
