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

type cashoutFixture struct {
	svc         *CashoutServiceImpl
	cashoutRepo *memCashoutRepo
	walletRepo  *memWalletRepo
}

func newCashoutFixture(t *testing.T, seller uuid.UUID, available string) *cashoutFixture {
	t.Helper()
	cashoutRepo := newMemCashoutRepo()
	walletRepo := newMemWalletRepo()
	require.NoError(t, walletRepo.Create(context.Background(), &domain.Wallet{
		SellerRef: seller,
		Available: decimal.RequireFromString(available),
	}))
	svc := NewCashoutService(cashoutRepo, walletRepo, &fakeTransactor{}, zerolog.Nop())
	return &cashoutFixture{svc: svc, cashoutRepo: cashoutRepo, walletRepo: walletRepo}
}

func TestCreateCashout(t *testing.T) {
	seller := uuid.New()
	f := newCashoutFixture(t, seller, "100.00")

	req, err := f.svc.CreateCashout(context.Background(), seller, decimal.RequireFromString("40.00"), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.CashoutStatusPending, req.Status)
	assert.Equal(t, "40.00", req.Amount.StringFixed(2))

	wallet, err := f.walletRepo.GetBySeller(context.Background(), seller)
	require.NoError(t, err)
	assert.Equal(t, "60.00", wallet.Available.StringFixed(2))

	require.Len(t, f.walletRepo.ops, 1)
	assert.Equal(t, domain.WalletOpDebit, f.walletRepo.ops[0].Type)
	assert.Equal(t, "cashout:"+req.ID.String(), f.walletRepo.ops[0].Ref)
}

func TestCreateCashout_InsufficientBalance(t *testing.T) {
	seller := uuid.New()
	f := newCashoutFixture(t, seller, "100.00")

	_, err := f.svc.CreateCashout(context.Background(), seller, decimal.RequireFromString("100.01"), nil)
	assertAppCode(t, err, "LED_020")

	wallet, err := f.walletRepo.GetBySeller(context.Background(), seller)
	require.NoError(t, err)
	assert.Equal(t, "100.00", wallet.Available.StringFixed(2))
	assert.Empty(t, f.cashoutRepo.requests)
}

func TestCreateCashout_NoWallet(t *testing.T) {
	f := newCashoutFixture(t, uuid.New(), "100.00")

	_, err := f.svc.CreateCashout(context.Background(), uuid.New(), decimal.RequireFromString("10.00"), nil)
	assertAppCode(t, err, "LED_020")
}

func TestCreateCashout_NonPositiveAmount(t *testing.T) {
	seller := uuid.New()
	f := newCashoutFixture(t, seller, "100.00")

	_, err := f.svc.CreateCashout(context.Background(), seller, decimal.Zero, nil)
	assertAppCode(t, err, "LED_021")
}

func TestDecide_Approve(t *testing.T) {
	seller := uuid.New()
	f := newCashoutFixture(t, seller, "100.00")
	req, err := f.svc.CreateCashout(context.Background(), seller, decimal.RequireFromString("40.00"), nil)
	require.NoError(t, err)

	admin := uuid.New()
	decided, err := f.svc.Decide(context.Background(), req.ID, ports.CashoutDecision{Approve: true, DecidedBy: admin})
	require.NoError(t, err)
	assert.Equal(t, domain.CashoutStatusApproved, decided.Status)
	require.NotNil(t, decided.ApprovedBy)
	assert.Equal(t, admin, *decided.ApprovedBy)
	assert.NotNil(t, decided.ApprovedAt)

	// Approval keeps the funds reserved for settlement.
	wallet, err := f.walletRepo.GetBySeller(context.Background(), seller)
	require.NoError(t, err)
	assert.Equal(t, "60.00", wallet.Available.StringFixed(2))
}

func TestDecide_RejectReturnsFunds(t *testing.T) {
	seller := uuid.New()
	f := newCashoutFixture(t, seller, "100.00")
	req, err := f.svc.CreateCashout(context.Background(), seller, decimal.RequireFromString("40.00"), nil)
	require.NoError(t, err)

	decided, err := f.svc.Decide(context.Background(), req.ID, ports.CashoutDecision{
		Approve:   false,
		DecidedBy: uuid.New(),
		Reason:    "bank account mismatch",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CashoutStatusRejected, decided.Status)
	require.NotNil(t, decided.RejectionReason)
	assert.Equal(t, "bank account mismatch", *decided.RejectionReason)

	wallet, err := f.walletRepo.GetBySeller(context.Background(), seller)
	require.NoError(t, err)
	assert.Equal(t, "100.00", wallet.Available.StringFixed(2))

	require.Len(t, f.walletRepo.ops, 2)
	assert.Equal(t, domain.WalletOpCredit, f.walletRepo.ops[1].Type)
	assert.Equal(t, "cashout:"+req.ID.String()+":returned", f.walletRepo.ops[1].Ref)
}

func TestDecide_NotActionable(t *testing.T) {
	seller := uuid.New()
	f := newCashoutFixture(t, seller, "100.00")
	req, err := f.svc.CreateCashout(context.Background(), seller, decimal.RequireFromString("40.00"), nil)
	require.NoError(t, err)
	require.NoError(t, f.cashoutRepo.UpdateStatus(context.Background(), req.ID, domain.CashoutStatusCompleted))

	_, err = f.svc.Decide(context.Background(), req.ID, ports.CashoutDecision{Approve: true, DecidedBy: uuid.New()})
	assertAppCode(t, err, "SET_002")
}

func TestDecide_NotFound(t *testing.T) {
	f := newCashoutFixture(t, uuid.New(), "100.00")

	_, err := f.svc.Decide(context.Background(), uuid.New(), ports.CashoutDecision{Approve: true, DecidedBy: uuid.New()})
	assertAppCode(t, err, "LED_022")
}

func TestListBySeller(t *testing.T) {
	seller := uuid.New()
	f := newCashoutFixture(t, seller, "100.00")
	_, err := f.svc.CreateCashout(context.Background(), seller, decimal.RequireFromString("10.00"), nil)
	require.NoError(t, err)
	_, err = f.svc.CreateCashout(context.Background(), seller, decimal.RequireFromString("20.00"), nil)
	require.NoError(t, err)

	list, err := f.svc.ListBySeller(context.Background(), seller)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
