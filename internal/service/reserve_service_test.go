package service

import (
	"context"
	"testing"
	"time"

	"ledger-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reserveFixture struct {
	svc        *ReserveServiceImpl
	policyRepo *memPolicyRepo
	walletRepo *memWalletRepo
}

func newReserveFixture() *reserveFixture {
	policyRepo := &memPolicyRepo{}
	walletRepo := newMemWalletRepo()
	svc := NewReserveService(policyRepo, walletRepo, &fakeTransactor{},
		decimal.RequireFromString("5.0"), zerolog.Nop())
	return &reserveFixture{svc: svc, policyRepo: policyRepo, walletRepo: walletRepo}
}

func TestComputeReserve(t *testing.T) {
	f := newReserveFixture()

	assert.Equal(t, "5.00", f.svc.ComputeReserve(decimal.RequireFromString("100.00")).StringFixed(2))
	assert.Equal(t, "0.50", f.svc.ComputeReserve(decimal.RequireFromString("10.00")).StringFixed(2))
	assert.Equal(t, "0.05", f.svc.ComputeReserve(decimal.RequireFromString("0.99")).StringFixed(2))
}

func TestComputeRetention_ActivePolicyWins(t *testing.T) {
	f := newReserveFixture()
	require.NoError(t, f.policyRepo.Create(context.Background(), &domain.RetentionPolicy{
		ID:         uuid.New(),
		Method:     domain.MethodCard,
		RiskLevel:  domain.RiskLow,
		Percentage: decimal.RequireFromString("10.0"),
		HoldDays:   15,
		Active:     true,
		CreatedAt:  time.Now().UTC(),
	}))

	decision, err := f.svc.ComputeRetention(context.Background(), domain.MethodCard, domain.RiskLow, decimal.RequireFromString("95.00"))
	require.NoError(t, err)
	assert.Equal(t, "9.50", decision.RetentionAmount.StringFixed(2))
	assert.Equal(t, "10.0", decision.PercentageApplied.String())
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, 15), decision.AvailableIn, time.Minute)
}

func TestComputeRetention_InactivePolicyIgnored(t *testing.T) {
	f := newReserveFixture()
	require.NoError(t, f.policyRepo.Create(context.Background(), &domain.RetentionPolicy{
		ID:         uuid.New(),
		Method:     domain.MethodInstant,
		RiskLevel:  domain.RiskLow,
		Percentage: decimal.RequireFromString("50.0"),
		HoldDays:   10,
		Active:     false,
		CreatedAt:  time.Now().UTC(),
	}))

	decision, err := f.svc.ComputeRetention(context.Background(), domain.MethodInstant, domain.RiskLow, decimal.RequireFromString("95.00"))
	require.NoError(t, err)
	assert.True(t, decision.RetentionAmount.IsZero())
}

func TestComputeRetention_InstantDefaultReleasesImmediately(t *testing.T) {
	f := newReserveFixture()

	decision, err := f.svc.ComputeRetention(context.Background(), domain.MethodInstant, domain.RiskHigh, decimal.RequireFromString("95.00"))
	require.NoError(t, err)
	assert.True(t, decision.RetentionAmount.IsZero())
	assert.True(t, decision.PercentageApplied.IsZero())
}

func TestComputeRetention_CardDefaultHoldsFullNet(t *testing.T) {
	f := newReserveFixture()

	decision, err := f.svc.ComputeRetention(context.Background(), domain.MethodCard, domain.RiskMedium, decimal.RequireFromString("95.00"))
	require.NoError(t, err)
	assert.Equal(t, "95.00", decision.RetentionAmount.StringFixed(2))
	assert.Equal(t, "100", decision.PercentageApplied.String())
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, 30), decision.AvailableIn, time.Minute)
}

func TestComputeRetention_SlipDefaultHoldsTwoDays(t *testing.T) {
	f := newReserveFixture()

	decision, err := f.svc.ComputeRetention(context.Background(), domain.MethodSlip, domain.RiskLow, decimal.RequireFromString("50.00"))
	require.NoError(t, err)
	assert.Equal(t, "50.00", decision.RetentionAmount.StringFixed(2))
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, 2), decision.AvailableIn, time.Minute)
}

func TestComputeRetention_UnknownMethod(t *testing.T) {
	f := newReserveFixture()

	_, err := f.svc.ComputeRetention(context.Background(), "wire", domain.RiskLow, decimal.RequireFromString("95.00"))
	assertAppCode(t, err, "LED_001")
}

func TestReleaseMaturedFunds(t *testing.T) {
	f := newReserveFixture()
	seller := uuid.New()
	now := time.Now().UTC()
	require.NoError(t, f.walletRepo.Create(context.Background(), &domain.Wallet{
		SellerRef: seller, Available: decimal.RequireFromString("10.00"), CreatedAt: now, UpdatedAt: now,
	}))

	matured := &domain.UnavailableFund{
		ID: uuid.New(), SellerRef: seller,
		Amount:      decimal.RequireFromString("95.00"),
		AvailableIn: now.Add(-time.Hour),
		OriginRef:   "SALE-1",
		CreatedAt:   now.AddDate(0, 0, -30),
	}
	pending := &domain.UnavailableFund{
		ID: uuid.New(), SellerRef: seller,
		Amount:      decimal.RequireFromString("20.00"),
		AvailableIn: now.Add(24 * time.Hour),
		OriginRef:   "SALE-2",
		CreatedAt:   now,
	}
	require.NoError(t, f.walletRepo.AddUnavailableFund(context.Background(), nil, matured))
	require.NoError(t, f.walletRepo.AddUnavailableFund(context.Background(), nil, pending))

	report, err := f.svc.ReleaseMaturedFunds(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, report.Succeeded)

	wallet, err := f.walletRepo.GetBySeller(context.Background(), seller)
	require.NoError(t, err)
	assert.Equal(t, "105.00", wallet.Available.StringFixed(2))

	remaining, err := f.walletRepo.ListUnavailableFunds(context.Background(), seller)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, pending.ID, remaining[0].ID)

	require.Len(t, f.walletRepo.ops, 1)
	assert.Equal(t, domain.WalletOpRelease, f.walletRepo.ops[0].Type)
	assert.Equal(t, "SALE-1", f.walletRepo.ops[0].Ref)
}

func TestReleaseMaturedFunds_RerunIsNoop(t *testing.T) {
	f := newReserveFixture()
	seller := uuid.New()
	now := time.Now().UTC()
	require.NoError(t, f.walletRepo.Create(context.Background(), &domain.Wallet{SellerRef: seller, Available: decimal.Zero}))
	require.NoError(t, f.walletRepo.AddUnavailableFund(context.Background(), nil, &domain.UnavailableFund{
		ID: uuid.New(), SellerRef: seller,
		Amount:      decimal.RequireFromString("95.00"),
		AvailableIn: now.Add(-time.Hour),
		OriginRef:   "SALE-1",
	}))

	_, err := f.svc.ReleaseMaturedFunds(context.Background(), now)
	require.NoError(t, err)
	report, err := f.svc.ReleaseMaturedFunds(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, report.Processed)

	wallet, err := f.walletRepo.GetBySeller(context.Background(), seller)
	require.NoError(t, err)
	assert.Equal(t, "95.00", wallet.Available.StringFixed(2))
}

func TestReleaseMaturedFunds_ItemFailureIsolated(t *testing.T) {
	f := newReserveFixture()
	good, bad := uuid.New(), uuid.New()
	now := time.Now().UTC()
	require.NoError(t, f.walletRepo.Create(context.Background(), &domain.Wallet{SellerRef: good, Available: decimal.Zero}))
	require.NoError(t, f.walletRepo.Create(context.Background(), &domain.Wallet{SellerRef: bad, Available: decimal.Zero}))
	require.NoError(t, f.walletRepo.AddUnavailableFund(context.Background(), nil, &domain.UnavailableFund{
		ID: uuid.New(), SellerRef: good, Amount: decimal.RequireFromString("10.00"), AvailableIn: now.Add(-time.Hour),
	}))
	require.NoError(t, f.walletRepo.AddUnavailableFund(context.Background(), nil, &domain.UnavailableFund{
		ID: uuid.New(), SellerRef: bad, Amount: decimal.RequireFromString("20.00"), AvailableIn: now.Add(-time.Hour),
	}))
	f.walletRepo.failSeller = bad

	report, err := f.svc.ReleaseMaturedFunds(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Failed)

	wallet, err := f.walletRepo.GetBySeller(context.Background(), good)
	require.NoError(t, err)
	assert.Equal(t, "10.00", wallet.Available.StringFixed(2))
}
