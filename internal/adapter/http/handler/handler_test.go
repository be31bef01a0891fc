package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ledger-gateway/internal/adapter/http/dto"
	"ledger-gateway/internal/adapter/http/middleware"
	"ledger-gateway/internal/core/domain"
	"ledger-gateway/internal/core/ports"
	"ledger-gateway/internal/core/ports/mocks"
	"ledger-gateway/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func jsonRequest(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	c.Request = httptest.NewRequest(method, path, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	return w, c
}

func asPrincipal(c *gin.Context, id uuid.UUID, role string) {
	c.Set(middleware.CtxPrincipalID, id)
	c.Set(middleware.CtxRole, role)
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "missing data envelope: %s", w.Body.String())
	return data
}

// --- Ledger Handler Tests ---

func TestPostBatch_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPoster := mocks.NewMockLedgerPoster(ctrl)
	h := NewLedgerHandler(mockPoster, nil)

	batchID := uuid.New()
	mockPoster.EXPECT().Post(gomock.Any(), gomock.Len(2), gomock.Any()).
		DoAndReturn(func(_ context.Context, intents []domain.PostingIntent, pctx domain.PostContext) (uuid.UUID, bool, error) {
			assert.Equal(t, domain.AccountCash, intents[0].Account)
			assert.Equal(t, "sale:TX-1", pctx.IdempotencyKey)
			assert.Equal(t, "BRL", pctx.Currency)
			return batchID, false, nil
		})

	w, c := jsonRequest(t, http.MethodPost, "/api/v1/ledger/batches", dto.PostBatchRequest{
		IdempotencyKey: "sale:TX-1",
		TransactionRef: "TX-1",
		SourceSystem:   "checkout",
		Currency:       "BRL",
		Entries: []dto.PostingEntry{
			{Account: "cash", Type: "debit", Amount: "100.00"},
			{Account: "seller_liability", Type: "credit", Amount: "100.00"},
		},
	})
	h.PostBatch(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, batchID.String(), data["batch_id"])
	assert.Equal(t, false, data["replayed"])
}

func TestPostBatch_ReplayReturns200(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPoster := mocks.NewMockLedgerPoster(ctrl)
	h := NewLedgerHandler(mockPoster, nil)

	batchID := uuid.New()
	mockPoster.EXPECT().Post(gomock.Any(), gomock.Any(), gomock.Any()).Return(batchID, true, nil)

	w, c := jsonRequest(t, http.MethodPost, "/", dto.PostBatchRequest{
		IdempotencyKey: "sale:TX-1",
		TransactionRef: "TX-1",
		SourceSystem:   "checkout",
		Currency:       "BRL",
		Entries: []dto.PostingEntry{
			{Account: "cash", Type: "debit", Amount: "100.00"},
			{Account: "seller_liability", Type: "credit", Amount: "100.00"},
		},
	})
	h.PostBatch(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, true, data["replayed"])
}

func TestPostBatch_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewLedgerHandler(mocks.NewMockLedgerPoster(ctrl), nil)

	// Single entry fails the min=2 binding rule before the service is hit.
	w, c := jsonRequest(t, http.MethodPost, "/", dto.PostBatchRequest{
		IdempotencyKey: "sale:TX-1",
		TransactionRef: "TX-1",
		SourceSystem:   "checkout",
		Currency:       "BRL",
		Entries: []dto.PostingEntry{
			{Account: "cash", Type: "debit", Amount: "100.00"},
		},
	})
	h.PostBatch(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "LED_001")
}

func TestPostBatch_UnknownAccountRejectedByBinding(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewLedgerHandler(mocks.NewMockLedgerPoster(ctrl), nil)

	w, c := jsonRequest(t, http.MethodPost, "/", dto.PostBatchRequest{
		IdempotencyKey: "sale:TX-1",
		TransactionRef: "TX-1",
		SourceSystem:   "checkout",
		Currency:       "BRL",
		Entries: []dto.PostingEntry{
			{Account: "mystery", Type: "debit", Amount: "100.00"},
			{Account: "cash", Type: "credit", Amount: "100.00"},
		},
	})
	h.PostBatch(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSellerBalances_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockBalances := mocks.NewMockBalanceReader(ctrl)
	h := NewLedgerHandler(nil, mockBalances)

	sellerRef := uuid.New()
	mockBalances.EXPECT().GetBalanceBySeller(gomock.Any(), sellerRef).Return([]ports.AccountBalance{
		{Account: domain.AccountSellerLiability, Balance: decimal.RequireFromString("-95")},
	}, nil)

	w, c := jsonRequest(t, http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "seller_ref", Value: sellerRef.String()}}
	asPrincipal(c, sellerRef, middleware.RoleSeller)
	h.GetSellerBalances(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "-95.00")
}

func TestGetSellerBalances_ForbiddenForOtherSeller(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewLedgerHandler(nil, mocks.NewMockBalanceReader(ctrl))

	w, c := jsonRequest(t, http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "seller_ref", Value: uuid.New().String()}}
	asPrincipal(c, uuid.New(), middleware.RoleSeller)
	h.GetSellerBalances(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_002")
}

func TestGetTrialBalance_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockBalances := mocks.NewMockBalanceReader(ctrl)
	h := NewLedgerHandler(nil, mockBalances)

	mockBalances.EXPECT().GetTrialBalance(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, from, to time.Time) ([]ports.TrialBalanceRow, error) {
			// The "to" day is included in full.
			assert.Equal(t, 48*time.Hour, to.Sub(from))
			return []ports.TrialBalanceRow{
				{
					Account:     domain.AccountCash,
					TotalDebit:  decimal.RequireFromString("100"),
					TotalCredit: decimal.Zero,
					Balance:     decimal.RequireFromString("100"),
				},
			}, nil
		})

	w, c := jsonRequest(t, http.MethodGet, "/api/v1/balances/trial?from=2026-08-27&to=2026-08-28", nil)
	h.GetTrialBalance(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "100.00", data["total_debit"])
}

func TestGetTrialBalance_BadRange(t *testing.T) {
	h := NewLedgerHandler(nil, nil)

	w, c := jsonRequest(t, http.MethodGet, "/api/v1/balances/trial?from=notadate&to=2026-08-28", nil)
	h.GetTrialBalance(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Sale Handler Tests ---

func TestCreateSale_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSale := mocks.NewMockSaleService(ctrl)
	h := NewSaleHandler(mockSale)

	sellerRef := uuid.New()
	batchID := uuid.New()
	mockSale.EXPECT().CreateSale(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req ports.SaleRequest) (*ports.SaleResult, error) {
			assert.True(t, req.Amount.Equal(decimal.RequireFromString("100.00")))
			assert.Equal(t, domain.MethodInstant, req.Method)
			assert.Equal(t, sellerRef, req.SellerRef)
			return &ports.SaleResult{
				TransactionRef: "TX-1",
				BatchID:        batchID,
				NetAmount:      decimal.RequireFromString("95.00"),
				ReserveAmount:  decimal.RequireFromString("5.00"),
			}, nil
		})

	w, c := jsonRequest(t, http.MethodPost, "/api/v1/sales", dto.SaleCreateRequest{
		Amount:    "100.00",
		Method:    "instant",
		SellerRef: sellerRef.String(),
	})
	asPrincipal(c, sellerRef, middleware.RoleSeller)
	h.CreateSale(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "95.00", data["net_amount"])
	assert.Equal(t, "5.00", data["reserve_amount"])
	assert.NotContains(t, w.Body.String(), "retained_amount")
}

func TestCreateSale_RetentionIncluded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSale := mocks.NewMockSaleService(ctrl)
	h := NewSaleHandler(mockSale)

	sellerRef := uuid.New()
	availableIn := time.Date(2026, 9, 27, 0, 0, 0, 0, time.UTC)
	mockSale.EXPECT().CreateSale(gomock.Any(), gomock.Any()).Return(&ports.SaleResult{
		TransactionRef: "TX-2",
		BatchID:        uuid.New(),
		NetAmount:      decimal.RequireFromString("95.00"),
		ReserveAmount:  decimal.RequireFromString("5.00"),
		Retention: &domain.RetentionDecision{
			RetentionAmount:   decimal.RequireFromString("9.50"),
			PercentageApplied: decimal.RequireFromString("10"),
			AvailableIn:       availableIn,
		},
	}, nil)

	w, c := jsonRequest(t, http.MethodPost, "/", dto.SaleCreateRequest{
		Amount:    "100.00",
		Method:    "card",
		SellerRef: sellerRef.String(),
	})
	asPrincipal(c, sellerRef, middleware.RoleSeller)
	h.CreateSale(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "9.50", data["retained_amount"])
	assert.Equal(t, "10", data["retained_percent"])
}

func TestCreateSale_ForbiddenForOtherSeller(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewSaleHandler(mocks.NewMockSaleService(ctrl))

	w, c := jsonRequest(t, http.MethodPost, "/", dto.SaleCreateRequest{
		Amount:    "100.00",
		Method:    "instant",
		SellerRef: uuid.New().String(),
	})
	asPrincipal(c, uuid.New(), middleware.RoleSeller)
	h.CreateSale(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateSale_UnknownMethodRejectedByBinding(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewSaleHandler(mocks.NewMockSaleService(ctrl))

	w, c := jsonRequest(t, http.MethodPost, "/", dto.SaleCreateRequest{
		Amount:    "100.00",
		Method:    "wire",
		SellerRef: uuid.New().String(),
	})
	h.CreateSale(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Cashout Handler Tests ---

func TestCreateCashout_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCashout := mocks.NewMockCashoutService(ctrl)
	h := NewCashoutHandler(mockCashout)

	sellerRef := uuid.New()
	now := time.Now().UTC()
	mockCashout.EXPECT().CreateCashout(gomock.Any(), sellerRef, gomock.Any(), gomock.Nil()).
		Return(&domain.CashoutRequest{
			ID:        uuid.New(),
			SellerRef: sellerRef,
			Amount:    decimal.RequireFromString("40.00"),
			Status:    domain.CashoutStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}, nil)

	w, c := jsonRequest(t, http.MethodPost, "/api/v1/cashouts", dto.CashoutCreateRequest{Amount: "40.00"})
	asPrincipal(c, sellerRef, middleware.RoleSeller)
	h.CreateCashout(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, "40.00", data["amount"])
}

func TestCreateCashout_InsufficientBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCashout := mocks.NewMockCashoutService(ctrl)
	h := NewCashoutHandler(mockCashout)

	sellerRef := uuid.New()
	mockCashout.EXPECT().CreateCashout(gomock.Any(), sellerRef, gomock.Any(), gomock.Nil()).
		Return(nil, apperror.ErrInsufficientBalance())

	w, c := jsonRequest(t, http.MethodPost, "/", dto.CashoutCreateRequest{Amount: "9999.00"})
	asPrincipal(c, sellerRef, middleware.RoleSeller)
	h.CreateCashout(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "LED_020")
}

func TestDecideCashout_Approve(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCashout := mocks.NewMockCashoutService(ctrl)
	h := NewCashoutHandler(mockCashout)

	id := uuid.New()
	adminID := uuid.New()
	mockCashout.EXPECT().Decide(gomock.Any(), id, ports.CashoutDecision{Approve: true, DecidedBy: adminID}).
		Return(&domain.CashoutRequest{
			ID:        id,
			SellerRef: uuid.New(),
			Amount:    decimal.RequireFromString("40.00"),
			Status:    domain.CashoutStatusApproved,
		}, nil)

	w, c := jsonRequest(t, http.MethodPost, "/", dto.CashoutDecisionRequest{Approve: true})
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	asPrincipal(c, adminID, middleware.RoleAdmin)
	h.DecideCashout(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "approved", data["status"])
}

func TestListCashouts_AdminOverride(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCashout := mocks.NewMockCashoutService(ctrl)
	h := NewCashoutHandler(mockCashout)

	target := uuid.New()
	mockCashout.EXPECT().ListBySeller(gomock.Any(), target).Return([]domain.CashoutRequest{}, nil)

	w, c := jsonRequest(t, http.MethodGet, "/api/v1/cashouts?seller_ref="+target.String(), nil)
	asPrincipal(c, uuid.New(), middleware.RoleAdmin)
	h.ListCashouts(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListCashouts_SellerCannotOverride(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewCashoutHandler(mocks.NewMockCashoutService(ctrl))

	w, c := jsonRequest(t, http.MethodGet, "/api/v1/cashouts?seller_ref="+uuid.New().String(), nil)
	asPrincipal(c, uuid.New(), middleware.RoleSeller)
	h.ListCashouts(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

// --- Wallet Handler Tests ---

func TestGetWallet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletReader(ctrl)
	h := NewWalletHandler(mockWallet, "BRL")

	sellerRef := uuid.New()
	mockWallet.EXPECT().GetWallet(gomock.Any(), sellerRef).Return(
		&domain.Wallet{SellerRef: sellerRef, Available: decimal.RequireFromString("95.00")},
		[]domain.UnavailableFund{
			{Amount: decimal.RequireFromString("9.50"), OriginRef: "TX-2", AvailableIn: time.Now().Add(30 * 24 * time.Hour)},
		},
		nil,
	)

	w, c := jsonRequest(t, http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "seller_ref", Value: sellerRef.String()}}
	asPrincipal(c, sellerRef, middleware.RoleSeller)
	h.GetWallet(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "95.00", data["available_balance"])
	assert.Equal(t, "BRL", data["currency"])
	pending := data["pending_funds"].([]interface{})
	require.Len(t, pending, 1)
}

func TestGetWallet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletReader(ctrl)
	h := NewWalletHandler(mockWallet, "BRL")

	sellerRef := uuid.New()
	mockWallet.EXPECT().GetWallet(gomock.Any(), sellerRef).Return(nil, nil, apperror.ErrNotFound("Wallet"))

	w, c := jsonRequest(t, http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "seller_ref", Value: sellerRef.String()}}
	asPrincipal(c, sellerRef, middleware.RoleSeller)
	h.GetWallet(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// --- Admin Handler Tests ---

func newAdminHandler(t *testing.T) (*AdminHandler, *mocks.MockBatchCloser, *mocks.MockReconciler, *mocks.MockSettlementEngine) {
	t.Helper()
	ctrl := gomock.NewController(t)
	closer := mocks.NewMockBatchCloser(ctrl)
	reconciler := mocks.NewMockReconciler(ctrl)
	settlement := mocks.NewMockSettlementEngine(ctrl)
	h := NewAdminHandler(
		closer, mocks.NewMockIntegrityAuditor(ctrl), reconciler, settlement,
		mocks.NewMockReserveCalculator(ctrl), mocks.NewMockSnapshotExporter(ctrl), nil,
		t.TempDir(), 2,
	)
	return h, closer, reconciler, settlement
}

func TestCloseDay_Success(t *testing.T) {
	h, closer, _, _ := newAdminHandler(t)

	batchID := uuid.New()
	closer.EXPECT().CloseDailyBatch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, date time.Time) (*domain.LedgerBatch, bool, error) {
			assert.Equal(t, "2026-08-28", domain.DateKeyOf(date))
			return &domain.LedgerBatch{DateKey: "2026-08-28", BatchID: batchID, Closed: true}, false, nil
		})

	w, c := jsonRequest(t, http.MethodPost, "/api/v1/admin/close", dto.DateKeyRequest{DateKey: "2026-08-28"})
	h.CloseDay(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, batchID.String(), data["batch_id"])
	assert.Equal(t, false, data["noop"])
}

func TestCloseDay_ConcurrentCloseReportsWinner(t *testing.T) {
	h, closer, _, _ := newAdminHandler(t)

	// A closer losing the unique-constraint race yields the winner's record
	// with noop=true; the endpoint must report it, not crash.
	winnerID := uuid.New()
	closer.EXPECT().CloseDailyBatch(gomock.Any(), gomock.Any()).
		Return(&domain.LedgerBatch{DateKey: "2026-08-28", BatchID: winnerID, Closed: true}, true, nil)

	w, c := jsonRequest(t, http.MethodPost, "/api/v1/admin/close", dto.DateKeyRequest{DateKey: "2026-08-28"})
	h.CloseDay(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, winnerID.String(), data["batch_id"])
	assert.Equal(t, true, data["noop"])
}

func TestCloseDay_BadDateKey(t *testing.T) {
	h, _, _, _ := newAdminHandler(t)

	w, c := jsonRequest(t, http.MethodPost, "/", dto.DateKeyRequest{DateKey: "28/08/2026"})
	h.CloseDay(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReconcileFile_Success(t *testing.T) {
	h, _, reconciler, _ := newAdminHandler(t)

	reconciler.EXPECT().Reconcile(gomock.Any(), "2026-08-28", gomock.Len(1)).
		DoAndReturn(func(_ context.Context, dateKey string, statement []ports.StatementRow) (*ports.ReconciliationResult, error) {
			assert.Equal(t, domain.AccountCash, statement[0].Account)
			assert.True(t, statement[0].Balance.Equal(decimal.RequireFromString("100.00")))
			return &ports.ReconciliationResult{DateKey: dateKey, Matched: 1}, nil
		})

	w, c := jsonRequest(t, http.MethodPost, "/", dto.ReconcileFileRequest{
		DateKey: "2026-08-28",
		Statement: []dto.StatementRow{
			{Account: "cash", Balance: "100.00"},
		},
	})
	h.ReconcileFile(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"matched":1`)
}

func TestReconcileRemote_DivergenceLocked(t *testing.T) {
	h, _, reconciler, _ := newAdminHandler(t)

	reconciler.EXPECT().ReconcileRemote(gomock.Any(), "2026-08-28").
		Return(nil, apperror.ErrDivergenceLocked("2026-08-28"))

	w, c := jsonRequest(t, http.MethodPost, "/", dto.DateKeyRequest{DateKey: "2026-08-28"})
	h.ReconcileRemote(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "REC_001")
}

func TestSettleDayPlusTwo_CutoffFromConfig(t *testing.T) {
	h, _, _, settlement := newAdminHandler(t)

	settlement.EXPECT().ConfirmDayPlusTwo(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cutoff time.Time) (*ports.SettlementRunReport, error) {
			age := time.Since(cutoff)
			assert.InDelta(t, (48 * time.Hour).Seconds(), age.Seconds(), 60)
			return &ports.SettlementRunReport{Processed: 0}, nil
		})

	w, c := jsonRequest(t, http.MethodPost, "/", nil)
	h.SettleDayPlusTwo(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSettleDayPlusOne_ServiceError(t *testing.T) {
	h, _, _, settlement := newAdminHandler(t)

	settlement.EXPECT().ReleaseDayPlusOne(gomock.Any(), "2026-08-28").
		Return(nil, errors.New("database offline"))

	w, c := jsonRequest(t, http.MethodPost, "/", dto.DateKeyRequest{DateKey: "2026-08-28"})
	h.SettleDayPlusOne(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// --- Health Check Tests ---

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Ping(context.Context) error { return s.err }
func (s stubChecker) Name() string               { return s.name }

func TestHealthCheck_AllHealthy(t *testing.T) {
	w, c := jsonRequest(t, http.MethodGet, "/health", nil)
	HealthCheck(stubChecker{name: "postgres"}, stubChecker{name: "redis"})(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
}

func TestHealthCheck_Degraded(t *testing.T) {
	w, c := jsonRequest(t, http.MethodGet, "/health", nil)
	HealthCheck(stubChecker{name: "postgres"}, stubChecker{name: "redis", err: errors.New("connection refused")})(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
	assert.Contains(t, w.Body.String(), "connection refused")
}
