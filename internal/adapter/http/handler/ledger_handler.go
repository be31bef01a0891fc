package handler

import (
	"time"

	"ledger-gateway/internal/adapter/http/dto"
	"ledger-gateway/internal/core/domain"
	"ledger-gateway/internal/core/ports"
	"ledger-gateway/pkg/apperror"
	"ledger-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerHandler exposes the raw posting endpoint and the balance reports.
type LedgerHandler struct {
	poster   ports.LedgerPoster
	balances ports.BalanceReader
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(poster ports.LedgerPoster, balances ports.BalanceReader) *LedgerHandler {
	return &LedgerHandler{poster: poster, balances: balances}
}

// PostBatch handles POST /api/v1/ledger/batches.
func (h *LedgerHandler) PostBatch(c *gin.Context) {
	var req dto.PostBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	intents := make([]domain.PostingIntent, 0, len(req.Entries))
	for _, e := range req.Entries {
		account, err := domain.ParseAccount(e.Account)
		if err != nil {
			response.Error(c, apperror.ErrUnknownAccount(e.Account))
			return
		}
		amount, err := decimal.NewFromString(e.Amount)
		if err != nil {
			response.Error(c, apperror.ErrInvalidAmount())
			return
		}
		intents = append(intents, domain.PostingIntent{
			Account: account,
			Type:    domain.EntryType(e.Type),
			Amount:  amount,
		})
	}

	pctx := domain.PostContext{
		IdempotencyKey: req.IdempotencyKey,
		TransactionRef: req.TransactionRef,
		SourceSystem:   req.SourceSystem,
		SourceDetail:   req.SourceDetail,
		Currency:       req.Currency,
	}
	if req.SellerRef != nil {
		id, err := uuid.Parse(*req.SellerRef)
		if err != nil {
			response.Error(c, apperror.Validation("seller_ref must be a UUID"))
			return
		}
		pctx.SellerRef = &id
	}
	if req.EventAt != nil {
		at, err := time.Parse(time.RFC3339, *req.EventAt)
		if err != nil {
			response.Error(c, apperror.Validation("event_at must be RFC3339"))
			return
		}
		pctx.EventAt = &at
	}

	batchID, replayed, err := h.poster.Post(c.Request.Context(), intents, pctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.PostBatchResponse{
		BatchID:  batchID.String(),
		Replayed: replayed,
		Entries:  len(intents),
	}
	if replayed {
		response.OK(c, resp)
		return
	}
	response.Created(c, resp)
}

// GetSellerBalances handles GET /api/v1/balances/sellers/:seller_ref.
func (h *LedgerHandler) GetSellerBalances(c *gin.Context) {
	sellerRef, ok := sellerRefParam(c)
	if !ok {
		return
	}

	balances, err := h.balances.GetBalanceBySeller(c.Request.Context(), sellerRef)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toBalanceResponses(balances))
}

// GetSellerAccountBalance handles
// GET /api/v1/balances/sellers/:seller_ref/accounts/:account.
func (h *LedgerHandler) GetSellerAccountBalance(c *gin.Context) {
	sellerRef, ok := sellerRefParam(c)
	if !ok {
		return
	}
	account, err := domain.ParseAccount(c.Param("account"))
	if err != nil {
		response.Error(c, apperror.ErrUnknownAccount(c.Param("account")))
		return
	}

	balance, err := h.balances.GetBalanceByAccount(c.Request.Context(), sellerRef, account)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.AccountBalanceResponse{
		Account: account.String(),
		Balance: balance.StringFixed(2),
	})
}

// GetTrialBalance handles GET /api/v1/balances/trial?from=...&to=...
func (h *LedgerHandler) GetTrialBalance(c *gin.Context) {
	from, err := domain.ParseDateKey(c.Query("from"))
	if err != nil {
		response.Error(c, apperror.Validation("from must be a YYYY-MM-DD date key"))
		return
	}
	to, err := domain.ParseDateKey(c.Query("to"))
	if err != nil {
		response.Error(c, apperror.Validation("to must be a YYYY-MM-DD date key"))
		return
	}
	// The range is inclusive of the whole "to" day.
	to = to.Add(24 * time.Hour)

	rows, err := h.balances.GetTrialBalance(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.TrialBalanceResponse{
		From: c.Query("from"),
		To:   c.Query("to"),
		Rows: make([]dto.TrialBalanceRowResponse, 0, len(rows)),
	}
	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for _, r := range rows {
		resp.Rows = append(resp.Rows, dto.TrialBalanceRowResponse{
			Account: r.Account.String(),
			Debit:   r.TotalDebit.StringFixed(2),
			Credit:  r.TotalCredit.StringFixed(2),
			Balance: r.Balance.StringFixed(2),
		})
		totalDebit = totalDebit.Add(r.TotalDebit)
		totalCredit = totalCredit.Add(r.TotalCredit)
	}
	resp.TotalDebit = totalDebit.StringFixed(2)
	resp.TotalCredit = totalCredit.StringFixed(2)
	response.OK(c, resp)
}

// GetGlobalBalance handles GET /api/v1/balances/global.
func (h *LedgerHandler) GetGlobalBalance(c *gin.Context) {
	balances, err := h.balances.GetGlobalBalance(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toBalanceResponses(balances))
}

func toBalanceResponses(balances []ports.AccountBalance) []dto.AccountBalanceResponse {
	out := make([]dto.AccountBalanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, dto.AccountBalanceResponse{
			Account: b.Account.String(),
			Balance: b.Balance.StringFixed(2),
		})
	}
	return out
}

// sellerRefParam parses the :seller_ref path param and, for seller
// principals, enforces that it matches the authenticated principal.
func sellerRefParam(c *gin.Context) (uuid.UUID, bool) {
	sellerRef, err := uuid.Parse(c.Param("seller_ref"))
	if err != nil {
		response.Error(c, apperror.Validation("seller_ref must be a UUID"))
		return uuid.Nil, false
	}
	if !principalMaySee(c, sellerRef) {
		response.Error(c, apperror.ErrForbiddenRole())
		return uuid.Nil, false
	}
	return sellerRef, true
}
