package handler

import (
	"ledger-gateway/internal/adapter/http/dto"
	"ledger-gateway/internal/adapter/http/middleware"
	"ledger-gateway/internal/core/domain"
	"ledger-gateway/internal/core/ports"
	"ledger-gateway/pkg/apperror"
	"ledger-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashoutHandler handles cashout creation, the manual decision and listing.
type CashoutHandler struct {
	cashoutSvc ports.CashoutService
}

// NewCashoutHandler creates a new CashoutHandler.
func NewCashoutHandler(cashoutSvc ports.CashoutService) *CashoutHandler {
	return &CashoutHandler{cashoutSvc: cashoutSvc}
}

// CreateCashout handles POST /api/v1/cashouts. The seller is always the
// authenticated principal.
func (h *CashoutHandler) CreateCashout(c *gin.Context) {
	sellerRef, ok := middleware.PrincipalID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.CashoutCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	cashout, err := h.cashoutSvc.CreateCashout(c.Request.Context(), sellerRef, amount, req.BankAccountRef)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toCashoutResponse(cashout))
}

// DecideCashout handles POST /api/v1/cashouts/:id/decision (admin only).
func (h *CashoutHandler) DecideCashout(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("id must be a UUID"))
		return
	}
	decidedBy, ok := middleware.PrincipalID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.CashoutDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	cashout, err := h.cashoutSvc.Decide(c.Request.Context(), id, ports.CashoutDecision{
		Approve:   req.Approve,
		DecidedBy: decidedBy,
		Reason:    req.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toCashoutResponse(cashout))
}

// ListCashouts handles GET /api/v1/cashouts. Sellers list their own
// requests; admins may pass ?seller_ref= to inspect any seller.
func (h *CashoutHandler) ListCashouts(c *gin.Context) {
	sellerRef, ok := middleware.PrincipalID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	if raw := c.Query("seller_ref"); raw != "" {
		override, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, apperror.Validation("seller_ref must be a UUID"))
			return
		}
		if !principalMaySee(c, override) {
			response.Error(c, apperror.ErrForbiddenRole())
			return
		}
		sellerRef = override
	}

	cashouts, err := h.cashoutSvc.ListBySeller(c.Request.Context(), sellerRef)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.CashoutResponse, 0, len(cashouts))
	for i := range cashouts {
		out = append(out, toCashoutResponse(&cashouts[i]))
	}
	response.OK(c, out)
}

func toCashoutResponse(cashout *domain.CashoutRequest) dto.CashoutResponse {
	return dto.CashoutResponse{
		ID:             cashout.ID.String(),
		SellerRef:      cashout.SellerRef.String(),
		Amount:         cashout.Amount.StringFixed(2),
		Status:         string(cashout.Status),
		BankAccountRef: cashout.BankAccountRef,
		CreatedAt:      cashout.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:      cashout.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
