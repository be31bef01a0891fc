package handler

import (
	"ledger-gateway/internal/adapter/http/dto"
	"ledger-gateway/internal/core/domain"
	"ledger-gateway/internal/core/ports"
	"ledger-gateway/pkg/apperror"
	"ledger-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleHandler handles the sale registration endpoint.
type SaleHandler struct {
	saleSvc ports.SaleService
}

// NewSaleHandler creates a new SaleHandler.
func NewSaleHandler(saleSvc ports.SaleService) *SaleHandler {
	return &SaleHandler{saleSvc: saleSvc}
}

// CreateSale handles POST /api/v1/sales.
func (h *SaleHandler) CreateSale(c *gin.Context) {
	var req dto.SaleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	sellerRef, err := uuid.Parse(req.SellerRef)
	if err != nil {
		response.Error(c, apperror.Validation("seller_ref must be a UUID"))
		return
	}
	if !principalMaySee(c, sellerRef) {
		response.Error(c, apperror.ErrForbiddenRole())
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	result, err := h.saleSvc.CreateSale(c.Request.Context(), ports.SaleRequest{
		Amount:      amount,
		Method:      domain.PaymentMethod(req.Method),
		Description: req.Description,
		ProductRef:  req.ProductRef,
		SellerRef:   sellerRef,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.SaleCreateResponse{
		TransactionRef: result.TransactionRef,
		BatchID:        result.BatchID.String(),
		NetAmount:      result.NetAmount.StringFixed(2),
		ReserveAmount:  result.ReserveAmount.StringFixed(2),
	}
	if result.Retention != nil && result.Retention.RetentionAmount.IsPositive() {
		retained := result.Retention.RetentionAmount.StringFixed(2)
		pct := result.Retention.PercentageApplied.String()
		availableIn := result.Retention.AvailableIn.UTC().Format("2006-01-02T15:04:05Z07:00")
		resp.RetainedAmount = &retained
		resp.RetainedPercent = &pct
		resp.AvailableIn = &availableIn
	}
	response.Created(c, resp)
}
