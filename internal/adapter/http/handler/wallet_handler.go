package handler

import (
	"ledger-gateway/internal/adapter/http/dto"
	"ledger-gateway/internal/core/ports"
	"ledger-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler exposes the seller-facing wallet view.
type WalletHandler struct {
	walletSvc ports.WalletReader
	currency  string
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletReader, currency string) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc, currency: currency}
}

// GetWallet handles GET /api/v1/sellers/:seller_ref/wallet.
func (h *WalletHandler) GetWallet(c *gin.Context) {
	sellerRef, ok := sellerRefParam(c)
	if !ok {
		return
	}

	wallet, funds, err := h.walletSvc.GetWallet(c.Request.Context(), sellerRef)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.WalletResponse{
		SellerRef:        wallet.SellerRef.String(),
		AvailableBalance: wallet.Available.StringFixed(2),
		Currency:         h.currency,
		PendingFunds:     make([]dto.WalletFundResponse, 0, len(funds)),
	}
	for _, f := range funds {
		resp.PendingFunds = append(resp.PendingFunds, dto.WalletFundResponse{
			Amount:      f.Amount.StringFixed(2),
			OriginRef:   f.OriginRef,
			AvailableIn: f.AvailableIn.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	response.OK(c, resp)
}
