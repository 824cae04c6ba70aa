package handlers

import (
	"net/http"

	"github.com/rferraz/Wallet-Analytics-Backend/internal/api/response"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/refresh"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/service"
)

// RefreshHandler triggers on-demand market-data refreshes.
type RefreshHandler struct {
	refresher     *refresh.Refresher
	walletService *service.WalletService
}

// NewRefreshHandler creates a new RefreshHandler
func NewRefreshHandler(refresher *refresh.Refresher, walletService *service.WalletService) *RefreshHandler {
	return &RefreshHandler{
		refresher:     refresher,
		walletService: walletService,
	}
}

// Refresh fetches fresh price and dividend history for every holding and
// waits for completion before responding, so a follow-up snapshot request
// sees the new data.
//
// Endpoint: POST /api/refresh
func (h *RefreshHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.walletService.Holdings()
	if err != nil {
		response.RespondError(w, http.StatusUnprocessableEntity, "failed to load holdings", err.Error())
		return
	}

	if err := h.refresher.RefreshAll(r.Context(), holdings); err != nil {
		response.RespondError(w, http.StatusInternalServerError, "refresh failed", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]int{"tickers": len(holdings)})
}
