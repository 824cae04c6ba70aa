package handlers

import (
	"errors"
	"net/http"

	"github.com/rferraz/Wallet-Analytics-Backend/internal/api/response"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/apperrors"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/model"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/service"
)

// WalletHandler handles wallet analytics HTTP requests. Every endpoint
// recomputes its snapshot from current inputs; there is no cached state.
type WalletHandler struct {
	walletService *service.WalletService
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(walletService *service.WalletService) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

// Wallet returns the full snapshot: enriched holding rows, KPIs, aggregate
// curves and recorded warnings.
//
// Endpoint: GET /api/wallet
func (h *WalletHandler) Wallet(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.snapshot(w)
	if !ok {
		return
	}
	response.RespondJSON(w, http.StatusOK, snapshot)
}

// SummaryResponse is the KPI subset of a snapshot.
type SummaryResponse struct {
	AsOf              string          `json:"asOf"`
	TotalEquity       float64         `json:"totalEquity"`
	AbsoluteReturnPct float64         `json:"absoluteReturnPct"`
	PortfolioCAGRPct  float64         `json:"portfolioCagrPct"`
	MaxDrawdownPct    float64         `json:"maxDrawdownPct"`
	Holdings          int             `json:"holdings"`
	Warnings          []model.Warning `json:"warnings"`
}

// Summary returns the scalar portfolio KPIs together with the warnings of
// the run that produced them.
//
// Endpoint: GET /api/wallet/summary
func (h *WalletHandler) Summary(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.snapshot(w)
	if !ok {
		return
	}

	response.RespondJSON(w, http.StatusOK, SummaryResponse{
		AsOf:              snapshot.AsOf.Format("2006-01-02"),
		TotalEquity:       snapshot.KPIs.TotalEquity,
		AbsoluteReturnPct: snapshot.KPIs.AbsoluteReturnPct,
		PortfolioCAGRPct:  snapshot.KPIs.PortfolioCAGRPct,
		MaxDrawdownPct:    snapshot.KPIs.MaxDrawdownPct,
		Holdings:          len(snapshot.Rows),
		Warnings:          snapshot.Warnings,
	})
}

// Equity returns the portfolio equity curve.
//
// Endpoint: GET /api/wallet/equity
func (h *WalletHandler) Equity(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.snapshot(w)
	if !ok {
		return
	}
	response.RespondJSON(w, http.StatusOK, snapshot.EquityCurve)
}

// Drawdown returns the portfolio drawdown curve.
//
// Endpoint: GET /api/wallet/drawdown
func (h *WalletHandler) Drawdown(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.snapshot(w)
	if !ok {
		return
	}
	response.RespondJSON(w, http.StatusOK, snapshot.DrawdownCurve)
}

// Performance returns the normalized return curve per ticker, rebased to
// each asset's first observation.
//
// Endpoint: GET /api/wallet/performance
func (h *WalletHandler) Performance(w http.ResponseWriter, r *http.Request) {
	series, err := h.walletService.Performance()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to build performance curves", err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, series)
}

// snapshot builds a snapshot and writes the error response itself when the
// run fails. Unusable holdings are the caller's fault; everything else is a
// server-side failure.
func (h *WalletHandler) snapshot(w http.ResponseWriter) (model.WalletSnapshot, bool) {
	snapshot, err := h.walletService.Snapshot()
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, apperrors.ErrNoHoldings) || errors.Is(err, apperrors.ErrHoldingsFileUnreadable) {
			status = http.StatusUnprocessableEntity
		}
		response.RespondError(w, status, "failed to build wallet snapshot", err.Error())
		return model.WalletSnapshot{}, false
	}
	return snapshot, true
}
