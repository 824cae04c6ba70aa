package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rferraz/Wallet-Analytics-Backend/internal/api/response"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/model"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/repository"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/service"
)

// DeveloperHandler handles maintenance endpoints: CSV history imports and
// provider-token configuration.
type DeveloperHandler struct {
	importService *service.ImportService
	settingsRepo  *repository.SettingsRepository
}

// NewDeveloperHandler creates a new DeveloperHandler
func NewDeveloperHandler(importService *service.ImportService, settingsRepo *repository.SettingsRepository) *DeveloperHandler {
	return &DeveloperHandler{
		importService: importService,
		settingsRepo:  settingsRepo,
	}
}

// ImportResult reports how much of an uploaded table was stored.
type ImportResult struct {
	Imported int             `json:"imported"`
	Warnings []model.Warning `json:"warnings"`
}

// ImportPrices ingests a wide price CSV (Date column plus one column per
// ticker) from the request body.
//
// Endpoint: POST /api/developer/import/prices
func (h *DeveloperHandler) ImportPrices(w http.ResponseWriter, r *http.Request) {
	count, warnings, err := h.importService.ImportPrices(r.Body)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "failed to import prices", err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, ImportResult{Imported: count, Warnings: warnings})
}

// ImportDividends ingests a wide dividend CSV from the request body.
//
// Endpoint: POST /api/developer/import/dividends
func (h *DeveloperHandler) ImportDividends(w http.ResponseWriter, r *http.Request) {
	count, warnings, err := h.importService.ImportDividends(r.Body)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "failed to import dividends", err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, ImportResult{Imported: count, Warnings: warnings})
}

// ProviderTokenRequest carries the market-data provider API token.
type ProviderTokenRequest struct {
	Token string `json:"token"`
}

// SetProviderToken stores the provider API token, encrypted at rest.
//
// Endpoint: PUT /api/developer/provider-token
func (h *DeveloperHandler) SetProviderToken(w http.ResponseWriter, r *http.Request) {
	var req ProviderTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		response.RespondError(w, http.StatusBadRequest, "token is required", nil)
		return
	}

	if err := h.settingsRepo.SetProviderToken(req.Token); err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to store provider token", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
