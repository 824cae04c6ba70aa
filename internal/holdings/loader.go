// Package holdings loads and validates the holdings file that declares the
// portfolio positions to analyze.
package holdings

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rferraz/Wallet-Analytics-Backend/internal/apperrors"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/model"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/validation"
)

// Load reads a holdings JSON file (an array of {ticker, shares, price,
// first_acquisition} objects) and returns the validated holdings.
//
// Malformed rows are skipped and reported as warnings; an unreadable or
// undecodable file, or a file from which no holding survives validation, is a
// hard failure. Holdings keep their file order.
func Load(path string, today time.Time) ([]model.Holding, []model.Warning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrHoldingsFileUnreadable, err)
	}
	return Parse(data, today)
}

// Parse decodes and validates holdings from raw JSON. See Load.
func Parse(data []byte, today time.Time) ([]model.Holding, []model.Warning, error) {
	var records []validation.HoldingRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrHoldingsFileUnreadable, err)
	}

	var holdings []model.Holding
	var warnings []model.Warning
	for _, rec := range records {
		acquired, err := validation.ValidateHolding(rec, today)
		if err != nil {
			warnings = append(warnings, model.Warning{
				Ticker:  rec.Ticker,
				Code:    model.WarningMalformedDate,
				Message: fmt.Sprintf("holding skipped: %v", err),
			})
			continue
		}
		holdings = append(holdings, model.Holding{
			Ticker:           rec.Ticker,
			Shares:           rec.Shares,
			AcquisitionPrice: rec.Price,
			AcquisitionDate:  acquired,
		})
	}

	if len(holdings) == 0 {
		return nil, warnings, apperrors.ErrNoHoldings
	}
	return holdings, warnings, nil
}
