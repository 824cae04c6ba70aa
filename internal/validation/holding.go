package validation

import (
	"time"

	"github.com/rferraz/Wallet-Analytics-Backend/internal/timeseries"
)

// HoldingRecord is one raw row of the holdings file, before validation.
type HoldingRecord struct {
	Ticker           string  `json:"ticker"`
	Shares           float64 `json:"shares"`
	Price            float64 `json:"price"`
	FirstAcquisition string  `json:"first_acquisition"`
}

// ValidateHolding checks a raw holdings row against the holding invariants:
// non-empty ticker, positive share count, positive acquisition price and a
// parseable acquisition date no later than today. It returns the parsed
// acquisition date on success.
func ValidateHolding(rec HoldingRecord, today time.Time) (time.Time, error) {
	errs := make(map[string]string)

	if rec.Ticker == "" {
		errs["ticker"] = "ticker is required"
	}
	if rec.Shares <= 0 {
		errs["shares"] = "shares must be positive"
	}
	if rec.Price <= 0 {
		errs["price"] = "price must be positive"
	}

	acquired, err := timeseries.ParseDate(rec.FirstAcquisition)
	if err != nil {
		errs["first_acquisition"] = "not a valid date"
	} else if acquired.After(today) {
		errs["first_acquisition"] = "acquisition date is in the future"
	}

	if len(errs) > 0 {
		return time.Time{}, &Error{Fields: errs}
	}
	return acquired, nil
}
