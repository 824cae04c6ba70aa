package model

import "time"

// Holding represents one portfolio position as declared in the holdings file.
// A holding models a single acquisition: one ticker, one quantity, one price
// basis and one acquisition date. Lot-level accounting is out of scope.
type Holding struct {
	Ticker           string    `json:"ticker"`           // Unique symbol, key into the price/dividend tables
	Shares           float64   `json:"shares"`           // Number of shares owned, > 0
	AcquisitionPrice float64   `json:"price"`            // Price paid per share, > 0
	AcquisitionDate  time.Time `json:"firstAcquisition"` // Calendar date of acquisition, never in the future
}

// Invested returns the cost basis of the holding (shares × acquisition price).
func (h Holding) Invested() float64 {
	return h.Shares * h.AcquisitionPrice
}
