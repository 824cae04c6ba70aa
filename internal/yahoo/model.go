package yahoo

import (
	"time"

	"github.com/rferraz/Wallet-Analytics-Backend/internal/model"
)

// Response represents the raw JSON response structure from the Yahoo Finance
// chart API. Close prices use pointers because Yahoo reports halted days as
// nulls, and dividend events arrive as a map keyed by event timestamp.
type Response struct {
	Chart Chart `json:"chart"`
}

// Chart is the top-level payload of a chart response.
type Chart struct {
	Result []Result `json:"result"`
	Error  *string  `json:"error"`
}

// Result holds one symbol's metadata, timestamps, quotes and events.
type Result struct {
	Meta struct {
		Currency string `json:"currency"`
		Symbol   string `json:"symbol"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
	Events struct {
		Dividends map[string]DividendEvent `json:"dividends"`
	} `json:"events"`
}

// DividendEvent is one per-share dividend payment reported by Yahoo.
type DividendEvent struct {
	Amount float64 `json:"amount"`
	Date   int64   `json:"date"`
}

// History is the parsed, application-facing form of a chart response:
// the daily closing prices and per-share dividend payments for one symbol,
// both sorted ascending by date.
type History struct {
	Symbol    string
	Currency  string
	Closes    []model.SeriesPoint
	Dividends []model.SeriesPoint
}

func seriesPoint(date time.Time, value float64) model.SeriesPoint {
	return model.SeriesPoint{Date: date, Value: value}
}

// day truncates a Unix timestamp to midnight UTC.
func day(ts int64) time.Time {
	t := time.Unix(ts, 0).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
