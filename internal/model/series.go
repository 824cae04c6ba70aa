package model

import (
	"sort"
	"time"
)

// SeriesPoint is a single dated observation in a per-ticker time series:
// a closing price for price series, a per-share amount for dividend series.
type SeriesPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// SeriesSet maps a ticker to its observations sorted ascending by date.
// Dates need not be contiguous (no trading on weekends/holidays) and the
// tickers present need not cover every holding.
type SeriesSet map[string][]SeriesPoint

// Tickers returns the set of tickers present, sorted for deterministic output.
func (s SeriesSet) Tickers() []string {
	tickers := make([]string, 0, len(s))
	for ticker := range s {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)
	return tickers
}
