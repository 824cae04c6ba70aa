package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rferraz/Wallet-Analytics-Backend/internal/model"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/timeseries"
)

// Date builds a midnight-UTC calendar date. Keeps test fixtures terse.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// MakeHolding creates a test holding with sensible defaults.
func MakeHolding(ticker string, shares, price float64, acquired time.Time) model.Holding {
	return model.Holding{
		Ticker:           ticker,
		Shares:           shares,
		AcquisitionPrice: price,
		AcquisitionDate:  acquired,
	}
}

// Points converts alternating (day offsets from start, values) into a series.
func Points(start time.Time, pairs ...float64) []model.SeriesPoint {
	if len(pairs)%2 != 0 {
		panic("Points requires offset/value pairs")
	}
	points := make([]model.SeriesPoint, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		points = append(points, model.SeriesPoint{
			Date:  start.AddDate(0, 0, int(pairs[i])),
			Value: pairs[i+1],
		})
	}
	return points
}

// MakeTable builds an aligned table from per-ticker series.
func MakeTable(set model.SeriesSet) timeseries.Table {
	return timeseries.FromSeriesSet(set)
}

// WriteHoldingsFile writes holdings JSON to a temp file and returns its path.
// The file is removed when the test completes.
func WriteHoldingsFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "portfolio.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write holdings file: %v", err)
	}
	return path
}
