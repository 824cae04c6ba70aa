// Package timeseries provides the date-indexed table the analytics engine
// computes over, together with the alignment, filtering and normalization
// operations applied to raw price and dividend data before any metric is
// derived from it.
package timeseries

import (
	"math"
	"sort"
	"time"

	"github.com/rferraz/Wallet-Analytics-Backend/internal/model"
)

// Table is a date-indexed table with one float64 column per ticker.
// Dates are ascending and unique; math.NaN() marks a missing cell.
// Tables are immutable: every operation returns a new Table.
type Table struct {
	dates   []time.Time
	order   []string             // column names in insertion order
	columns map[string][]float64 // each slice has len(dates) entries
}

// NewTable builds a table from ascending unique dates and equally long
// columns. Column order follows the order slice.
func NewTable(dates []time.Time, order []string, columns map[string][]float64) Table {
	return Table{dates: dates, order: order, columns: columns}
}

// FromSeriesSet builds a table over the union of all dates in the set.
// Cells with no observation for a ticker are missing (NaN). Columns are
// ordered by ticker for deterministic output.
func FromSeriesSet(set model.SeriesSet) Table {
	seen := make(map[time.Time]bool)
	var dates []time.Time
	for _, points := range set {
		for _, p := range points {
			day := p.Date
			if !seen[day] {
				seen[day] = true
				dates = append(dates, day)
			}
		}
	}
	sortDates(dates)

	index := make(map[time.Time]int, len(dates))
	for i, d := range dates {
		index[d] = i
	}

	order := set.Tickers()
	columns := make(map[string][]float64, len(order))
	for _, ticker := range order {
		column := emptyColumn(len(dates))
		for _, p := range set[ticker] {
			column[index[p.Date]] = p.Value
		}
		columns[ticker] = column
	}

	return Table{dates: dates, order: order, columns: columns}
}

// Len returns the number of rows (dates) in the table.
func (t Table) Len() int { return len(t.dates) }

// Dates returns the table's date index in ascending order.
func (t Table) Dates() []time.Time { return t.dates }

// Columns returns the column names in table order.
func (t Table) Columns() []string { return t.order }

// HasColumn reports whether the table carries a column for the given name.
func (t Table) HasColumn(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// Value returns the cell for a column at row i. Missing cells are NaN.
// Unknown columns are entirely missing.
func (t Table) Value(name string, i int) float64 {
	column, ok := t.columns[name]
	if !ok {
		return math.NaN()
	}
	return column[i]
}

// LastObservation returns the most recent non-missing (date, value) pair of a
// column, or false if the column is unknown or has no valid observation.
func (t Table) LastObservation(name string) (model.SeriesPoint, bool) {
	column, ok := t.columns[name]
	if !ok {
		return model.SeriesPoint{}, false
	}
	for i := len(column) - 1; i >= 0; i-- {
		if !math.IsNaN(column[i]) {
			return model.SeriesPoint{Date: t.dates[i], Value: column[i]}, true
		}
	}
	return model.SeriesPoint{}, false
}

// ToSeriesSet converts the table back to per-ticker series, dropping missing
// cells. Inverse of FromSeriesSet for tables that were not filled.
func (t Table) ToSeriesSet() model.SeriesSet {
	set := model.SeriesSet{}
	for _, name := range t.order {
		for i, v := range t.columns[name] {
			if math.IsNaN(v) {
				continue
			}
			set[name] = append(set[name], model.SeriesPoint{Date: t.dates[i], Value: v})
		}
	}
	return set
}

// Sum totals a column with missing cells counted as zero.
// Unknown columns sum to zero.
func (t Table) Sum(name string) float64 {
	var total float64
	for _, v := range t.columns[name] {
		if !math.IsNaN(v) {
			total += v
		}
	}
	return total
}

func emptyColumn(n int) []float64 {
	column := make([]float64, n)
	for i := range column {
		column[i] = math.NaN()
	}
	return column
}

func sortDates(dates []time.Time) {
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
}
