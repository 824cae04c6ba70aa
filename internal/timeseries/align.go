package timeseries

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rferraz/Wallet-Analytics-Backend/internal/model"
)

// Raw is an unparsed tabular input: a header row plus string cells, as read
// from a delimited file or assembled by an importer.
type Raw struct {
	Header []string
	Rows   [][]string
}

// Align turns a raw table into a date-indexed Table. The named date column is
// parsed into calendar dates; rows with an unparseable date are dropped and
// recorded as warnings, not errors. Every other column is coerced to float64,
// with non-numeric cells becoming missing. Rows are sorted ascending by date;
// when two rows carry the same date the later row wins.
//
// Align does not fill gaps. Callers that need contiguous values (current
// price lookups, the equity curve) apply ForwardFill; dividend tables stay
// sparse so that sums and last-payment lookups only see real payments.
func Align(raw Raw, dateColumn string) (Table, []model.Warning) {
	dateIdx := -1
	for i, name := range raw.Header {
		if name == dateColumn {
			dateIdx = i
			break
		}
	}
	if dateIdx < 0 {
		return Table{}, []model.Warning{{
			Code:    model.WarningMalformedDate,
			Message: fmt.Sprintf("date column %q not found", dateColumn),
		}}
	}

	var order []string
	for i, name := range raw.Header {
		if i != dateIdx {
			order = append(order, name)
		}
	}

	type parsedRow struct {
		date  time.Time
		cells []float64
	}

	var warnings []model.Warning
	var rows []parsedRow
	for _, cells := range raw.Rows {
		if len(cells) != len(raw.Header) {
			continue
		}
		date, err := ParseDate(cells[dateIdx])
		if err != nil {
			warnings = append(warnings, model.Warning{
				Code:    model.WarningMalformedDate,
				Message: fmt.Sprintf("dropped row with unparseable date %q", cells[dateIdx]),
			})
			continue
		}
		values := make([]float64, 0, len(order))
		for i, cell := range cells {
			if i == dateIdx {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				v = math.NaN()
			}
			values = append(values, v)
		}
		rows = append(rows, parsedRow{date: date, cells: values})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].date.Before(rows[j].date) })

	// Collapse duplicate dates, keeping the later row.
	var dates []time.Time
	columns := make(map[string][]float64, len(order))
	for _, name := range order {
		columns[name] = nil
	}
	for _, row := range rows {
		if n := len(dates); n > 0 && dates[n-1].Equal(row.date) {
			for i, name := range order {
				columns[name][n-1] = row.cells[i]
			}
			continue
		}
		dates = append(dates, row.date)
		for i, name := range order {
			columns[name] = append(columns[name], row.cells[i])
		}
	}

	return Table{dates: dates, order: order, columns: columns}, warnings
}

// ForwardFill carries each column's last valid observation forward over
// missing cells. Cells before a column's first valid observation stay
// missing: no data is fabricated before a series starts.
func (t Table) ForwardFill() Table {
	columns := make(map[string][]float64, len(t.columns))
	for name, column := range t.columns {
		filled := make([]float64, len(column))
		last := math.NaN()
		for i, v := range column {
			if !math.IsNaN(v) {
				last = v
			}
			filled[i] = last
		}
		columns[name] = filled
	}
	return Table{dates: t.dates, order: t.order, columns: columns}
}

// FilterSince returns the rows dated strictly after start. A row dated
// exactly on start is excluded; this boundary decides which dividend
// payments count as received since an acquisition.
func (t Table) FilterSince(start time.Time) Table {
	from := sort.Search(len(t.dates), func(i int) bool { return t.dates[i].After(start) })
	dates := t.dates[from:]
	columns := make(map[string][]float64, len(t.columns))
	for name, column := range t.columns {
		columns[name] = column[from:]
	}
	return Table{dates: dates, order: t.order, columns: columns}
}

// NormalizeToFirstValid rebases every column to its own first valid
// observation, yielding percentage change from that baseline:
// value → (value/first − 1) × 100. Cells before the baseline, and columns
// with no valid observation, stay missing.
func (t Table) NormalizeToFirstValid() Table {
	columns := make(map[string][]float64, len(t.columns))
	for name, column := range t.columns {
		first := math.NaN()
		for _, v := range column {
			if !math.IsNaN(v) {
				first = v
				break
			}
		}
		rebased := make([]float64, len(column))
		for i, v := range column {
			if math.IsNaN(v) || math.IsNaN(first) || first == 0 {
				rebased[i] = math.NaN()
				continue
			}
			rebased[i] = (v/first - 1) * 100
		}
		columns[name] = rebased
	}
	return Table{dates: t.dates, order: t.order, columns: columns}
}

// ParseDate parses a calendar date in "2006-01-02" or RFC3339 form and
// truncates it to midnight UTC.
func ParseDate(str string) (time.Time, error) {
	str = strings.TrimSpace(str)
	parsed, err := time.Parse("2006-01-02", str)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date %q: %w", str, err)
		}
	}
	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), nil
}
