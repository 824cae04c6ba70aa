// Package csvtable reads and writes the wide, date-keyed CSV tables used to
// persist price and dividend history: a Date column followed by one numeric
// column per ticker, with empty cells for missing observations.
package csvtable

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rferraz/Wallet-Analytics-Backend/internal/apperrors"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/timeseries"
)

// DateColumn is the header of the date column in persisted tables.
const DateColumn = "Date"

// Read parses a wide CSV table into raw rows ready for timeseries.Align.
// The header must start with the Date column and carry at least one ticker
// column.
func Read(r io.Reader) (timeseries.Raw, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return timeseries.Raw{}, fmt.Errorf("failed to read CSV table: %w", err)
	}
	if len(records) == 0 || len(records[0]) < 2 || records[0][0] != DateColumn {
		return timeseries.Raw{}, apperrors.ErrInvalidCSVHeaders
	}

	return timeseries.Raw{Header: records[0], Rows: records[1:]}, nil
}

// ReadFile reads a wide CSV table from disk. See Read.
func ReadFile(path string) (timeseries.Raw, error) {
	f, err := os.Open(path)
	if err != nil {
		return timeseries.Raw{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Write serializes a table in the wide CSV format. Dates are written as
// YYYY-MM-DD and missing cells as empty strings, so a written table reads
// back to the same values.
func Write(w io.Writer, table timeseries.Table) error {
	writer := csv.NewWriter(w)

	header := append([]string{DateColumn}, table.Columns()...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i, date := range table.Dates() {
		record := make([]string, 0, len(header))
		record = append(record, date.Format("2006-01-02"))
		for _, ticker := range table.Columns() {
			v := table.Value(ticker, i)
			if math.IsNaN(v) {
				record = append(record, "")
				continue
			}
			record = append(record, strconv.FormatFloat(v, 'f', -1, 64))
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile writes a table to disk, creating the parent directory when
// needed. See Write.
func WriteFile(path string, table timeseries.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	return Write(f, table)
}
