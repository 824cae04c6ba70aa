package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/rferraz/Wallet-Analytics-Backend/internal/model"
)

// SeriesRepository provides data access for the price_point and
// dividend_point tables: the persisted per-ticker daily series the refresher
// writes and the engine reads.
type SeriesRepository struct {
	db *sql.DB
}

// NewSeriesRepository creates a new SeriesRepository with the provided
// database connection.
func NewSeriesRepository(db *sql.DB) *SeriesRepository {
	return &SeriesRepository{db: db}
}

// UpsertPricePoints stores daily closing prices for a ticker, replacing any
// existing observation on the same date. The batch is applied in one
// transaction so a failed refresh never leaves a half-written series.
func (r *SeriesRepository) UpsertPricePoints(ticker string, points []model.SeriesPoint) error {
	return r.upsertPoints("price_point", "close", ticker, points)
}

// UpsertDividendPoints stores per-share dividend payments for a ticker,
// replacing any existing payment on the same date.
func (r *SeriesRepository) UpsertDividendPoints(ticker string, points []model.SeriesPoint) error {
	return r.upsertPoints("dividend_point", "amount", ticker, points)
}

func (r *SeriesRepository) upsertPoints(table, valueColumn, ticker string, points []model.SeriesPoint) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	//nolint:gosec // G201: table and column names come from the two callers above, not from input.
	query := fmt.Sprintf(`
		INSERT INTO %s (id, ticker, date, %s)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (ticker, date) DO UPDATE SET %s = excluded.%s
	`, table, valueColumn, valueColumn, valueColumn)

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, point := range points {
		if _, err := stmt.Exec(uuid.New().String(), ticker, point.Date.Format(dateFormat), point.Value); err != nil {
			return fmt.Errorf("failed to upsert %s for %s: %w", table, ticker, err)
		}
	}

	return tx.Commit()
}

// GetPriceSeries loads every stored closing price, grouped by ticker and
// sorted ascending by date. Returns an empty set when nothing is stored.
func (r *SeriesRepository) GetPriceSeries() (model.SeriesSet, error) {
	return r.getSeries("price_point", "close")
}

// GetDividendSeries loads every stored dividend payment, grouped by ticker
// and sorted ascending by date.
func (r *SeriesRepository) GetDividendSeries() (model.SeriesSet, error) {
	return r.getSeries("dividend_point", "amount")
}

func (r *SeriesRepository) getSeries(table, valueColumn string) (model.SeriesSet, error) {
	//nolint:gosec // G201: table and column names come from the two callers above, not from input.
	query := fmt.Sprintf(`
		SELECT ticker, date, %s
		FROM %s
		ORDER BY ticker, date
	`, valueColumn, table)

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s table: %w", table, err)
	}
	defer rows.Close()

	set := model.SeriesSet{}
	for rows.Next() {
		var ticker, dateStr string
		var value float64
		if err := rows.Scan(&ticker, &dateStr, &value); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		date, err := ParseTime(dateStr)
		if err != nil {
			return nil, err
		}
		set[ticker] = append(set[ticker], model.SeriesPoint{Date: date, Value: value})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s rows: %w", table, err)
	}

	return set, nil
}
