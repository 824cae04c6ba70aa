package service

import (
	"io"

	"github.com/rferraz/Wallet-Analytics-Backend/internal/csvtable"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/model"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/repository"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/timeseries"
)

// ImportService ingests wide CSV tables (Date column plus one column per
// ticker) into the stored series, for backfilling history from a previous
// export or another tool.
type ImportService struct {
	seriesRepo *repository.SeriesRepository
}

// NewImportService creates a new ImportService.
func NewImportService(seriesRepo *repository.SeriesRepository) *ImportService {
	return &ImportService{seriesRepo: seriesRepo}
}

// ImportPrices reads a price table and upserts every valid observation.
// Returns the number of stored points and the warnings for dropped rows.
func (s *ImportService) ImportPrices(r io.Reader) (int, []model.Warning, error) {
	return s.importTable(r, s.seriesRepo.UpsertPricePoints)
}

// ImportDividends reads a dividend table and upserts every valid payment.
func (s *ImportService) ImportDividends(r io.Reader) (int, []model.Warning, error) {
	return s.importTable(r, s.seriesRepo.UpsertDividendPoints)
}

func (s *ImportService) importTable(r io.Reader, upsert func(string, []model.SeriesPoint) error) (int, []model.Warning, error) {
	raw, err := csvtable.Read(r)
	if err != nil {
		return 0, nil, err
	}

	table, warnings := timeseries.Align(raw, csvtable.DateColumn)

	count := 0
	set := table.ToSeriesSet()
	for _, ticker := range set.Tickers() {
		points := set[ticker]
		if err := upsert(ticker, points); err != nil {
			return count, warnings, err
		}
		count += len(points)
	}
	return count, warnings, nil
}
