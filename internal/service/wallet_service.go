package service

import (
	"time"

	"github.com/rferraz/Wallet-Analytics-Backend/internal/engine"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/holdings"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/model"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/repository"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/timeseries"
)

// WalletService materializes the engine's inputs and runs analytics over
// them. It is the seam between storage (holdings file, series repository)
// and the pure computation in the engine package: every request recomputes
// the snapshot in full from current inputs.
type WalletService struct {
	engine       *engine.Engine
	seriesRepo   *repository.SeriesRepository
	holdingsPath string
	now          func() time.Time // injected for deterministic tests
}

// NewWalletService creates a new WalletService reading holdings from the
// given file path.
func NewWalletService(analyticsEngine *engine.Engine, seriesRepo *repository.SeriesRepository, holdingsPath string) *WalletService {
	return &WalletService{
		engine:       analyticsEngine,
		seriesRepo:   seriesRepo,
		holdingsPath: holdingsPath,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Holdings loads and validates the current holdings file.
func (s *WalletService) Holdings() ([]model.Holding, error) {
	loaded, _, err := holdings.Load(s.holdingsPath, s.now())
	return loaded, err
}

// Snapshot builds a full wallet snapshot from the holdings file and the
// stored price/dividend series. Warnings from holdings parsing are merged
// with the warnings the engine records during computation.
func (s *WalletService) Snapshot() (model.WalletSnapshot, error) {
	now := s.now()

	loaded, loadWarnings, err := holdings.Load(s.holdingsPath, now)
	if err != nil {
		return model.WalletSnapshot{}, err
	}

	prices, dividends, err := s.loadTables()
	if err != nil {
		return model.WalletSnapshot{}, err
	}

	snapshot, err := s.engine.BuildSnapshot(loaded, prices, dividends, now)
	if err != nil {
		return model.WalletSnapshot{}, err
	}

	snapshot.Warnings = append(loadWarnings, snapshot.Warnings...)
	return snapshot, nil
}

// Performance returns the normalized multi-asset return curves over the
// stored price series.
func (s *WalletService) Performance() ([]model.PerformanceSeries, error) {
	prices, _, err := s.loadTables()
	if err != nil {
		return nil, err
	}
	return s.engine.PerformanceCurves(prices), nil
}

func (s *WalletService) loadTables() (timeseries.Table, timeseries.Table, error) {
	priceSet, err := s.seriesRepo.GetPriceSeries()
	if err != nil {
		return timeseries.Table{}, timeseries.Table{}, err
	}
	dividendSet, err := s.seriesRepo.GetDividendSeries()
	if err != nil {
		return timeseries.Table{}, timeseries.Table{}, err
	}
	return timeseries.FromSeriesSet(priceSet), timeseries.FromSeriesSet(dividendSet), nil
}
