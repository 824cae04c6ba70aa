// Package refresh keeps the stored price and dividend series up to date with
// the market-data provider, on demand and on a cron cadence. Refreshing is a
// separate concern from analytics: the engine only ever sees materialized
// series, never the network.
package refresh

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/rferraz/Wallet-Analytics-Backend/internal/csvtable"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/model"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/repository"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/timeseries"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/yahoo"
)

// maxConcurrentFetches caps parallel provider requests so a large portfolio
// does not trip Yahoo's rate limiting.
const maxConcurrentFetches = 4

// Refresher fetches market data for the portfolio's tickers, persists it
// through the series repository and exports the aggregate CSV tables.
type Refresher struct {
	client     yahoo.Client
	seriesRepo *repository.SeriesRepository
	outputDir  string // aggregate CSV export directory, empty disables export
	scheduler  *cron.Cron
}

// NewRefresher creates a Refresher. outputDir may be empty to skip the CSV
// export step.
func NewRefresher(client yahoo.Client, seriesRepo *repository.SeriesRepository, outputDir string) *Refresher {
	return &Refresher{
		client:     client,
		seriesRepo: seriesRepo,
		outputDir:  outputDir,
	}
}

// RefreshAll fetches daily price history (from each holding's acquisition
// date through today) and the full dividend history for every holding's
// ticker, then persists the points and exports the aggregate tables.
//
// Tickers are fetched concurrently. A failing ticker is logged and skipped so
// one delisted symbol cannot starve the rest of the portfolio of fresh data;
// only storage and export failures are returned.
func (r *Refresher) RefreshAll(ctx context.Context, holdings []model.Holding) error {
	end := time.Now().UTC()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for _, holding := range holdings {
		holding := holding
		g.Go(func() error {
			history, err := r.fetchHistory(ctx, holding, end)
			if err != nil {
				log.Printf("refresh: skipping %s: %v", holding.Ticker, err)
				return nil
			}
			if err := r.seriesRepo.UpsertPricePoints(holding.Ticker, history.Closes); err != nil {
				return err
			}
			return r.seriesRepo.UpsertDividendPoints(holding.Ticker, history.Dividends)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to store refreshed series: %w", err)
	}

	return r.exportTables()
}

func (r *Refresher) fetchHistory(ctx context.Context, holding model.Holding, end time.Time) (yahoo.History, error) {
	resp, err := r.client.QueryDailyHistory(ctx, holding.Ticker, holding.AcquisitionDate, end)
	if err != nil {
		return yahoo.History{}, err
	}
	return r.client.ParseHistory(resp)
}

// exportTables writes the aggregate prices.csv and dividends.csv tables from
// the stored series, mirroring what the analytics engine will read.
func (r *Refresher) exportTables() error {
	if r.outputDir == "" {
		return nil
	}

	prices, err := r.seriesRepo.GetPriceSeries()
	if err != nil {
		return err
	}
	dividends, err := r.seriesRepo.GetDividendSeries()
	if err != nil {
		return err
	}

	if err := csvtable.WriteFile(filepath.Join(r.outputDir, "prices.csv"), timeseries.FromSeriesSet(prices)); err != nil {
		return err
	}
	return csvtable.WriteFile(filepath.Join(r.outputDir, "dividends.csv"), timeseries.FromSeriesSet(dividends))
}

// StartSchedule begins refreshing on the given cron spec. Holdings are
// reloaded on every tick so edits to the holdings file are picked up without
// a restart. Scheduled failures are logged; there is no caller to return
// them to.
func (r *Refresher) StartSchedule(cronSpec string, loadHoldings func() ([]model.Holding, error)) error {
	r.scheduler = cron.New()

	_, err := r.scheduler.AddFunc(cronSpec, func() {
		holdings, err := loadHoldings()
		if err != nil {
			log.Printf("refresh: failed to load holdings: %v", err)
			return
		}
		if err := r.RefreshAll(context.Background(), holdings); err != nil {
			log.Printf("refresh: scheduled run failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule refresh: %w", err)
	}

	r.scheduler.Start()
	log.Printf("Scheduled market-data refresh: %s", cronSpec)
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish.
func (r *Refresher) Stop() {
	if r.scheduler != nil {
		<-r.scheduler.Stop().Done()
	}
}
