// Package engine implements the portfolio analytics pipeline: per-holding
// valuation and performance metrics, whole-portfolio KPIs and the aggregate
// equity, drawdown and normalized performance series.
package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/rferraz/Wallet-Analytics-Backend/internal/apperrors"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/model"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/timeseries"
)

// Engine computes wallet snapshots from materialized inputs. It is stateless
// and safe for concurrent use: constructing an Engine performs no work, and
// identical inputs always produce identical snapshots.
type Engine struct{}

// NewEngine creates a new analytics engine.
func NewEngine() *Engine {
	return &Engine{}
}

// BuildSnapshot runs the full pipeline over the given holdings and aligned
// price/dividend tables, valued as of the given date.
//
// The pipeline runs in strict dependency order: the price table is
// forward-filled, each holding's row metrics are computed independently, and
// only then is the finalized row set reduced to portfolio KPIs and curves.
//
// Per-holding problems never abort a run. A holding whose ticker has no
// usable price column is excluded from the snapshot and recorded as a
// warning; dividend history is optional per ticker. The only hard failure is
// an empty holdings collection, reported as apperrors.ErrNoHoldings.
func (e *Engine) BuildSnapshot(
	holdings []model.Holding,
	prices timeseries.Table,
	dividends timeseries.Table,
	asOf time.Time,
) (model.WalletSnapshot, error) {
	if len(holdings) == 0 {
		return model.WalletSnapshot{}, apperrors.ErrNoHoldings
	}

	filled := prices.ForwardFill()

	var rows []model.WalletRow
	var warnings []model.Warning
	for _, holding := range holdings {
		if _, ok := filled.LastObservation(holding.Ticker); !ok {
			warnings = append(warnings, model.Warning{
				Ticker:  holding.Ticker,
				Code:    model.WarningMissingTickerData,
				Message: fmt.Sprintf("%s: %v, holding excluded", holding.Ticker, apperrors.ErrMissingTickerData),
			})
			continue
		}
		rows = append(rows, computeRow(holding, filled, dividends, asOf))
	}

	applyWeights(rows)
	kpis, equityCurve, drawdownCurve := aggregate(rows, filled, asOf)

	return model.WalletSnapshot{
		AsOf:          asOf,
		Rows:          rows,
		KPIs:          kpis,
		EquityCurve:   equityCurve,
		DrawdownCurve: drawdownCurve,
		Warnings:      warnings,
	}, nil
}

// PerformanceCurves rebases every price column to its first valid observation
// and returns one normalized return series per ticker, in table order. The
// curves are acquisition-independent, which makes assets directly comparable
// on one chart. Dates before a ticker's first observation are omitted from
// that ticker's series.
func (e *Engine) PerformanceCurves(prices timeseries.Table) []model.PerformanceSeries {
	normalized := prices.ForwardFill().NormalizeToFirstValid()
	dates := normalized.Dates()

	series := make([]model.PerformanceSeries, 0, len(normalized.Columns()))
	for _, ticker := range normalized.Columns() {
		points := make([]model.CurvePoint, 0, len(dates))
		for i, date := range dates {
			v := normalized.Value(ticker, i)
			if math.IsNaN(v) {
				continue
			}
			points = append(points, model.CurvePoint{Date: date, Value: v})
		}
		series = append(series, model.PerformanceSeries{Ticker: ticker, Points: points})
	}
	return series
}

// applyWeights fills in the portfolio-relative weight columns once all
// included rows are known. Initial weight is relative to total invested
// capital, current weight to total market value.
func applyWeights(rows []model.WalletRow) {
	var totalInvested, totalEquity float64
	for _, row := range rows {
		totalInvested += row.Shares * row.AcquisitionPrice
		totalEquity += row.Equity
	}

	for i := range rows {
		if totalInvested > 0 {
			rows[i].InitialWeightPct = rows[i].Shares * rows[i].AcquisitionPrice / totalInvested * 100
		}
		if totalEquity > 0 {
			rows[i].CurrentWeightPct = rows[i].Equity / totalEquity * 100
		}
	}
}
