package engine

import (
	"math"
	"time"

	"github.com/rferraz/Wallet-Analytics-Backend/internal/model"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/timeseries"
)

// aggregate reduces the finalized per-holding rows to whole-portfolio KPIs
// and the aggregate equity and drawdown series. It must only run once every
// included row has been computed, since every figure here is a reduction
// over the complete set.
func aggregate(rows []model.WalletRow, prices timeseries.Table, asOf time.Time) (model.WalletKPIs, []model.CurvePoint, []model.CurvePoint) {
	var totalEquity, totalInvested, totalIncome float64
	oldest := time.Time{}
	for _, row := range rows {
		totalEquity += row.Equity
		totalInvested += row.Shares * row.AcquisitionPrice
		totalIncome += row.DividendIncome
		if oldest.IsZero() || row.AcquisitionDate.Before(oldest) {
			oldest = row.AcquisitionDate
		}
	}

	kpis := model.WalletKPIs{TotalEquity: totalEquity}
	if totalInvested > 0 {
		kpis.AbsoluteReturnPct = (totalEquity - totalInvested + totalIncome) / totalInvested * 100
		// The oldest position anchors the whole-portfolio age; CAGR for
		// later-acquired positions is understated by construction.
		kpis.PortfolioCAGRPct = annualizedReturn(totalInvested, totalEquity+totalIncome, oldest, asOf)
	}

	equityCurve, drawdownCurve, maxDrawdown := buildCurves(rows, prices)
	kpis.MaxDrawdownPct = maxDrawdown

	return kpis, equityCurve, drawdownCurve
}

// buildCurves produces the portfolio equity series, the drawdown series and
// the maximum drawdown percentage over the aligned price table.
//
// For every date, equity is Σ(shares × price) over the included holdings; a
// ticker with no quote on a date (before its series starts) contributes
// nothing for that date rather than failing the whole curve. Drawdown on a
// date is the decline from the running equity peak, always ≤ 0, and the
// maximum drawdown is the minimum of that series × 100 — or 0 when the price
// table is empty.
func buildCurves(rows []model.WalletRow, prices timeseries.Table) ([]model.CurvePoint, []model.CurvePoint, float64) {
	dates := prices.Dates()
	if len(dates) == 0 {
		return nil, nil, 0
	}

	equityCurve := make([]model.CurvePoint, len(dates))
	drawdownCurve := make([]model.CurvePoint, len(dates))

	runningMax := 0.0
	maxDrawdown := 0.0
	for i, date := range dates {
		var equity float64
		for _, row := range rows {
			price := prices.Value(row.Ticker, i)
			if math.IsNaN(price) {
				continue
			}
			equity += row.Shares * price
		}
		if equity > runningMax {
			runningMax = equity
		}

		drawdown := 0.0
		if runningMax > 0 {
			drawdown = (equity - runningMax) / runningMax
		}
		if drawdown < maxDrawdown {
			maxDrawdown = drawdown
		}

		equityCurve[i] = model.CurvePoint{Date: date, Value: equity}
		drawdownCurve[i] = model.CurvePoint{Date: date, Value: drawdown}
	}

	return equityCurve, drawdownCurve, maxDrawdown * 100
}
