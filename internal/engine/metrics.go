package engine

import (
	"math"
	"time"

	"github.com/rferraz/Wallet-Analytics-Backend/internal/model"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/timeseries"
)

// daysPerYear is the exponent base used to annualize returns. 365.25 keeps
// leap years from skewing multi-year CAGR figures.
const daysPerYear = 365.25

// computeRow calculates the full metric set for a single holding as of a
// specific date.
//
// The calculation derives, in order:
//   - Current price: the last valid observation in the forward-filled price
//     column for the holding's ticker
//   - Equity: shares × current price
//   - Simple return: price-only gain over the acquisition price
//   - Dividend income: the sum of per-share payments dated strictly after the
//     acquisition date, times shares. Missing cells count as zero and a
//     ticker with no dividend column earns zero income.
//   - Return with dividends: (((equity + income) / shares) − paid) / paid × 100.
//     The formula is deliberately not simplified algebraically so results
//     stay bit-compatible with the reference output under float64 rounding.
//   - CAGR: ((terminal / invested) ^ (365.25 / ageDays) − 1) × 100, where
//     terminal includes dividend income and ageDays counts calendar days from
//     acquisition to asOf. A holding acquired on asOf (or later) has zero age
//     and saturates to 0 instead of dividing by zero.
//   - Last dividend: the most recent payment in the UNFILTERED dividend
//     history, regardless of the acquisition date. The amount is the
//     per-share payment times shares, rounded to three decimals. Both fields
//     stay nil when the ticker has no dividend history at all.
//
// Weights are portfolio-relative and therefore filled in later by
// BuildSnapshot, once the totals over all included holdings are known.
//
// Parameters:
//   - holding: the position to value
//   - prices: forward-filled price table; the caller has already verified
//     that it carries a valid column for the holding's ticker
//   - dividends: sparse (not filled) dividend table
//   - asOf: valuation date anchoring age calculations
func computeRow(
	holding model.Holding,
	prices timeseries.Table,
	dividends timeseries.Table,
	asOf time.Time,
) model.WalletRow {
	last, _ := prices.LastObservation(holding.Ticker)
	currentPrice := last.Value

	equity := holding.Shares * currentPrice
	paid := holding.AcquisitionPrice
	simpleReturn := (currentPrice - paid) / paid * 100

	perShareIncome := dividends.FilterSince(holding.AcquisitionDate).Sum(holding.Ticker)
	income := perShareIncome * holding.Shares

	returnWithDividends := (((equity + income) / holding.Shares) - paid) / paid * 100

	row := model.WalletRow{
		Ticker:                 holding.Ticker,
		Shares:                 holding.Shares,
		AcquisitionPrice:       holding.AcquisitionPrice,
		AcquisitionDate:        holding.AcquisitionDate,
		CurrentPrice:           currentPrice,
		Equity:                 equity,
		SimpleReturnPct:        simpleReturn,
		DividendIncome:         income,
		ReturnWithDividendsPct: returnWithDividends,
		CAGRPct:                annualizedReturn(holding.Invested(), equity+income, holding.AcquisitionDate, asOf),
	}

	if payment, ok := dividends.LastObservation(holding.Ticker); ok {
		date := payment.Date
		amount := round3(payment.Value * holding.Shares)
		row.LastDividendDate = &date
		row.LastDividendAmount = &amount
	}

	return row
}

// annualizedReturn computes a CAGR percentage from an invested amount, a
// terminal amount and a calendar-day age. Zero or negative age and zero
// invested capital both saturate to 0 rather than erroring; a same-day
// acquisition simply has no compounding to annualize yet.
func annualizedReturn(invested, terminal float64, from, asOf time.Time) float64 {
	ageDays := calendarDays(from, asOf)
	if ageDays <= 0 || invested == 0 {
		return 0
	}
	return (math.Pow(terminal/invested, daysPerYear/float64(ageDays)) - 1) * 100
}

// calendarDays counts whole calendar days between two instants.
func calendarDays(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
