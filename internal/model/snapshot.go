package model

import "time"

// WalletRow represents one holding enriched with its computed valuation and
// performance metrics. All percentage fields are expressed in percent
// (50.0 means +50%).
type WalletRow struct {
	Ticker                 string     `json:"ticker"`
	Shares                 float64    `json:"shares"`
	AcquisitionPrice       float64    `json:"acquisitionPrice"`       // Price paid per share
	AcquisitionDate        time.Time  `json:"acquisitionDate"`        // Calendar date of acquisition
	CurrentPrice           float64    `json:"currentPrice"`           // Last observation in the aligned price series
	Equity                 float64    `json:"equity"`                 // shares × currentPrice
	SimpleReturnPct        float64    `json:"simpleReturnPct"`        // Price-only return since acquisition
	DividendIncome         float64    `json:"dividendIncome"`         // shares × dividends paid strictly after acquisition
	ReturnWithDividendsPct float64    `json:"returnWithDividendsPct"` // Return including dividend income
	CAGRPct                float64    `json:"cagrPct"`                // Annualized compounding return, 0 when acquired today
	InitialWeightPct       float64    `json:"initialWeightPct"`       // Share of total invested capital
	CurrentWeightPct       float64    `json:"currentWeightPct"`       // Share of total current equity
	LastDividendDate       *time.Time `json:"lastDividendDate"`       // Most recent payment in the full dividend history, nil if none
	LastDividendAmount     *float64   `json:"lastDividendAmount"`     // Per-share amount of that payment × shares, nil if none
}

// WalletKPIs holds the whole-portfolio scalar indicators.
type WalletKPIs struct {
	TotalEquity       float64 `json:"totalEquity"`       // Σ equity over included holdings
	AbsoluteReturnPct float64 `json:"absoluteReturnPct"` // Total return on invested capital including dividends
	PortfolioCAGRPct  float64 `json:"portfolioCagrPct"`  // CAGR anchored on the oldest acquisition date
	MaxDrawdownPct    float64 `json:"maxDrawdownPct"`    // Worst peak-to-trough decline of the equity curve, ≤ 0
}

// CurvePoint is one dated value of an aggregate portfolio series.
type CurvePoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// WalletSnapshot is the complete output of one analytics run: the enriched
// per-holding rows, the portfolio KPIs, the aggregate time series and the
// warnings recorded while computing them. Snapshots are recomputed in full on
// every run; there is no state carried between runs.
type WalletSnapshot struct {
	AsOf          time.Time    `json:"asOf"`          // Valuation date the run was anchored on
	Rows          []WalletRow  `json:"rows"`          // One entry per included holding, in input order
	KPIs          WalletKPIs   `json:"kpis"`          // Whole-portfolio indicators
	EquityCurve   []CurvePoint `json:"equityCurve"`   // Portfolio market value per price-table date
	DrawdownCurve []CurvePoint `json:"drawdownCurve"` // Decline from running peak, ≤ 0
	Warnings      []Warning    `json:"warnings"`      // Degradations recovered during the run
}

// Warning codes attached to a snapshot.
const (
	WarningMissingTickerData = "missing_ticker_data" // Holding excluded: no price column for its ticker
	WarningMalformedDate     = "malformed_date"      // Row skipped: unparseable date
)

// PerformanceSeries is one ticker's normalized return curve: percentage
// change from the ticker's first valid observation, independent of when the
// holding was acquired. Used for comparable multi-asset charts.
type PerformanceSeries struct {
	Ticker string       `json:"ticker"`
	Points []CurvePoint `json:"points"`
}

// Warning records a per-item condition that was recovered locally instead of
// aborting the run. Callers decide how to surface partial results.
type Warning struct {
	Ticker  string `json:"ticker,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
