package engine_test

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/rferraz/Wallet-Analytics-Backend/internal/apperrors"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/engine"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/model"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/testutil"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/timeseries"
)

var start = testutil.Date(2024, 1, 1)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBuildSnapshotSingleHolding(t *testing.T) {
	e := engine.NewEngine()

	// 10 shares bought at 100, price rises to 150, one 2-per-share dividend
	// paid after the acquisition.
	holdings := []model.Holding{
		testutil.MakeHolding("AAPL", 10, 100, start),
	}
	prices := testutil.MakeTable(model.SeriesSet{
		"AAPL": testutil.Points(start, 0, 100, 30, 120, 60, 150),
	})
	dividends := testutil.MakeTable(model.SeriesSet{
		"AAPL": testutil.Points(start, 45, 2),
	})
	asOf := start.AddDate(0, 0, 60)

	snapshot, err := e.BuildSnapshot(holdings, prices, dividends, asOf)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(snapshot.Rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(snapshot.Rows))
	}
	row := snapshot.Rows[0]

	t.Run("valuation", func(t *testing.T) {
		if row.CurrentPrice != 150 {
			t.Errorf("Expected current price 150, got %v", row.CurrentPrice)
		}
		if row.Equity != 1500 {
			t.Errorf("Expected equity 1500, got %v", row.Equity)
		}
	})

	t.Run("returns", func(t *testing.T) {
		if !almostEqual(row.SimpleReturnPct, 50) {
			t.Errorf("Expected simple return 50%%, got %v", row.SimpleReturnPct)
		}
		if !almostEqual(row.DividendIncome, 20) {
			t.Errorf("Expected dividend income 20, got %v", row.DividendIncome)
		}
		if !almostEqual(row.ReturnWithDividendsPct, 52) {
			t.Errorf("Expected return with dividends 52%%, got %v", row.ReturnWithDividendsPct)
		}
	})

	t.Run("annualized return", func(t *testing.T) {
		// ((1520/1000)^(365.25/60) - 1) * 100
		want := (math.Pow(1.52, 365.25/60) - 1) * 100
		if !almostEqual(row.CAGRPct, want) {
			t.Errorf("Expected CAGR %v, got %v", want, row.CAGRPct)
		}
	})

	t.Run("last dividend", func(t *testing.T) {
		if row.LastDividendDate == nil || row.LastDividendAmount == nil {
			t.Fatal("Expected last dividend fields to be set")
		}
		if !row.LastDividendDate.Equal(start.AddDate(0, 0, 45)) {
			t.Errorf("Unexpected last dividend date: %v", row.LastDividendDate)
		}
		if *row.LastDividendAmount != 20 {
			t.Errorf("Expected last dividend amount 20, got %v", *row.LastDividendAmount)
		}
	})

	t.Run("single holding weights", func(t *testing.T) {
		if !almostEqual(row.InitialWeightPct, 100) || !almostEqual(row.CurrentWeightPct, 100) {
			t.Errorf("Expected 100%% weights, got %v / %v", row.InitialWeightPct, row.CurrentWeightPct)
		}
	})

	t.Run("kpis", func(t *testing.T) {
		if snapshot.KPIs.TotalEquity != 1500 {
			t.Errorf("Expected total equity 1500, got %v", snapshot.KPIs.TotalEquity)
		}
		if !almostEqual(snapshot.KPIs.AbsoluteReturnPct, 52) {
			t.Errorf("Expected absolute return 52%%, got %v", snapshot.KPIs.AbsoluteReturnPct)
		}
	})
}

func TestBuildSnapshotEmptyHoldings(t *testing.T) {
	_, err := engine.NewEngine().BuildSnapshot(nil, timeseries.Table{}, timeseries.Table{}, start)

	if !errors.Is(err, apperrors.ErrNoHoldings) {
		t.Errorf("Expected ErrNoHoldings, got %v", err)
	}
}

func TestBuildSnapshotMissingTicker(t *testing.T) {
	holdings := []model.Holding{
		testutil.MakeHolding("AAPL", 10, 100, start),
		testutil.MakeHolding("GHOST", 5, 50, start),
	}
	prices := testutil.MakeTable(model.SeriesSet{
		"AAPL": testutil.Points(start, 0, 100, 1, 110),
	})

	snapshot, err := engine.NewEngine().BuildSnapshot(holdings, prices, timeseries.Table{}, start.AddDate(0, 0, 10))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	t.Run("holding without prices is excluded with warning", func(t *testing.T) {
		if len(snapshot.Rows) != 1 || snapshot.Rows[0].Ticker != "AAPL" {
			t.Fatalf("Expected only AAPL to survive, got %v", snapshot.Rows)
		}
		if len(snapshot.Warnings) != 1 {
			t.Fatalf("Expected 1 warning, got %d", len(snapshot.Warnings))
		}
		w := snapshot.Warnings[0]
		if w.Ticker != "GHOST" || w.Code != model.WarningMissingTickerData {
			t.Errorf("Unexpected warning: %+v", w)
		}
	})

	t.Run("totals cover only included holdings", func(t *testing.T) {
		if snapshot.KPIs.TotalEquity != 1100 {
			t.Errorf("Expected total equity 1100, got %v", snapshot.KPIs.TotalEquity)
		}
		if !almostEqual(snapshot.Rows[0].CurrentWeightPct, 100) {
			t.Errorf("Expected surviving holding to carry full weight, got %v", snapshot.Rows[0].CurrentWeightPct)
		}
	})
}

func TestBuildSnapshotWeights(t *testing.T) {
	holdings := []model.Holding{
		testutil.MakeHolding("AAPL", 10, 100, start), // invested 1000
		testutil.MakeHolding("MSFT", 10, 300, start), // invested 3000
	}
	prices := testutil.MakeTable(model.SeriesSet{
		"AAPL": testutil.Points(start, 0, 100, 1, 200),
		"MSFT": testutil.Points(start, 0, 300, 1, 200),
	})

	snapshot, err := engine.NewEngine().BuildSnapshot(holdings, prices, timeseries.Table{}, start.AddDate(0, 0, 5))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var initialTotal, currentTotal float64
	for _, row := range snapshot.Rows {
		initialTotal += row.InitialWeightPct
		currentTotal += row.CurrentWeightPct
	}
	if !almostEqual(initialTotal, 100) || !almostEqual(currentTotal, 100) {
		t.Errorf("Expected weights to sum to 100, got %v / %v", initialTotal, currentTotal)
	}

	if !almostEqual(snapshot.Rows[0].InitialWeightPct, 25) {
		t.Errorf("Expected AAPL initial weight 25%%, got %v", snapshot.Rows[0].InitialWeightPct)
	}
	// Both positions are worth 2000 now.
	if !almostEqual(snapshot.Rows[0].CurrentWeightPct, 50) {
		t.Errorf("Expected AAPL current weight 50%%, got %v", snapshot.Rows[0].CurrentWeightPct)
	}
}

func TestBuildSnapshotNoDividendHistory(t *testing.T) {
	holdings := []model.Holding{testutil.MakeHolding("AAPL", 10, 100, start)}
	prices := testutil.MakeTable(model.SeriesSet{
		"AAPL": testutil.Points(start, 0, 100, 1, 150),
	})

	snapshot, err := engine.NewEngine().BuildSnapshot(holdings, prices, timeseries.Table{}, start.AddDate(0, 0, 5))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	row := snapshot.Rows[0]

	if row.DividendIncome != 0 {
		t.Errorf("Expected zero income without dividend history, got %v", row.DividendIncome)
	}
	if !almostEqual(row.ReturnWithDividendsPct, row.SimpleReturnPct) {
		t.Errorf("Expected return with dividends to equal simple return, got %v vs %v",
			row.ReturnWithDividendsPct, row.SimpleReturnPct)
	}
	if row.LastDividendDate != nil || row.LastDividendAmount != nil {
		t.Error("Expected last dividend fields to stay nil")
	}
	if len(snapshot.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", snapshot.Warnings)
	}
}

func TestBuildSnapshotDividendBoundary(t *testing.T) {
	acquired := start.AddDate(0, 0, 10)
	holdings := []model.Holding{testutil.MakeHolding("AAPL", 10, 100, acquired)}
	prices := testutil.MakeTable(model.SeriesSet{
		"AAPL": testutil.Points(start, 0, 100, 20, 110),
	})
	// One payment before, one on, one after the acquisition date. Only the
	// last one counts as income.
	dividends := testutil.MakeTable(model.SeriesSet{
		"AAPL": testutil.Points(start, 5, 1, 10, 2, 15, 3),
	})

	snapshot, err := engine.NewEngine().BuildSnapshot(holdings, prices, dividends, start.AddDate(0, 0, 30))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	row := snapshot.Rows[0]

	if !almostEqual(row.DividendIncome, 30) {
		t.Errorf("Expected only the post-acquisition payment as income, got %v", row.DividendIncome)
	}
	// Last dividend ignores the acquisition filter but not the history.
	if row.LastDividendDate == nil || !row.LastDividendDate.Equal(start.AddDate(0, 0, 15)) {
		t.Errorf("Unexpected last dividend date: %v", row.LastDividendDate)
	}
}

func TestBuildSnapshotZeroAge(t *testing.T) {
	holdings := []model.Holding{testutil.MakeHolding("AAPL", 10, 100, start)}
	prices := testutil.MakeTable(model.SeriesSet{
		"AAPL": testutil.Points(start, 0, 120),
	})

	snapshot, err := engine.NewEngine().BuildSnapshot(holdings, prices, timeseries.Table{}, start)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got := snapshot.Rows[0].CAGRPct; got != 0 {
		t.Errorf("Expected same-day acquisition CAGR to be 0, got %v", got)
	}
	if got := snapshot.KPIs.PortfolioCAGRPct; got != 0 {
		t.Errorf("Expected portfolio CAGR 0 on zero age, got %v", got)
	}
}

func TestBuildSnapshotCurves(t *testing.T) {
	holdings := []model.Holding{testutil.MakeHolding("AAPL", 10, 100, start)}
	prices := testutil.MakeTable(model.SeriesSet{
		"AAPL": testutil.Points(start, 0, 100, 1, 120, 2, 90, 3, 110),
	})

	snapshot, err := engine.NewEngine().BuildSnapshot(holdings, prices, timeseries.Table{}, start.AddDate(0, 0, 5))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	t.Run("equity curve follows prices", func(t *testing.T) {
		if len(snapshot.EquityCurve) != 4 {
			t.Fatalf("Expected 4 points, got %d", len(snapshot.EquityCurve))
		}
		want := []float64{1000, 1200, 900, 1100}
		for i, point := range snapshot.EquityCurve {
			if !almostEqual(point.Value, want[i]) {
				t.Errorf("Expected equity[%d] = %v, got %v", i, want[i], point.Value)
			}
		}
	})

	t.Run("drawdown is never positive", func(t *testing.T) {
		for i, point := range snapshot.DrawdownCurve {
			if point.Value > 0 {
				t.Errorf("Expected drawdown[%d] <= 0, got %v", i, point.Value)
			}
		}
	})

	t.Run("drawdown measures decline from peak", func(t *testing.T) {
		// Peak 1200, trough 900.
		if got := snapshot.DrawdownCurve[2].Value; !almostEqual(got, -0.25) {
			t.Errorf("Expected drawdown -0.25, got %v", got)
		}
		if !almostEqual(snapshot.KPIs.MaxDrawdownPct, -25) {
			t.Errorf("Expected max drawdown -25%%, got %v", snapshot.KPIs.MaxDrawdownPct)
		}
	})
}

func TestBuildSnapshotLateStartingSeries(t *testing.T) {
	holdings := []model.Holding{
		testutil.MakeHolding("AAPL", 10, 100, start),
		testutil.MakeHolding("MSFT", 10, 200, start),
	}
	// MSFT has no quotes for the first two dates.
	prices := testutil.MakeTable(model.SeriesSet{
		"AAPL": testutil.Points(start, 0, 100, 1, 100, 2, 100),
		"MSFT": testutil.Points(start, 2, 200),
	})

	snapshot, err := engine.NewEngine().BuildSnapshot(holdings, prices, timeseries.Table{}, start.AddDate(0, 0, 5))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Before MSFT starts trading it contributes nothing to the curve.
	if got := snapshot.EquityCurve[0].Value; !almostEqual(got, 1000) {
		t.Errorf("Expected equity 1000 before MSFT's first quote, got %v", got)
	}
	if got := snapshot.EquityCurve[2].Value; !almostEqual(got, 3000) {
		t.Errorf("Expected equity 3000 once both trade, got %v", got)
	}
}

func TestBuildSnapshotIdempotent(t *testing.T) {
	holdings := []model.Holding{testutil.MakeHolding("AAPL", 10, 100, start)}
	prices := testutil.MakeTable(model.SeriesSet{
		"AAPL": testutil.Points(start, 0, 100, 30, 150),
	})
	dividends := testutil.MakeTable(model.SeriesSet{
		"AAPL": testutil.Points(start, 15, 2),
	})
	asOf := start.AddDate(0, 0, 40)

	e := engine.NewEngine()
	first, err := e.BuildSnapshot(holdings, prices, dividends, asOf)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := e.BuildSnapshot(holdings, prices, dividends, asOf)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first.Rows, second.Rows) {
		t.Errorf("Expected identical rows across runs:\n%+v\n%+v", first.Rows, second.Rows)
	}
	if first.KPIs != second.KPIs {
		t.Errorf("Expected identical KPIs across runs:\n%+v\n%+v", first.KPIs, second.KPIs)
	}
}

func TestPerformanceCurves(t *testing.T) {
	prices := testutil.MakeTable(model.SeriesSet{
		"AAPL": testutil.Points(start, 0, 100, 1, 110, 2, 121),
		"MSFT": testutil.Points(start, 1, 200, 2, 180),
	})

	series := engine.NewEngine().PerformanceCurves(prices)

	if len(series) != 2 {
		t.Fatalf("Expected 2 series, got %d", len(series))
	}

	t.Run("rebased to first observation", func(t *testing.T) {
		aapl := series[0]
		if aapl.Ticker != "AAPL" || len(aapl.Points) != 3 {
			t.Fatalf("Unexpected AAPL series: %+v", aapl)
		}
		if !almostEqual(aapl.Points[0].Value, 0) || !almostEqual(aapl.Points[2].Value, 21) {
			t.Errorf("Expected 0%% and 21%%, got %v and %v", aapl.Points[0].Value, aapl.Points[2].Value)
		}
	})

	t.Run("late series omits dates before its baseline", func(t *testing.T) {
		msft := series[1]
		if len(msft.Points) != 2 {
			t.Fatalf("Expected 2 points, got %d", len(msft.Points))
		}
		if !msft.Points[0].Date.Equal(start.AddDate(0, 0, 1)) {
			t.Errorf("Expected first point on MSFT's first trading day, got %v", msft.Points[0].Date)
		}
		if !almostEqual(msft.Points[1].Value, -10) {
			t.Errorf("Expected -10%%, got %v", msft.Points[1].Value)
		}
	})
}
