package testutil

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rferraz/Wallet-Analytics-Backend/internal/yahoo"
)

// MockYahooClient is a yahoo.Client that serves canned chart responses per
// symbol, for tests that must not hit the network. It is safe for concurrent
// use because the refresher fetches tickers in parallel.
type MockYahooClient struct {
	mu        sync.Mutex
	Responses map[string]yahoo.Response
	Errors    map[string]error
	Queried   []string
}

// NewMockYahooClient creates an empty mock client.
func NewMockYahooClient() *MockYahooClient {
	return &MockYahooClient{
		Responses: make(map[string]yahoo.Response),
		Errors:    make(map[string]error),
	}
}

// QueryDailyHistory returns the canned response or error registered for the
// symbol, recording the call.
func (m *MockYahooClient) QueryDailyHistory(_ context.Context, symbol string, _, _ time.Time) (yahoo.Response, error) {
	m.mu.Lock()
	m.Queried = append(m.Queried, symbol)
	m.mu.Unlock()

	if err, ok := m.Errors[symbol]; ok {
		return yahoo.Response{}, err
	}
	resp, ok := m.Responses[symbol]
	if !ok {
		return yahoo.Response{}, fmt.Errorf("no results returned for symbol %s", symbol)
	}
	return resp, nil
}

// ParseHistory delegates to the real parser so mock responses take the same
// path as production data.
func (m *MockYahooClient) ParseHistory(resp yahoo.Response) (yahoo.History, error) {
	return yahoo.NewFinanceClient("").ParseHistory(resp)
}

// QueriedSymbols returns the symbols queried so far.
func (m *MockYahooClient) QueriedSymbols() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Queried...)
}

// ChartResponse assembles a minimal chart API response: one close per day
// starting at start, plus optional per-share dividends keyed by day offset.
func ChartResponse(symbol string, start time.Time, closes []float64, dividends map[int]float64) yahoo.Response {
	var result yahoo.Result
	result.Meta.Symbol = symbol
	result.Meta.Currency = "USD"

	closePtrs := make([]*float64, len(closes))
	for i := range closes {
		v := closes[i]
		closePtrs[i] = &v
		result.Timestamp = append(result.Timestamp, start.AddDate(0, 0, i).Unix())
	}
	result.Indicators.Quote = append(result.Indicators.Quote, struct {
		Close []*float64 `json:"close"`
	}{Close: closePtrs})

	if len(dividends) > 0 {
		result.Events.Dividends = make(map[string]yahoo.DividendEvent, len(dividends))
		for offset, amount := range dividends {
			ts := start.AddDate(0, 0, offset).Unix()
			result.Events.Dividends[strconv.FormatInt(ts, 10)] = yahoo.DividendEvent{
				Amount: amount,
				Date:   ts,
			}
		}
	}

	return yahoo.Response{Chart: yahoo.Chart{Result: []yahoo.Result{result}}}
}
