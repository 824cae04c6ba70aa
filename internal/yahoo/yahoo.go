// Package yahoo fetches daily price and dividend history from the Yahoo
// Finance chart API. It is the only market-data collaborator of the system;
// everything downstream consumes its output through model.SeriesSet.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"
)

// Client is the market-data contract the refresher depends on. A mock
// implementation lives in internal/testutil for tests that must not hit the
// network.
type Client interface {
	QueryDailyHistory(ctx context.Context, symbol string, start, end time.Time) (Response, error)
	ParseHistory(resp Response) (History, error)
}

// FinanceClient fetches financial data from the Yahoo Finance chart API over
// HTTP. An optional API token is attached to every request when configured.
type FinanceClient struct {
	httpClient *http.Client
	apiToken   string
}

// NewFinanceClient creates a Yahoo Finance client. The apiToken may be empty;
// when set it is sent as a bearer token for premium endpoints.
func NewFinanceClient(apiToken string) *FinanceClient {
	return &FinanceClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiToken:   apiToken,
	}
}

// QueryDailyHistory fetches daily price data plus dividend events for a
// symbol within an inclusive date range.
func (c *FinanceClient) QueryDailyHistory(ctx context.Context, symbol string, start, end time.Time) (Response, error) {
	url := fmt.Sprintf(
		"https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d&events=div",
		symbol,
		start.Unix(),
		end.Unix(),
	)
	result, err := c.queryYahoo(ctx, url)
	if err != nil {
		return Response{}, err
	}
	if len(result.Chart.Result) == 0 {
		return Response{}, fmt.Errorf("no results returned for symbol %s", symbol)
	}

	return result, nil
}

// ParseHistory converts a raw chart response into a History. Null closes
// (halted days) are skipped rather than recorded as zero prices, and
// dividend events are sorted ascending by date.
func (c *FinanceClient) ParseHistory(resp Response) (History, error) {
	result := resp.Chart.Result[0]

	if len(result.Timestamp) == 0 {
		return History{}, fmt.Errorf("no price data returned")
	}
	if len(result.Indicators.Quote) == 0 {
		return History{}, fmt.Errorf("no close prices returned")
	}
	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return History{}, fmt.Errorf("mismatched data lengths")
	}

	history := History{
		Symbol:   result.Meta.Symbol,
		Currency: result.Meta.Currency,
	}
	for i, ts := range result.Timestamp {
		if closes[i] == nil {
			continue
		}
		history.Closes = append(history.Closes, seriesPoint(day(ts), *closes[i]))
	}
	for _, event := range result.Events.Dividends {
		history.Dividends = append(history.Dividends, seriesPoint(day(event.Date), event.Amount))
	}
	sort.Slice(history.Dividends, func(i, j int) bool {
		return history.Dividends[i].Date.Before(history.Dividends[j].Date)
	})

	return history, nil
}

// queryYahoo executes one HTTP request against the chart API and decodes the
// response, surfacing API-level errors from the payload.
func (c *FinanceClient) queryYahoo(ctx context.Context, url string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Response{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, err
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return Response{}, err
	}

	if response.Chart.Error != nil {
		return response, fmt.Errorf("yahoo error: %s", *response.Chart.Error)
	}

	return response, nil
}
