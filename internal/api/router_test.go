package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fernet/fernet-go"

	"github.com/rferraz/Wallet-Analytics-Backend/internal/api"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/config"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/engine"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/refresh"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/repository"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/security"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/service"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/testutil"
)

// testServer wires the full API against in-memory storage, a temp holdings
// file and a mock market-data client.
type testServer struct {
	server     *httptest.Server
	seriesRepo *repository.SeriesRepository
	yahoo      *testutil.MockYahooClient
}

func newTestServer(t *testing.T, holdingsJSON string, cipher *security.TokenCipher) *testServer {
	t.Helper()

	db := testutil.SetupTestDB(t)
	seriesRepo := repository.NewSeriesRepository(db)
	settingsRepo := repository.NewSettingsRepository(db, cipher)
	holdingsPath := testutil.WriteHoldingsFile(t, holdingsJSON)

	yahooClient := testutil.NewMockYahooClient()

	systemService := service.NewSystemService(db)
	walletService := service.NewWalletService(engine.NewEngine(), seriesRepo, holdingsPath)
	importService := service.NewImportService(seriesRepo)
	refresher := refresh.NewRefresher(yahooClient, seriesRepo, "")

	cfg := &config.Config{
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
	router := api.NewRouter(systemService, walletService, importService, settingsRepo, refresher, cfg)

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	return &testServer{server: ts, seriesRepo: seriesRepo, yahoo: yahooClient}
}

func (ts *testServer) get(t *testing.T, path string) *http.Response {
	t.Helper()

	resp, err := http.Get(ts.server.URL + path)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (ts *testServer) send(t *testing.T, method, path, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, ts.server.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, into interface{}) {
	t.Helper()

	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

const singleHolding = `[{"ticker": "AAPL", "shares": 10, "price": 100, "first_acquisition": "2024-01-01"}]`

func seedPrices(t *testing.T, ts *testServer) {
	t.Helper()

	start := testutil.Date(2024, 1, 1)
	if err := ts.seriesRepo.UpsertPricePoints("AAPL", testutil.Points(start, 0, 100, 30, 150)); err != nil {
		t.Fatalf("Failed to seed prices: %v", err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, singleHolding, nil)

	resp := ts.get(t, "/api/system/health")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var health struct {
		Status   string `json:"status"`
		Database string `json:"database"`
	}
	decode(t, resp, &health)
	if health.Status != "healthy" || health.Database != "connected" {
		t.Errorf("Unexpected health response: %+v", health)
	}
}

func TestWalletEndpoints(t *testing.T) {
	ts := newTestServer(t, singleHolding, nil)
	seedPrices(t, ts)

	t.Run("summary", func(t *testing.T) {
		resp := ts.get(t, "/api/wallet/summary")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}

		var summary struct {
			TotalEquity float64 `json:"totalEquity"`
			Holdings    int     `json:"holdings"`
		}
		decode(t, resp, &summary)
		if summary.TotalEquity != 1500 {
			t.Errorf("Expected total equity 1500, got %v", summary.TotalEquity)
		}
		if summary.Holdings != 1 {
			t.Errorf("Expected 1 holding, got %d", summary.Holdings)
		}
	})

	t.Run("full snapshot", func(t *testing.T) {
		resp := ts.get(t, "/api/wallet/")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}

		var snapshot struct {
			Rows []struct {
				Ticker string  `json:"ticker"`
				Equity float64 `json:"equity"`
			} `json:"rows"`
			EquityCurve []struct {
				Value float64 `json:"value"`
			} `json:"equityCurve"`
		}
		decode(t, resp, &snapshot)
		if len(snapshot.Rows) != 1 || snapshot.Rows[0].Equity != 1500 {
			t.Errorf("Unexpected rows: %+v", snapshot.Rows)
		}
		if len(snapshot.EquityCurve) != 2 {
			t.Errorf("Expected 2 equity curve points, got %d", len(snapshot.EquityCurve))
		}
	})

	t.Run("equity and drawdown curves", func(t *testing.T) {
		for _, path := range []string{"/api/wallet/equity", "/api/wallet/drawdown"} {
			resp := ts.get(t, path)
			if resp.StatusCode != http.StatusOK {
				t.Errorf("Expected 200 from %s, got %d", path, resp.StatusCode)
			}
		}
	})

	t.Run("performance", func(t *testing.T) {
		resp := ts.get(t, "/api/wallet/performance")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}

		var series []struct {
			Ticker string `json:"ticker"`
		}
		decode(t, resp, &series)
		if len(series) != 1 || series[0].Ticker != "AAPL" {
			t.Errorf("Unexpected series: %+v", series)
		}
	})
}

func TestWalletEndpointBadHoldings(t *testing.T) {
	ts := newTestServer(t, `[]`, nil)

	resp := ts.get(t, "/api/wallet/summary")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for empty holdings, got %d", resp.StatusCode)
	}
}

func TestRefreshEndpoint(t *testing.T) {
	ts := newTestServer(t, singleHolding, nil)
	ts.yahoo.Responses["AAPL"] = testutil.ChartResponse("AAPL", testutil.Date(2024, 1, 1), []float64{100, 110}, nil)

	resp := ts.send(t, http.MethodPost, "/api/refresh", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var result map[string]int
	decode(t, resp, &result)
	if result["tickers"] != 1 {
		t.Errorf("Expected 1 refreshed ticker, got %v", result)
	}

	set, err := ts.seriesRepo.GetPriceSeries()
	if err != nil {
		t.Fatalf("Failed to read prices: %v", err)
	}
	if len(set["AAPL"]) != 2 {
		t.Errorf("Expected refreshed prices stored, got %v", set)
	}
}

func TestImportEndpoint(t *testing.T) {
	ts := newTestServer(t, singleHolding, nil)

	t.Run("valid table", func(t *testing.T) {
		resp := ts.send(t, http.MethodPost, "/api/developer/import/prices", "Date,AAPL\n2024-01-01,100\n")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}

		var result struct {
			Imported int `json:"imported"`
		}
		decode(t, resp, &result)
		if result.Imported != 1 {
			t.Errorf("Expected 1 imported point, got %d", result.Imported)
		}
	})

	t.Run("invalid headers", func(t *testing.T) {
		resp := ts.send(t, http.MethodPost, "/api/developer/import/prices", "Day,AAPL\n2024-01-01,100\n")
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", resp.StatusCode)
		}
	})
}

func TestProviderTokenEndpoint(t *testing.T) {
	t.Run("stores the token when a key is configured", func(t *testing.T) {
		var key fernet.Key
		if err := key.Generate(); err != nil {
			t.Fatalf("Failed to generate key: %v", err)
		}
		cipher, err := security.NewTokenCipher(key.Encode())
		if err != nil {
			t.Fatalf("Failed to create cipher: %v", err)
		}
		ts := newTestServer(t, singleHolding, cipher)

		resp := ts.send(t, http.MethodPut, "/api/developer/provider-token", `{"token": "secret"}`)
		if resp.StatusCode != http.StatusNoContent {
			t.Errorf("Expected 204, got %d", resp.StatusCode)
		}
	})

	t.Run("rejects empty token", func(t *testing.T) {
		ts := newTestServer(t, singleHolding, nil)

		resp := ts.send(t, http.MethodPut, "/api/developer/provider-token", `{}`)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("fails without an encryption key", func(t *testing.T) {
		ts := newTestServer(t, singleHolding, nil)

		resp := ts.send(t, http.MethodPut, "/api/developer/provider-token", `{"token": "secret"}`)
		if resp.StatusCode != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d", resp.StatusCode)
		}
	})
}
