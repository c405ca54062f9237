package alphavantage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stock_etl/internal/feature/intraday/domain/entity"
)

// mockRateLimiter counts acquisitions without waiting.
type mockRateLimiter struct {
	AcquireCalls int
}

func (m *mockRateLimiter) Acquire() {
	m.AcquireCalls++
}

const successBody = `{
	"Meta Data": {
		"1. Information": "Intraday (5min) open, high, low, close prices and volume",
		"2. Symbol": "AAPL",
		"3. Last Refreshed": "2024-01-15 16:00:00",
		"4. Interval": "5min",
		"6. Time Zone": "US/Eastern"
	},
	"Time Series (5min)": {
		"2024-01-15 16:00:00": {
			"1. open": "185.50",
			"2. high": "186.20",
			"3. low": "185.10",
			"4. close": "185.90",
			"5. volume": "1000000"
		},
		"2024-01-15 15:55:00": {
			"1. open": "185.20",
			"2. high": "185.60",
			"3. low": "185.00",
			"4. close": "185.50",
			"5. volume": "800000"
		}
	}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *mockRateLimiter, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	limiter := &mockRateLimiter{}
	cfg := Config{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		OutputSize: "compact",
		Timeout:    5 * time.Second,
	}
	return NewClient(cfg, srv.Client(), limiter), limiter, srv
}

func TestClient_FetchIntraday_Success(t *testing.T) {
	var gotQuery map[string]string
	client, limiter, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"function":   r.URL.Query().Get("function"),
			"symbol":     r.URL.Query().Get("symbol"),
			"interval":   r.URL.Query().Get("interval"),
			"outputsize": r.URL.Query().Get("outputsize"),
			"apikey":     r.URL.Query().Get("apikey"),
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(successBody)); err != nil {
			t.Error(err)
		}
	})

	raw, err := client.FetchIntraday(context.Background(), "aapl", entity.Interval5Min)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery["function"] != "TIME_SERIES_INTRADAY" {
		t.Errorf("function param: got %s", gotQuery["function"])
	}
	if gotQuery["symbol"] != "AAPL" {
		t.Errorf("symbol should be uppercased: got %s", gotQuery["symbol"])
	}
	if gotQuery["interval"] != "5min" || gotQuery["outputsize"] != "compact" || gotQuery["apikey"] != "test-key" {
		t.Errorf("query params wrong: %+v", gotQuery)
	}

	if raw.Symbol != "AAPL" || raw.Interval != entity.Interval5Min {
		t.Errorf("payload identity: %s/%s", raw.Symbol, raw.Interval)
	}
	if len(raw.Series) != 2 {
		t.Fatalf("series size: got %d, want 2", len(raw.Series))
	}
	bar, ok := raw.Series["2024-01-15 16:00:00"]
	if !ok || bar.Open != "185.50" || bar.Volume != "1000000" {
		t.Errorf("bar fields wrong: %+v", bar)
	}
	if raw.Meta.LastRefreshed != "2024-01-15 16:00:00" || raw.Meta.TimeZone != "US/Eastern" {
		t.Errorf("meta wrong: %+v", raw.Meta)
	}
	if raw.Meta.ExtractedAt.IsZero() {
		t.Error("extraction time not set")
	}
	if limiter.AcquireCalls != 1 {
		t.Errorf("limiter acquisitions: got %d, want 1", limiter.AcquireCalls)
	}
}

func TestClient_FetchIntraday_EmptySeriesIsSuccess(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Meta Data": {"2. Symbol": "AAPL"}, "Time Series (5min)": {}}`))
	})

	raw, err := client.FetchIntraday(context.Background(), "AAPL", entity.Interval5Min)
	if err != nil {
		t.Fatalf("empty series must not be an error: %v", err)
	}
	if raw.Series == nil || len(raw.Series) != 0 {
		t.Errorf("expected present-but-empty series, got %+v", raw.Series)
	}
}

func TestClient_FetchIntraday_ErrorClassification(t *testing.T) {
	testCases := []struct {
		name     string
		handler  http.HandlerFunc
		wantKind FetchErrorKind
	}{
		{
			name: "in-band provider error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"Error Message": "Invalid API call. Please retry with a valid symbol."}`))
			},
			wantKind: KindProvider,
		},
		{
			name: "provider quota note",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`))
			},
			wantKind: KindRateLimited,
		},
		{
			name: "missing series container",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"Meta Data": {"2. Symbol": "AAPL"}}`))
			},
			wantKind: KindProvider,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{not json`))
			},
			wantKind: KindTransport,
		},
		{
			name: "http error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "server error", http.StatusInternalServerError)
			},
			wantKind: KindTransport,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client, _, _ := newTestClient(t, tc.handler)

			_, err := client.FetchIntraday(context.Background(), "AAPL", entity.Interval5Min)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !kindIs(err, tc.wantKind) {
				t.Errorf("error kind: got %v, want %s", err, tc.wantKind)
			}
		})
	}
}

func TestClient_FetchIntraday_Preconditions(t *testing.T) {
	client, limiter, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be issued for invalid input")
	})

	if _, err := client.FetchIntraday(context.Background(), "", entity.Interval5Min); !IsProvider(err) {
		t.Errorf("empty symbol: got %v, want provider error", err)
	}
	if _, err := client.FetchIntraday(context.Background(), "AAPL", "2min"); !IsProvider(err) {
		t.Errorf("bad interval: got %v, want provider error", err)
	}
	if limiter.AcquireCalls != 0 {
		t.Errorf("limiter must not be touched on precondition failure, got %d", limiter.AcquireCalls)
	}
}

func TestClient_FetchIntraday_ContextCancelled(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(successBody))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchIntraday(ctx, "AAPL", entity.Interval5Min)
	if !IsTransport(err) {
		t.Errorf("cancelled context should surface as transport error, got %v", err)
	}
}
