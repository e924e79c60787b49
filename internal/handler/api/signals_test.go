package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"PumpScan/internal/domain/models"
	"PumpScan/internal/repository"
	"PumpScan/internal/usecase"
	"PumpScan/pkg/config"
	xhttp "PumpScan/pkg/http"
	xlogger "PumpScan/pkg/logger"
)

func newTestHandler(t *testing.T, store *repository.SignalLog) *SignalsHandler {
	t.Helper()
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	log, err := xlogger.New(&xlogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	scanner := usecase.NewScanner(cfg, nil, repository.NewRollingHistory(cfg.Scanner.HistoryWindow), store, nil, nil, nil, nil, nil, log)
	return NewSignalsHandler(log, store, scanner, nil, 0)
}

type stubFeed struct{ payload *models.Summaries }

func (f stubFeed) Summaries(context.Context) (*models.Summaries, error) { return f.payload, nil }

type stubMetrics struct{}

func (stubMetrics) RecordCycle(float64) {}
func (stubMetrics) RecordPairScanned() {}
func (stubMetrics) RecordSignal(string) {}
func (stubMetrics) RecordError(string) {}
func (stubMetrics) RecordLastPrice(string, float64) {}
func (stubMetrics) RecordLatency(string, float64) {}

func TestSignalsEndpointEmptyStore(t *testing.T) {
	store := repository.NewSignalLog(20)
	h := newTestHandler(t, store)

	e := echo.New()
	h.RegisterRoutes(e)
	req := httptest.NewRequest(http.MethodGet, "/api/signals", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var out []json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("body is not a JSON array: %v (%s)", err, rec.Body.String())
	}
	if len(out) != 0 {
		t.Fatalf("items = %d, want 0", len(out))
	}
}

func TestSignalsEndpointShape(t *testing.T) {
	store := repository.NewSignalLog(20)
	store.Push(&models.Signal{
		ID: "a", Mode: models.ModeScalper, Pair: "btcidr", Time: "10:00:00",
		Entry: 1009, TP: 1044.315, SL: 1000.928, Priority: 17, Ghost: 40, RSI: 50, Volatility: 100,
	})
	store.Push(&models.Signal{
		ID: "b", Mode: models.ModeLowcap, Pair: "shibidr", Time: "10:00:15",
		Entry: 150, TP: 165, SL: 148.05, Priority: 13.5, Ghost: -12.5, RSI: 31.2, Volatility: 4.1,
	})
	h := newTestHandler(t, store)

	e := echo.New()
	h.RegisterRoutes(e)
	req := httptest.NewRequest(http.MethodGet, "/api/signals", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var out []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("items = %d, want 2", len(out))
	}
	if out[0]["id"] != "b" {
		t.Fatalf("newest first violated: first id = %v", out[0]["id"])
	}
	for _, key := range []string{"id", "mode", "pair", "time", "entry", "tp", "sl", "priority", "ghost", "news", "rsi", "volatility"} {
		if _, ok := out[0][key]; !ok {
			t.Errorf("missing field %q in %v", key, out[0])
		}
	}
	if out[0]["news"] != false {
		t.Fatalf("news = %v, want false", out[0]["news"])
	}
}

func TestHealthEndpoint(t *testing.T) {
	store := repository.NewSignalLog(20)
	h := newTestHandler(t, store)

	e := echo.New()
	h.RegisterRoutes(e)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var out struct {
		Data struct {
			Status  string `json:"status"`
			Scanner struct {
				Cycles  uint64 `json:"cycles"`
				Signals int    `json:"signals"`
			} `json:"scanner"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Data.Status != "ok" {
		t.Fatalf("status = %q, want ok", out.Data.Status)
	}
}

func TestHealthReportsStalledLoop(t *testing.T) {
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	log, err := xlogger.New(&xlogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	store := repository.NewSignalLog(20)
	// volume below the floor: the cycle completes without touching detectors
	feed := stubFeed{payload: &models.Summaries{Tickers: map[string]models.TickerEntry{
		"btcidr": {Last: 1000, VolIDR: 100},
	}}}
	scanner := usecase.NewScanner(cfg, feed, repository.NewRollingHistory(cfg.Scanner.HistoryWindow), store, nil, nil, nil, nil, stubMetrics{}, log)
	h := NewSignalsHandler(log, store, scanner, nil, time.Millisecond)

	e := xhttp.NewServer(h, xhttp.WithMetricsPath("")).Echo()

	// before any cycle there is nothing to be stale
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status before first cycle = %d, want 200", rec.Code)
	}

	scanner.ScanOnce(context.Background())
	time.Sleep(5 * time.Millisecond)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 (%s)", rec.Code, rec.Body.String())
	}
	var out struct {
		Status int `json:"status"`
		Data   []struct {
			Code string `json:"code"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Status != http.StatusServiceUnavailable {
		t.Fatalf("envelope status = %d, want 503", out.Status)
	}
	if len(out.Data) != 1 || out.Data[0].Code != "ERR_SCAN_STALLED" {
		t.Fatalf("error body = %+v", out.Data)
	}
}
