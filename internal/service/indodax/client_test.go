package indodax

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(baseURL string, retries int) *Client {
	return New(baseURL, "test-agent", 2*time.Second, retries, 10*time.Millisecond, nil)
}

func TestSummariesParsesMixedNumerics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/summaries" {
			http.NotFound(w, r)
			return
		}
		if ua := r.Header.Get("User-Agent"); ua != "test-agent" {
			t.Errorf("user agent = %q", ua)
		}
		// the feed mixes quoted and bare numbers
		_, _ = w.Write([]byte(`{"tickers":{"btcidr":{"last":"950000000","vol_idr":5000000000},"ethidr":{"last":45000000,"vol_idr":"2000000000"}}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 1)
	sums, err := c.Summaries(context.Background())
	if err != nil {
		t.Fatalf("summaries: %v", err)
	}
	if len(sums.Tickers) != 2 {
		t.Fatalf("tickers = %d, want 2", len(sums.Tickers))
	}
	if got := float64(sums.Tickers["btcidr"].Last); got != 950_000_000 {
		t.Fatalf("btcidr last = %v", got)
	}
	if got := float64(sums.Tickers["ethidr"].VolIDR); got != 2_000_000_000 {
		t.Fatalf("ethidr vol = %v", got)
	}
}

func TestDepthPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/depth/btcidr" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"buy":[["950000000","0.5"]],"sell":[["951000000","0.3"]]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 1)
	depth, err := c.Depth(context.Background(), "btcidr")
	if err != nil {
		t.Fatalf("depth: %v", err)
	}
	if len(depth.Buy) != 1 || len(depth.Sell) != 1 {
		t.Fatalf("depth rows = %d/%d, want 1/1", len(depth.Buy), len(depth.Sell))
	}
	if got := float64(depth.Buy[0][1]); got != 0.5 {
		t.Fatalf("bid volume = %v, want 0.5", got)
	}
}

func TestRetriesThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"tickers":{}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 3)
	if _, err := c.Summaries(context.Background()); err != nil {
		t.Fatalf("summaries after retries: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("attempts = %d, want 3", got)
	}
}

func TestRetriesExhausted(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 3)
	if _, err := c.Summaries(context.Background()); err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("attempts = %d, want 3", got)
	}
}

func TestContextCancelStopsRetrying(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := newTestClient(srv.URL, 3)
	if _, err := c.Summaries(ctx); err == nil {
		t.Fatalf("expected error with cancelled context")
	}
}
