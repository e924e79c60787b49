package indodax

import (
	"context"
	"fmt"
	"strings"
	"time"

	"PumpScan/internal/domain/models"
	drepo "PumpScan/internal/domain/repository"
	pkghttp "PumpScan/pkg/http"
	applogger "PumpScan/pkg/logger"
)

// Client fetches market data from the Indodax public REST API. It serves
// both the summaries feed and per-pair order books, with bounded retries
// on transient failures.
type Client struct {
	baseURL string
	retries int
	backoff time.Duration
	http    *pkghttp.Client
	log     *applogger.Logger
}

// New creates a new Indodax REST client.
func New(baseURL, userAgent string, timeout time.Duration, retries int, backoff time.Duration, log *applogger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		retries: retries,
		backoff: backoff,
		http: pkghttp.NewClient(
			pkghttp.WithTimeout(timeout),
			pkghttp.WithUserAgent(userAgent),
		),
		log: log,
	}
}

var (
	_ drepo.MarketFeed      = (*Client)(nil)
	_ drepo.OrderBookSource = (*Client)(nil)
)

// Summaries fetches the full-market summary payload.
func (c *Client) Summaries(ctx context.Context) (*models.Summaries, error) {
	var out models.Summaries
	url := c.baseURL + "/summaries"
	if err := c.getWithRetry(ctx, url, &out); err != nil {
		return nil, fmt.Errorf("indodax summaries: %w", err)
	}
	return &out, nil
}

// Depth fetches the order book for one pair, e.g. "btcidr".
func (c *Client) Depth(ctx context.Context, pair string) (*models.Depth, error) {
	var out models.Depth
	url := fmt.Sprintf("%s/depth/%s", c.baseURL, pair)
	if err := c.getWithRetry(ctx, url, &out); err != nil {
		return nil, fmt.Errorf("indodax depth %s: %w", pair, err)
	}
	return &out, nil
}

func (c *Client) getWithRetry(ctx context.Context, url string, dest interface{}) error {
	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = c.http.GetJSON(ctx, url, dest)
		if lastErr == nil {
			return nil
		}
		if c.log != nil {
			c.log.Debug("indodax request failed",
				applogger.String("url", url),
				applogger.Int("attempt", attempt),
				applogger.Error(lastErr),
			)
		}
		if attempt < c.retries {
			if err := sleepCtx(ctx, c.backoff*time.Duration(attempt)); err != nil {
				return err
			}
		}
	}
	return lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
