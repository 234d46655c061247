// Package httpfetch is a small retrying HTTP-JSON client shared by the
// producers that poll an external HTTP surface: the indexed-store poller
// issues POSTs, the oracle feed poller issues GETs, and both want the same
// bounded-retry-with-backoff behavior instead of reimplementing it twice.
package httpfetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Client wraps an *http.Client with a retry policy.
type Client struct {
	http       *http.Client
	maxRetries int
}

// New builds a Client with the given per-request timeout and retry budget.
func New(timeout time.Duration, maxRetries int) *Client {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Client{
		http:       &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
	}
}

// PostJSON POSTs body as JSON and decodes the response into out, retrying
// transport and non-2xx failures with linear backoff.
func (c *Client) PostJSON(ctx context.Context, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("httpfetch: marshal request: %w", err)
	}
	return c.doWithRetry(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		return c.execAndDecode(req, out)
	})
}

// Get issues a GET and decodes the response into out, with the same retry
// policy as PostJSON.
func (c *Client) Get(ctx context.Context, url string, out any) error {
	return c.doWithRetry(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		return c.execAndDecode(req, out)
	})
}

func (c *Client) execAndDecode(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) doWithRetry(ctx context.Context, attempt func(context.Context) error) error {
	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		if err := attempt(ctx); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn().Err(err).Int("attempt", i+1).Msg("httpfetch: request failed, retrying")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(i+1) * 500 * time.Millisecond):
		}
	}
	return fmt.Errorf("httpfetch: all %d attempts failed: %w", c.maxRetries, lastErr)
}
