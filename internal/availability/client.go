// Package availability provides the HTTP client for the court-booking
// availability API.
//
// The API exposes one read: GET {base}/{clubID}?date=YYYY-MM-DD returning
// the courts and open slots for that club and date. Rate limiting is handled
// via a token bucket limiter so a burst of look-ahead dates does not hammer
// the upstream.
package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// Client is the rate-limited HTTP client for the availability API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates an availability client with rate limiting.
func NewClient(baseURL string, requestsPerMinute int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	rps := float64(requestsPerMinute) / 60.0
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
	}
}

// FetchDay returns the courts with open slots for one club on one date
// (YYYY-MM-DD). Non-2xx statuses and malformed bodies are errors; the caller
// treats any error as "no candidates for this cell".
func (c *Client) FetchDay(ctx context.Context, clubID int, date string) ([]Court, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	u := fmt.Sprintf("%s/%d?%s", c.baseURL, clubID, url.Values{"date": {date}}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("availability request club=%d date=%s: %w", clubID, date, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("availability club=%d date=%s returned %d: %s",
			clubID, date, resp.StatusCode, truncate(body, 200))
	}

	var result dayResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode response club=%d date=%s: %w", clubID, date, err)
	}

	return result.AvailableCourts, nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
