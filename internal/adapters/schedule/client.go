package schedule

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/uwhrefbox/refbox/internal/telemetry"
)

const (
	requestTimeout = 10 * time.Second
	maxAttempts    = 6
)

// Client is a thin HTTP wrapper over the opaque schedule provider: one
// GET endpoint pushed into the TM's set_next_game, one POST endpoint that
// receives a terminal snapshot as a final score record.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	attempts   int
}

// NewClient builds a Client polling no faster than one request per
// pollInterval, retrying each call up to attempts times (spec §5 bounds
// this at 6).
func NewClient(baseURL string, pollInterval time.Duration, attempts int) *Client {
	if attempts <= 0 {
		attempts = maxAttempts
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    rate.NewLimiter(rate.Every(pollInterval), 1),
		attempts:   attempts,
	}
}

// FetchNextGame polls GET /next-game. A nil result with nil error means the
// provider currently has nothing queued.
func (c *Client) FetchNextGame(ctx context.Context) (*nextGameWire, error) {
	body, status, err := c.doWithRetry(ctx, http.MethodGet, "/next-game", nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNoContent {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("schedule: next-game: status %d", status)
	}

	var wire nextGameWire
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("schedule: next-game decode: %w", err)
	}
	return &wire, nil
}

// PostFinalScore pushes a completed game's terminal snapshot out (spec §6
// "pulls from the TM: terminal snapshot at game end to post a score
// record").
func (c *Client) PostFinalScore(ctx context.Context, score finalScoreWire) error {
	data, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("schedule: final-score encode: %w", err)
	}
	_, status, err := c.doWithRetry(ctx, http.MethodPost, "/final-score", data)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("schedule: final-score: status %d", status)
	}
	return nil
}

// doWithRetry rate-limits then retries transport-level failures up to
// c.attempts times with linear backoff; HTTP error statuses are returned
// to the caller unretried, matching the provider being opaque and
// potentially stateful on writes.
func (c *Client) doWithRetry(ctx context.Context, method, path string, body []byte) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("schedule: rate limit wait: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		data, status, err := c.do(ctx, method, path, body)
		if err == nil {
			return data, status, nil
		}
		lastErr = err
		telemetry.Warnf("schedule: attempt %d/%d %s %s failed: %v", attempt, c.attempts, method, path, err)

		if attempt == c.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
	return nil, 0, fmt.Errorf("schedule: %s %s: %w", method, path, lastErr)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	return respBody, resp.StatusCode, nil
}
