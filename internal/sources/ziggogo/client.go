// Package ziggogo talks to the guide servers behind ziggogo.tv: the channel
// catalog, the segment-paginated guide overview and the per-programme details.
package ziggogo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ziggogoepg/exporter/internal/config"
	"github.com/ziggogoepg/exporter/internal/ratelimit"
)

// ErrNotFound signals a not-found response. For segments this is the expected
// crawl terminator, not a failure; for details it means skip the id.
var ErrNotFound = errors.New("not found")

// ErrBadPayload signals a response that arrived but could not be used.
var ErrBadPayload = errors.New("malformed payload")

// Client handles guide server requests with pacing and bounded retries.
type Client struct {
	httpClient *http.Client
	limiter    ratelimit.Limiter
	retry      ratelimit.Config
	urls       config.URLs
	log        *zap.Logger
}

// NewClient creates a guide client.
func NewClient(urls config.URLs, rl ratelimit.Config, log *zap.Logger) *Client {
	rl = ratelimit.ApplyDefaults(rl)
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    ratelimit.NewLimiter(rl),
		retry:      rl,
		urls:       urls,
		log:        log,
	}
}

// ChannelList fetches the full upstream channel catalog. Any failure here is
// fatal for the run.
func (c *Client) ChannelList(ctx context.Context) ([]Channel, error) {
	resp, err := c.get(ctx, c.urls.ChannelList)
	if err != nil {
		return nil, fmt.Errorf("fetch channel catalog: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch channel catalog: unexpected status %d", resp.StatusCode)
	}

	var channels []Channel
	if err := json.NewDecoder(resp.Body).Decode(&channels); err != nil {
		return nil, fmt.Errorf("decode channel catalog: %w", err)
	}
	return channels, nil
}

// SegmentByCode fetches one guide segment. Returns ErrNotFound when the server
// has no data for the code, which ends the crawl.
func (c *Client) SegmentByCode(ctx context.Context, code string) (*Segment, error) {
	resp, err := c.get(ctx, fmt.Sprintf(c.urls.Segment, code))
	if err != nil {
		return nil, fmt.Errorf("fetch segment %s: %w", code, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("segment %s: %w", code, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("segment %s: status %d: %w", code, resp.StatusCode, ErrBadPayload)
	}

	var segment Segment
	if err := json.NewDecoder(resp.Body).Decode(&segment); err != nil {
		return nil, fmt.Errorf("segment %s: decode: %w", code, ErrBadPayload)
	}
	return &segment, nil
}

// DetailByID fetches the detail payload for one programme. A non-success
// status or an undecodable body is a skip for the caller, never fatal.
func (c *Client) DetailByID(ctx context.Context, id string) (*Detail, error) {
	resp, err := c.get(ctx, fmt.Sprintf(c.urls.Detail, id))
	if err != nil {
		return nil, fmt.Errorf("fetch detail %s: %w", id, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detail %s: status %d: %w", id, resp.StatusCode, ErrNotFound)
	}

	var detail Detail
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return nil, fmt.Errorf("detail %s: decode: %w", id, ErrBadPayload)
	}
	return &detail, nil
}

// get performs a GET with pacing and bounded retry on transient failures.
// Responses with a status below 500 are returned as-is; the not-found crawl
// terminator must never burn the retry budget.
func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	var lastErr error

	for attempt := 1; ratelimit.ShouldRetry(attempt, c.retry.MaxRetries); attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err == nil && resp.StatusCode < http.StatusInternalServerError {
			return resp, nil
		}

		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			_ = resp.Body.Close()
		}

		backoff := c.limiter.RetryAfter(attempt)
		c.log.Warn("transient fetch failure, retrying",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(lastErr))

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return nil, fmt.Errorf("retries exhausted: %w", lastErr)
}
