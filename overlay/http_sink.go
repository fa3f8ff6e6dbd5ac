package overlay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

// StatusError reports a non-2xx answer from the overlay endpoint.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("overlay endpoint %s responded with status %d", e.URL, e.StatusCode)
}

// HTTPSink posts events to the overlay renderer's HTTP API:
// titles to {base}/match/title and scores to {base}/match/scores.
type HTTPSink struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

func NewHTTPSink(baseURL string, timeout time.Duration, ratePerSecond float64) *HTTPSink {
	limit := rate.Inf
	burst := 1
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
		burst = max(int(ratePerSecond), 1)
	}
	return &HTTPSink{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (s *HTTPSink) Name() string { return "http" }

func (s *HTTPSink) endpoint(t EventType) (string, bool) {
	switch t {
	case EventMatchTitle:
		return s.baseURL + "/match/title", true
	case EventMatchScores:
		return s.baseURL + "/match/scores", true
	}
	return "", false
}

// Deliver returns a permanent error for 4xx answers so they are not retried.
func (s *HTTPSink) Deliver(ctx context.Context, ev Event) error {
	url, ok := s.endpoint(ev.Type)
	if !ok {
		return nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(payloadFor(ev))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("failed to encode overlay payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("failed to build overlay request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("overlay request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests:
		return backoff.Permanent(&StatusError{URL: url, StatusCode: resp.StatusCode})
	default:
		return &StatusError{URL: url, StatusCode: resp.StatusCode}
	}
}
