// Package crawler fetches GPU specifications from the vendor database used to
// enrich the CSV extracts.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"speclogic/internal/config"
	"speclogic/internal/logger"
	"speclogic/pkg/utils"
)

// ErrUnexpectedStatusCode indicates an HTTP response with unexpected status.
var ErrUnexpectedStatusCode = errors.New("unexpected status code")

// Scraper handles page fetches with config-driven retry logic.
type Scraper struct {
	client       *http.Client
	retryPolicy  config.RetryPolicy
	bufferSizeKb int
	headers      *utils.HTTPHelper
	sleep        func(ctx context.Context, d time.Duration) error
	logger       *logger.Logger
}

// NewScraper creates a scraper from the scraper config section.
func NewScraper(cfg config.ScraperConfig, log *logger.Logger) *Scraper {
	retry := cfg.Retry
	if retry.MaxAttempts < 1 {
		retry.MaxAttempts = 1
	}

	timeout := retry.GetTimeout()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	bufferSizeKb := cfg.BufferSizeKb
	if bufferSizeKb <= 0 {
		bufferSizeKb = 1024
	}

	return &Scraper{
		client:       &http.Client{Timeout: timeout},
		retryPolicy:  retry,
		bufferSizeKb: bufferSizeKb,
		headers:      utils.NewHTTPHelper(),
		sleep:        sleepContext,
		logger:       logger.OrNop(log),
	}
}

// SetSleep replaces the wait used between attempts.
func (s *Scraper) SetSleep(fn func(ctx context.Context, d time.Duration) error) {
	s.sleep = fn
}

// FetchWithMetrics returns (content, statusCode, duration, error).
func (s *Scraper) FetchWithMetrics(ctx context.Context, url string) (string, int, time.Duration, error) {
	var lastErr error

	var lastStatusCode int

	totalDuration := time.Duration(0)

	for attempt := 1; attempt <= s.retryPolicy.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := s.sleep(ctx, s.retryPolicy.GetRetryDelay(attempt)); err != nil {
				return "", lastStatusCode, totalDuration, err
			}
		}

		startTime := time.Now()
		body, status, err := s.fetchOnce(ctx, url)
		totalDuration += time.Since(startTime)
		lastStatusCode = status

		if err == nil {
			return body, status, totalDuration, nil
		}

		lastErr = fmt.Errorf("request failed (attempt %d/%d): %w", attempt, s.retryPolicy.MaxAttempts, err)

		if ctx.Err() != nil {
			return "", lastStatusCode, totalDuration, ctx.Err()
		}

		// Only transport failures and temporary statuses are retried
		if status != 0 && !isRetryableStatus(status) {
			break
		}

		s.logger.Warn("Fetch attempt failed", "url", url, "attempt", attempt, "error", err)
	}

	return "", lastStatusCode, totalDuration, lastErr
}

// Fetch returns the body of url.
func (s *Scraper) Fetch(ctx context.Context, url string) (string, error) {
	content, _, _, err := s.FetchWithMetrics(ctx, url)

	return content, err
}

func (s *Scraper) fetchOnce(ctx context.Context, url string) (body string, status int, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header = s.headers.BuildHeaders(map[string]string{
		"Accept": "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	})

	resp, err := s.client.Do(req)
	if err != nil {
		return "", 0, err
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", resp.StatusCode, fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	// bufferSizeKb is in KB, convert to bytes
	limit := int64(s.bufferSizeKb) * 1024

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	return string(data), resp.StatusCode, nil
}

// isRetryableStatus determines if we should retry based on HTTP status code.
func isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
		http.StatusTooManyRequests,
		http.StatusRequestTimeout:
		return true
	}

	return false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
