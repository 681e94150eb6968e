// Package fetch issues outbound HTTP requests with bounded retry and
// exponential backoff. Transient failures (transport errors and a fixed set
// of retryable statuses) are retried; anything else fails immediately.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
)

// retryableStatus is the set of HTTP statuses treated as transient.
var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Error is the terminal failure returned after exhausting retries or hitting
// a non-retryable status.
type Error struct {
	URL        string
	Attempts   int
	LastStatus int // 0 when the last failure was a transport error
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetch %s: %d attempt(s): %v", e.URL, e.Attempts, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Client is a retrying HTTP fetcher. Backoff sleeps go through the injected
// clock so tests can drive them deterministically.
type Client struct {
	rest     *resty.Client
	clock    clockwork.Clock
	logger   *slog.Logger
	attempts int
	backoff  time.Duration
	retries  prometheus.Counter
}

// New creates a Client. attempts is the total number of tries (initial +
// retries); backoff is the delay before the first retry and doubles after
// each one, with no jitter. retries may be nil to skip counting.
func New(timeout time.Duration, userAgent string, attempts int, backoff time.Duration, clock clockwork.Clock, logger *slog.Logger, retries prometheus.Counter) *Client {
	rest := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent)

	return &Client{
		rest:     rest,
		clock:    clock,
		logger:   logger,
		attempts: attempts,
		backoff:  backoff,
		retries:  retries,
	}
}

// Get performs a GET with the given query parameters and extra headers,
// returning the response body. Statuses below 400 succeed. Statuses in the
// retryable set and transport errors are retried up to the attempt budget;
// any other status fails immediately without retry.
func (c *Client) Get(ctx context.Context, url string, params, headers map[string]string) ([]byte, error) {
	delay := c.backoff

	var lastErr error
	var lastStatus int

	for attempt := 1; ; attempt++ {
		resp, err := c.rest.R().
			SetContext(ctx).
			SetQueryParams(params).
			SetHeaders(headers).
			Get(url)

		switch {
		case err != nil:
			lastErr = err
			lastStatus = 0
		case resp.StatusCode() < http.StatusBadRequest:
			return resp.Body(), nil
		case retryableStatus[resp.StatusCode()]:
			lastStatus = resp.StatusCode()
			lastErr = fmt.Errorf("http status %d", lastStatus)
		default:
			return nil, &Error{
				URL:        url,
				Attempts:   attempt,
				LastStatus: resp.StatusCode(),
				Err:        fmt.Errorf("http status %d", resp.StatusCode()),
			}
		}

		if attempt >= c.attempts {
			return nil, &Error{URL: url, Attempts: attempt, LastStatus: lastStatus, Err: lastErr}
		}

		c.logger.Warn("retrying fetch",
			"url", url,
			"attempt", attempt,
			"cause", lastErr.Error(),
			"delay", delay,
		)
		if c.retries != nil {
			c.retries.Inc()
		}
		c.clock.Sleep(delay)
		delay *= 2
	}
}
