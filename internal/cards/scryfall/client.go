package scryfall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL   = "https://api.scryfall.com"
	defaultUserAgent = "MTG-Inventory/1.0"
)

// Recorder receives one observation per HTTP attempt.
type Recorder interface {
	ObserveCatalogRequest(endpoint, status string, elapsed time.Duration)
}

// Options configures a Client. Zero fields fall back to DefaultOptions.
type Options struct {
	BaseURL   string
	UserAgent string

	RequestTimeout time.Duration

	// RequestDelay is the minimum spacing between requests.
	// Scryfall asks clients to stay around 10 requests per second.
	RequestDelay time.Duration

	// MaxRetries bounds retries after the first attempt for network
	// errors, HTTP 429 and 5xx responses.
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// HTTPClient overrides the client built from RequestTimeout.
	HTTPClient *http.Client

	Metrics Recorder
	Logger  *slog.Logger
}

// DefaultOptions returns the options used against the public Scryfall API.
func DefaultOptions() Options {
	return Options{
		BaseURL:        defaultBaseURL,
		UserAgent:      defaultUserAgent,
		RequestTimeout: 30 * time.Second,
		RequestDelay:   50 * time.Millisecond,
		MaxRetries:     3,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     16 * time.Second,
	}
}

// Client represents a Scryfall API client with rate limiting.
type Client struct {
	baseURL        string
	userAgent      string
	httpClient     *http.Client
	rateLimiter    *rate.Limiter
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	metrics        Recorder
	logger         *slog.Logger
}

// NewClient creates a new Scryfall API client.
func NewClient(opts Options) *Client {
	def := DefaultOptions()
	if opts.BaseURL == "" {
		opts.BaseURL = def.BaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = def.UserAgent
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = def.RequestTimeout
	}
	if opts.RequestDelay <= 0 {
		opts.RequestDelay = def.RequestDelay
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = def.InitialBackoff
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = def.MaxBackoff
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.RequestTimeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:        opts.BaseURL,
		userAgent:      opts.UserAgent,
		httpClient:     httpClient,
		rateLimiter:    rate.NewLimiter(rate.Every(opts.RequestDelay), 1),
		maxRetries:     opts.MaxRetries,
		initialBackoff: opts.InitialBackoff,
		maxBackoff:     opts.MaxBackoff,
		metrics:        opts.Metrics,
		logger:         logger.With("component", "scryfall"),
	}
}

// GetSet retrieves set information by set code.
func (c *Client) GetSet(ctx context.Context, code string) (*Set, error) {
	u := fmt.Sprintf("%s/sets/%s", c.baseURL, url.PathEscape(code))

	var set Set
	if err := c.doRequest(ctx, "set", u, &set); err != nil {
		return nil, fmt.Errorf("failed to get set %s: %w", code, err)
	}

	return &set, nil
}

// GetCardByCollectorNumber retrieves the printing with the given collector
// number from a set.
func (c *Client) GetCardByCollectorNumber(ctx context.Context, code string, number int) (*Card, error) {
	u := fmt.Sprintf("%s/cards/%s/%d", c.baseURL, url.PathEscape(code), number)

	var card Card
	if err := c.doRequest(ctx, "card", u, &card); err != nil {
		return nil, fmt.Errorf("failed to get card %s/%d: %w", code, number, err)
	}

	return &card, nil
}

// retryableError marks an attempt that may succeed if repeated.
type retryableError struct {
	err        error
	retryAfter time.Duration
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// doRequest performs an HTTP GET with rate limiting and retry logic.
func (c *Client) doRequest(ctx context.Context, endpoint, url string, result any) error {
	var lastErr error
	backoff := c.initialBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		err := c.attempt(ctx, endpoint, url, result)
		if err == nil {
			return nil
		}

		var retryErr *retryableError
		if !errors.As(err, &retryErr) {
			return err
		}
		lastErr = retryErr.err

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt == c.maxRetries {
			break
		}

		wait := backoff
		if retryErr.retryAfter > 0 {
			wait = retryErr.retryAfter
		}
		c.logger.Warn("retrying catalog request",
			"url", url, "attempt", attempt+1, "wait", wait, "error", lastErr)

		if err := sleep(ctx, wait); err != nil {
			return err
		}
		backoff = min(backoff*2, c.maxBackoff)
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// attempt performs a single request. Errors worth repeating are wrapped
// in *retryableError.
func (c *Client) attempt(ctx context.Context, endpoint, url string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(endpoint, "error", start)
		return &retryableError{err: fmt.Errorf("HTTP request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()
	c.observe(endpoint, strconv.Itoa(resp.StatusCode), start)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &retryableError{err: fmt.Errorf("failed to read response body: %w", err)}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to parse JSON response: %w", err)
		}
		return nil

	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{URL: url}

	case resp.StatusCode == http.StatusTooManyRequests:
		return &retryableError{
			err:        parseAPIError(resp.StatusCode, body),
			retryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}

	case resp.StatusCode >= http.StatusInternalServerError:
		return &retryableError{err: parseAPIError(resp.StatusCode, body)}

	default:
		return parseAPIError(resp.StatusCode, body)
	}
}

func (c *Client) observe(endpoint, status string, start time.Time) {
	if c.metrics != nil {
		c.metrics.ObserveCatalogRequest(endpoint, status, time.Since(start))
	}
}

// parseAPIError decodes a Scryfall error object, falling back to the raw body.
func parseAPIError(status int, body []byte) *APIError {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Object != "error" {
		apiErr = APIError{Object: "error", Details: string(body)}
	}
	apiErr.Status = status
	return &apiErr
}

// parseRetryAfter reads a Retry-After header given in seconds.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
