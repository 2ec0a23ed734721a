package tmdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Client represents a TMDB v3 API client. It is safe for concurrent use; it
// holds no session state of its own.
type Client struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
	userAgent  string
	logger     zerolog.Logger
}

// NewClient creates a new TMDB client
func NewClient(apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: tmdb API key is required", ErrInvalidConfig)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	base, err := ParseBaseURL(o.baseURL)
	if err != nil {
		return nil, err
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.timeout}
	}

	return &Client{
		baseURL:    base,
		apiKey:     apiKey,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(o.rateLimit, o.rateBurst),
		maxRetries: o.maxRetries,
		retryDelay: o.retryDelay,
		userAgent:  o.userAgent,
		logger:     logger,
	}, nil
}

// endpoint builds the full URL for path, always carrying the API key.
func (c *Client) endpoint(path string, params Params) *url.URL {
	all := make(Params, len(params)+1)
	for k, v := range params {
		all[k] = v
	}
	all[ParamAPIKey] = c.apiKey
	return BuildURL(c.baseURL, path, all)
}

// doJSON performs a request against the API and returns the validated payload.
func (c *Client) doJSON(ctx context.Context, method, path string, params Params, body any) (Payload, error) {
	var encoded []byte
	if body != nil {
		var err error
		encoded, err = json.Marshal(body)
		if err != nil {
			return Payload{}, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}
	target := c.endpoint(path, params).String()

	return retry(ctx, c, method, path, func() (Payload, error) {
		req, err := c.newRequest(ctx, method, target, encoded)
		if err != nil {
			return Payload{}, err
		}
		return ValidateResponse(c.httpClient.Do(req))
	})
}

// doRaw fetches an absolute URL and returns the validated raw body.
func (c *Client) doRaw(ctx context.Context, rawURL string) ([]byte, error) {
	return retry(ctx, c, http.MethodGet, rawURL, func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		return ValidateRaw(c.httpClient.Do(req))
	})
}

func (c *Client) newRequest(ctx context.Context, method, target string, body []byte) (*http.Request, error) {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	var req *http.Request
	var err error
	if reader != nil {
		req, err = http.NewRequestWithContext(ctx, method, target, reader)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, target, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json;charset=utf-8")
	}
	return req, nil
}

// retry runs attempt until it succeeds, fails with a non-transport error or
// the retry budget is spent. The delay doubles after every failed attempt.
// Only idempotent methods are sent more than once.
func retry[T any](ctx context.Context, c *Client, method, what string, attempt func() (T, error)) (T, error) {
	var zero T
	delay := c.retryDelay

	for try := 0; ; try++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return zero, &TransportError{Err: err}
		}

		c.logger.Debug().
			Str("method", method).
			Str("endpoint", what).
			Int("attempt", try+1).
			Msg("Making TMDB API request")

		result, err := attempt()
		if err == nil {
			return result, nil
		}
		if !IsRetryable(err) || !idempotent(method) || try >= c.maxRetries || ctx.Err() != nil {
			return zero, err
		}

		c.logger.Warn().
			Err(err).
			Str("endpoint", what).
			Dur("backoff", delay).
			Msg("Transport failure, retrying")

		if serr := sleepWithContext(ctx, delay); serr != nil {
			return zero, err
		}
		delay *= 2
	}
}

// idempotent reports whether a request can be replayed after a transport
// failure. A POST may already have been carried out by the provider.
func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead:
		return true
	default:
		return false
	}
}

// sleepWithContext waits for the duration or returns early on context cancellation.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
