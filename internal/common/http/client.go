package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"language-enricher/internal/circuitbreaker"
	"language-enricher/internal/common/errors"
	"language-enricher/internal/common/logging"
	"language-enricher/internal/common/ratelimit"
	"language-enricher/internal/models"
)

// maxDiscardBytes bounds how much of an error response is drained so the
// connection can be reused
const maxDiscardBytes = 64 << 10

// ClientConfig holds HTTP client configuration
type ClientConfig struct {
	Timeout             time.Duration
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
	DisableKeepAlives   bool
	DisableCompression  bool
	InsecureSkipVerify  bool
	CircuitBreaker      *circuitbreaker.GoBreakerAdapter
	RateLimiter         ratelimit.Limiter
	Logger              logging.Logger
}

// DefaultClientConfig returns default HTTP client configuration
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:             30 * time.Second,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DisableKeepAlives:   false,
		DisableCompression:  false,
		InsecureSkipVerify:  false,
	}
}

// ClientOption is a function that modifies ClientConfig
type ClientOption func(*ClientConfig)

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.Timeout = timeout
	}
}

// WithMaxIdleConns sets the maximum number of idle connections
func WithMaxIdleConns(max int) ClientOption {
	return func(c *ClientConfig) {
		c.MaxIdleConns = max
	}
}

// WithMaxIdleConnsPerHost sets the maximum number of idle connections per host
func WithMaxIdleConnsPerHost(max int) ClientOption {
	return func(c *ClientConfig) {
		c.MaxIdleConnsPerHost = max
	}
}

// WithIdleConnTimeout sets the idle connection timeout
func WithIdleConnTimeout(timeout time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.IdleConnTimeout = timeout
	}
}

// WithoutKeepAlives disables keep-alives
func WithoutKeepAlives() ClientOption {
	return func(c *ClientConfig) {
		c.DisableKeepAlives = true
	}
}

// WithoutCompression disables compression
func WithoutCompression() ClientOption {
	return func(c *ClientConfig) {
		c.DisableCompression = true
	}
}

// WithInsecureSkipVerify disables SSL certificate verification
func WithInsecureSkipVerify() ClientOption {
	return func(c *ClientConfig) {
		c.InsecureSkipVerify = true
	}
}

// WithCircuitBreaker guards every call with the given breaker
func WithCircuitBreaker(cb *circuitbreaker.GoBreakerAdapter) ClientOption {
	return func(c *ClientConfig) {
		c.CircuitBreaker = cb
	}
}

// WithRateLimiter makes every call wait on the given limiter first
func WithRateLimiter(limiter ratelimit.Limiter) ClientOption {
	return func(c *ClientConfig) {
		c.RateLimiter = limiter
	}
}

// WithLogger sets the logger used for failed calls
func WithLogger(logger logging.Logger) ClientOption {
	return func(c *ClientConfig) {
		c.Logger = logger
	}
}

func newHTTPClient(cfg ClientConfig) *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		DisableKeepAlives:   cfg.DisableKeepAlives,
		DisableCompression:  cfg.DisableCompression,
	}

	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
	}
}

// Client posts JSON to the language detection service. It makes exactly one
// attempt per call and is safe for concurrent use.
type Client struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.GoBreakerAdapter
	rateLimiter    ratelimit.Limiter
	logger         logging.Logger
}

// NewClient creates a Client with the given options
func NewClient(opts ...ClientOption) *Client {
	cfg := DefaultClientConfig()

	for _, opt := range opts {
		opt(&cfg)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	return &Client{
		client:         newHTTPClient(cfg),
		circuitBreaker: cfg.CircuitBreaker,
		rateLimiter:    cfg.RateLimiter,
		logger:         logger,
	}
}

// PostJSON sends payload as a JSON POST to url and returns the decoded
// response object. Only a 200 answer is a success; any other status yields a
// request error carrying that status and its body is discarded unread.
// Network failures and malformed JSON yield a transport error wrapping the
// cause. Well-formed JSON that is not an object decodes to an empty response.
// A non-empty token is sent as a bearer credential.
func (c *Client) PostJSON(ctx context.Context, url string, payload interface{}, token string) (models.DetectionResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.ValidationError("payload is not serializable as JSON").WithContext("error", err.Error())
	}

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			c.logger.WithContext(ctx).Warn("Language detection request rate limited",
				logging.Field{Key: "url", Value: url},
				logging.Err(err),
			)
			return nil, errors.RateLimitError("language detection service")
		}
	}

	var result models.DetectionResponse
	call := func() error {
		var callErr error
		result, callErr = c.do(ctx, url, body, token)
		return callErr
	}

	if c.circuitBreaker != nil {
		err = c.circuitBreaker.Execute(ctx, call)
	} else {
		err = call()
	}
	if err != nil {
		return nil, err
	}

	return result, nil
}

// do executes a single round trip
func (c *Client) do(ctx context.Context, url string, body []byte, token string) (models.DetectionResponse, error) {
	logger := c.logger.WithContext(ctx)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.TransportError("failed to create request", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		logger.Error("Language detection request failed", err,
			logging.Field{Key: "url", Value: url},
			logging.Field{Key: "duration", Value: time.Since(start).String()},
		)
		return nil, errors.TransportError("request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDiscardBytes))
		reqErr := errors.RequestError(resp.StatusCode)
		logger.Error("Language detection service returned an error", reqErr,
			logging.Field{Key: "url", Value: url},
			logging.Field{Key: "status_code", Value: resp.StatusCode},
			logging.Field{Key: "duration", Value: time.Since(start).String()},
		)
		return nil, reqErr
	}

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error("Failed to read language detection response", err,
			logging.Field{Key: "url", Value: url},
		)
		return nil, errors.TransportError("failed to read response body", err)
	}

	var raw interface{}
	if err := models.DecodeJSON(responseBody, &raw); err != nil {
		logger.Error("Failed to parse language detection response", err,
			logging.Field{Key: "url", Value: url},
		)
		return nil, errors.TransportError("failed to parse response body", err)
	}

	decoded, ok := raw.(map[string]interface{})
	if !ok {
		logger.Warn("Language detection response is not an object, nothing to merge",
			logging.Field{Key: "url", Value: url},
			logging.Field{Key: "type", Value: fmt.Sprintf("%T", raw)},
		)
		decoded = map[string]interface{}{}
	}

	logger.Debug("Language detection request completed",
		logging.Field{Key: "url", Value: url},
		logging.Field{Key: "keys", Value: len(decoded)},
		logging.Field{Key: "duration", Value: time.Since(start).String()},
	)

	return models.DetectionResponse(decoded), nil
}
