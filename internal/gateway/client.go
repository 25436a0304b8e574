package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/config"
)

// Client talks to the SMS/call gateway over HTTP with convenience helpers.
type Client struct {
	// baseURL is the gateway endpoint, without a trailing slash.
	baseURL string
	// httpClient performs the requests; replaceable for tests.
	httpClient *http.Client

	// callTimeout is the default bound for individual gateway calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for gateway calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

var (
	// errAddressRequired is returned when the gateway URL is missing.
	errAddressRequired = errors.New("gateway URL must be provided")
	// ErrNotConfigured indicates the gateway has no provider credentials.
	// It is a whole-channel condition, not a per-recipient failure.
	ErrNotConfigured = errors.New("gateway provider not configured")
)

// NewClient creates a client for the gateway at the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errAddressRequired
	}

	client := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{},
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// SendSMS delivers the alert as text messages to every contact in the request.
func (c *Client) SendSMS(ctx context.Context, req *SendRequest) (*SendResponse, error) {
	return c.post(ctx, "/send-sms", req)
}

// MakeCall delivers the alert as voice calls to every contact in the request.
func (c *Client) MakeCall(ctx context.Context, req *SendRequest) (*SendResponse, error) {
	return c.post(ctx, "/make-call", req)
}

// Health reports the gateway status and provider configuration state.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return nil, fmt.Errorf("build health request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gateway health: %w", err)
	}
	defer resp.Body.Close()

	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("decode health response: %w", err)
	}

	return &health, nil
}

// post sends the request body to the given path and decodes the response.
// A 500 carrying the provider-unconfigured message maps to ErrNotConfigured.
func (c *Client) post(ctx context.Context, path string, req *SendRequest) (*SendResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gateway %s: %w", path, err)
	}
	defer resp.Body.Close()

	var decoded SendResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response from %s: %w", path, err)
	}

	if resp.StatusCode == http.StatusOK {
		return &decoded, nil
	}

	if resp.StatusCode == http.StatusInternalServerError && decoded.Error == NotConfiguredMessage {
		return nil, fmt.Errorf("%s: %w", path, ErrNotConfigured)
	}

	if decoded.Error != "" {
		return nil, fmt.Errorf("gateway %s: %s", path, decoded.Error)
	}

	return nil, fmt.Errorf("gateway %s: unexpected status %d", path, resp.StatusCode)
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
