// Package api provides the advice service client.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	"github.com/diogo/relgpt/internal/models"
)

// DefaultTimeout bounds a single advice request
const DefaultTimeout = 60 * time.Second

// HTTPDoer is the part of tls_client.HttpClient the advice client needs
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// AdviceClientInterface is what the TUI and commands need from the advice client
type AdviceClientInterface interface {
	GetAdvice(ctx context.Context, text string) string
	Endpoint() string
	Close()
}

// AdviceClient sends user messages to the advice service
type AdviceClient struct {
	httpClient HTTPDoer
	endpoint   string
	timeout    time.Duration
	apology    string
	fallback   string
	logger     *slog.Logger
	mu         sync.RWMutex
	closed     bool
}

// ClientOption is a function that configures the client
type ClientOption func(*AdviceClient)

// WithEndpoint sets the advice endpoint URL
func WithEndpoint(endpoint string) ClientOption {
	return func(c *AdviceClient) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *AdviceClient) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithHTTPClient replaces the transport (used by tests)
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *AdviceClient) {
		c.httpClient = doer
	}
}

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *AdviceClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithApology overrides the reply used when the service answers without one
func WithApology(text string) ClientOption {
	return func(c *AdviceClient) {
		if text != "" {
			c.apology = text
		}
	}
}

// WithFallback overrides the reply used when the request fails
func WithFallback(text string) ClientOption {
	return func(c *AdviceClient) {
		if text != "" {
			c.fallback = text
		}
	}
}

// NewClient creates a new AdviceClient
func NewClient(opts ...ClientOption) (*AdviceClient, error) {
	client := &AdviceClient{
		endpoint: models.DefaultEndpoint,
		timeout:  DefaultTimeout,
		apology:  models.ApologyText,
		fallback: models.FallbackText,
		logger:   slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(int(client.timeout / time.Second)),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// Endpoint returns the advice endpoint URL
func (c *AdviceClient) Endpoint() string {
	return c.endpoint
}

// Timeout returns the per-request timeout
func (c *AdviceClient) Timeout() time.Duration {
	return c.timeout
}

// Close releases idle connections. Requests made after Close fall back.
func (c *AdviceClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	if idle, ok := c.httpClient.(interface{ CloseIdleConnections() }); ok {
		idle.CloseIdleConnections()
	}
}

// IsClosed returns whether the client is closed
func (c *AdviceClient) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
