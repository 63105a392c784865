// Package upstream holds the HTTP plumbing shared by the provider clients:
// status classification, provider message extraction and request metrics.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/cross-domain-correlator/internal/domain"
	"github.com/couchcryptid/cross-domain-correlator/internal/observability"
)

// maxBodyBytes bounds how much of a provider response is read into memory.
const maxBodyBytes = 16 << 20

// Client performs GET requests against a provider and maps failures onto the
// domain error taxonomy.
type Client struct {
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an upstream client with the given request timeout.
func NewClient(timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics,
		logger:     logger,
	}
}

// Get fetches url and returns the raw body for a 2xx response.
// A 429 becomes a rate-limited ProviderError, any other 4xx a ProviderError
// carrying the provider's own message, and 5xx or transport failures wrap
// domain.ErrUpstreamUnavailable.
func (c *Client) Get(ctx context.Context, provider, url string) (body json.RawMessage, err error) {
	start := time.Now()
	defer func() {
		c.metrics.UpstreamRequests.WithLabelValues(provider, domain.Kind(err)).Inc()
		c.metrics.UpstreamDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", provider, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, domain.Unavailable(provider, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, domain.Unavailable(provider, fmt.Errorf("read body: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, domain.RateLimitError(provider)
	case resp.StatusCode >= 500:
		return nil, domain.Unavailable(provider, fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode >= 400:
		msg := ProviderMessage(data)
		if msg == "" {
			msg = fmt.Sprintf("%s: %s", provider, http.StatusText(resp.StatusCode))
		}
		c.logger.Warn("upstream rejected request",
			"provider", provider,
			"status", resp.StatusCode,
			"message", msg,
		)
		return nil, &domain.ProviderError{Provider: provider, Message: msg}
	}

	return data, nil
}

// providerBody lists the places providers put a human-readable error.
type providerBody struct {
	Message      string          `json:"message"`
	Error        json.RawMessage `json:"error"`
	ErrorMessage string          `json:"Error Message"`
	Chart        *struct {
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// ProviderMessage extracts the error text a provider put in a response body.
// It returns "" when the body is not JSON or carries no recognizable message.
func ProviderMessage(data []byte) string {
	var b providerBody
	if err := json.Unmarshal(data, &b); err != nil {
		return ""
	}
	switch {
	case b.Message != "":
		return b.Message
	case b.ErrorMessage != "":
		return b.ErrorMessage
	case b.Chart != nil && b.Chart.Error != nil:
		if b.Chart.Error.Description != "" {
			return b.Chart.Error.Description
		}
		return b.Chart.Error.Code
	}
	var s string
	if len(b.Error) > 0 && json.Unmarshal(b.Error, &s) == nil {
		return s
	}
	return ""
}
