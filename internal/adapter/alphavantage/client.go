// Package alphavantage fetches daily stock series from Alpha Vantage.
package alphavantage

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/couchcryptid/cross-domain-correlator/internal/adapter/upstream"
	"github.com/couchcryptid/cross-domain-correlator/internal/domain"
	"golang.org/x/time/rate"
)

const provider = "Alpha Vantage"

// Client calls TIME_SERIES_DAILY under a local per-minute quota that mirrors
// the provider's free tier.
type Client struct {
	upstream *upstream.Client
	baseURL  string
	apiKey   string
	limiter  *rate.Limiter
}

// NewClient creates a client allowing perMinute calls per minute.
func NewClient(up *upstream.Client, baseURL, apiKey string, perMinute int) *Client {
	return &Client{
		upstream: up,
		baseURL:  baseURL,
		apiKey:   apiKey,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
	}
}

// FetchDaily returns the raw daily series for symbol. When the local quota is
// spent the call fails immediately with a rate-limited error.
func (c *Client) FetchDaily(ctx context.Context, symbol string) (domain.TechPayload, error) {
	if !c.limiter.Allow() {
		return domain.TechPayload{}, domain.RateLimitError(provider)
	}

	params := url.Values{
		"function": {"TIME_SERIES_DAILY"},
		"symbol":   {symbol},
		"apikey":   {c.apiKey},
	}
	body, err := c.upstream.Get(ctx, provider, c.baseURL+"/query?"+params.Encode())
	if err != nil {
		return domain.TechPayload{}, fmt.Errorf("daily series for %s: %w", symbol, err)
	}
	return domain.TechPayload{Company: symbol, Body: body}, nil
}
