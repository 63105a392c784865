// Package yahoo fetches daily price charts from the Yahoo Finance chart API.
package yahoo

import (
	"context"
	"fmt"
	"net/url"

	"github.com/couchcryptid/cross-domain-correlator/internal/adapter/upstream"
	"github.com/couchcryptid/cross-domain-correlator/internal/domain"
)

const provider = "Yahoo Finance"

// Client requests one chart per symbol.
type Client struct {
	upstream *upstream.Client
	baseURL  string
	rng      string
}

// NewClient creates a chart client covering the given range (e.g. "1mo").
func NewClient(up *upstream.Client, baseURL, rng string) *Client {
	return &Client{upstream: up, baseURL: baseURL, rng: rng}
}

// FetchCharts returns the raw chart body for every symbol, keyed by symbol.
// The first failing symbol aborts the fetch.
func (c *Client) FetchCharts(ctx context.Context, symbols []string) (domain.FinancialPayload, error) {
	payload := make(domain.FinancialPayload, len(symbols))
	for _, symbol := range symbols {
		params := url.Values{"range": {c.rng}, "interval": {"1d"}}
		u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), params.Encode())
		body, err := c.upstream.Get(ctx, provider, u)
		if err != nil {
			return nil, fmt.Errorf("chart for %s: %w", symbol, err)
		}
		payload[symbol] = body
	}
	return payload, nil
}
