// Package diseasesh fetches global historical COVID-19 counts from disease.sh.
package diseasesh

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/couchcryptid/cross-domain-correlator/internal/adapter/upstream"
)

const provider = "disease.sh"

// Client reads the global historical endpoint.
type Client struct {
	upstream *upstream.Client
	baseURL  string
}

// NewClient creates a disease.sh client.
func NewClient(up *upstream.Client, baseURL string) *Client {
	return &Client{upstream: up, baseURL: baseURL}
}

// FetchHistorical returns the raw cumulative counts for the last days.
func (c *Client) FetchHistorical(ctx context.Context, lastDays int) (json.RawMessage, error) {
	body, err := c.upstream.Get(ctx, provider, c.baseURL+"/v3/covid-19/historical/all?lastdays="+strconv.Itoa(lastDays))
	if err != nil {
		return nil, fmt.Errorf("historical counts: %w", err)
	}
	return body, nil
}
