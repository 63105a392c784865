// Package openweather fetches current and historical weather from the
// OpenWeather API as raw payloads for the weather and agriculture datasets.
package openweather

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/couchcryptid/cross-domain-correlator/internal/adapter/upstream"
	"github.com/couchcryptid/cross-domain-correlator/internal/domain"
)

const provider = "OpenWeather"

// Client calls the OpenWeather current-weather and timemachine endpoints.
type Client struct {
	upstream *upstream.Client
	baseURL  string
	apiKey   string
}

// NewClient creates an OpenWeather client.
func NewClient(up *upstream.Client, baseURL, apiKey string) *Client {
	return &Client{upstream: up, baseURL: baseURL, apiKey: apiKey}
}

// FetchCity resolves city to coordinates, then collects one historical
// reading per day of the observation window.
func (c *Client) FetchCity(ctx context.Context, city string, days int) (domain.WeatherPayload, error) {
	params := url.Values{
		"q":     {city},
		"appid": {c.apiKey},
		"units": {"metric"},
	}
	location, err := c.upstream.Get(ctx, provider, c.baseURL+"/data/2.5/weather?"+params.Encode())
	if err != nil {
		return domain.WeatherPayload{}, fmt.Errorf("current weather for %s: %w", city, err)
	}

	coords, err := domain.LocateCity(location)
	if err != nil {
		return domain.WeatherPayload{}, err
	}

	history, err := c.FetchHistory(ctx, coords, days)
	if err != nil {
		return domain.WeatherPayload{}, err
	}
	return domain.WeatherPayload{City: city, Location: location, Days: history}, nil
}

// FetchHistory returns the timemachine response for each of the last days,
// most recent first.
func (c *Client) FetchHistory(ctx context.Context, at domain.Coordinates, days int) ([]domain.DailyReading, error) {
	window := domain.ObservationWindow(days)
	readings := make([]domain.DailyReading, 0, len(window))
	for _, day := range window {
		params := url.Values{
			"lat":   {formatCoord(at.Lat)},
			"lon":   {formatCoord(at.Lon)},
			"dt":    {strconv.FormatInt(day.Unix, 10)},
			"appid": {c.apiKey},
			"units": {"metric"},
		}
		body, err := c.upstream.Get(ctx, provider, c.baseURL+"/data/2.5/onecall/timemachine?"+params.Encode())
		if err != nil {
			return nil, fmt.Errorf("historical weather for %s: %w", day.Date, err)
		}
		readings = append(readings, domain.DailyReading{Date: day.Date, Body: body})
	}
	return readings, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
