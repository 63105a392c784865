package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// DailyReading is one historical weather response for a calendar date.
type DailyReading struct {
	Date string          `json:"date"`
	Body json.RawMessage `json:"body"`
}

// WeatherPayload is the raw OpenWeather input for the weather dataset:
// the current-weather lookup for a city plus one historical body per day.
type WeatherPayload struct {
	City     string          `json:"city,omitempty"`
	Location json.RawMessage `json:"location"`
	Days     []DailyReading  `json:"days"`
}

// openWeatherLocation is the subset of the current-weather response we read.
type openWeatherLocation struct {
	Coord   *Coordinates    `json:"coord"`
	Cod     json.RawMessage `json:"cod"`
	Message string          `json:"message"`
}

// openWeatherHistory is the subset of a timemachine response we read.
type openWeatherHistory struct {
	Current *struct {
		Temp     *float64 `json:"temp"`
		Humidity *float64 `json:"humidity"`
		Pressure *float64 `json:"pressure"`
		Rain     *struct {
			OneHour *float64 `json:"1h"`
		} `json:"rain"`
	} `json:"current"`
}

// Coordinates is a WGS-84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// LocateCity extracts the coordinates from a current-weather response.
func LocateCity(body json.RawMessage) (Coordinates, error) {
	var loc openWeatherLocation
	if len(body) == 0 {
		return Coordinates{}, &ShapeError{Dataset: Weather, Missing: "coord"}
	}
	if err := json.Unmarshal(body, &loc); err != nil {
		return Coordinates{}, fmt.Errorf("decode weather location: %w", err)
	}
	if loc.Coord == nil {
		if loc.Message != "" {
			return Coordinates{}, openWeatherError(loc)
		}
		return Coordinates{}, &ShapeError{Dataset: Weather, Missing: "coord"}
	}
	return *loc.Coord, nil
}

func openWeatherError(loc openWeatherLocation) error {
	code := string(loc.Cod)
	if unquoted, err := strconv.Unquote(code); err == nil {
		code = unquoted
	}
	if code == "429" {
		return RateLimitError("OpenWeather")
	}
	return &ProviderError{Provider: "OpenWeather", Message: loc.Message}
}

// NormalizeWeather converts a WeatherPayload into the weather series.
// Days without a complete "current" reading are skipped.
func NormalizeWeather(p WeatherPayload) (Series, error) {
	if _, err := LocateCity(p.Location); err != nil {
		return Series{}, err
	}

	series := EmptySeries(Weather)
	for _, day := range p.Days {
		h, ok := decodeHistory(day.Body)
		if !ok || h.Current.Temp == nil || h.Current.Humidity == nil || h.Current.Pressure == nil {
			continue
		}
		series.Records = append(series.Records, Record{
			Date: day.Date,
			Numbers: map[string]float64{
				"temperature": *h.Current.Temp,
				"humidity":    *h.Current.Humidity,
				"pressure":    *h.Current.Pressure,
			},
		})
	}
	sortByDate(series.Records)
	return series, nil
}

func decodeHistory(body json.RawMessage) (openWeatherHistory, bool) {
	var h openWeatherHistory
	if len(body) == 0 {
		return h, false
	}
	if err := json.Unmarshal(body, &h); err != nil {
		return h, false
	}
	return h, h.Current != nil
}
