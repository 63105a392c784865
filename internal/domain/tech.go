package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// TechPayload is the raw Alpha Vantage daily series for one tracked company.
type TechPayload struct {
	Category    string          `json:"category"`
	Company     string          `json:"company"`
	CompanyName string          `json:"company_name"`
	Body        json.RawMessage `json:"body"`
}

const alphaVantageSeriesKey = "Time Series (Daily)"

type alphaVantageDaily struct {
	Series      map[string]alphaVantageBar `json:"Time Series (Daily)"`
	Note        string                     `json:"Note"`
	Information string                     `json:"Information"`
	Error       string                     `json:"Error Message"`
}

type alphaVantageBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// NormalizeTech converts an Alpha Vantage daily series into the tech series.
// Prices are parsed as decimals so volatility (high - low) carries no binary
// rounding from the subtraction.
func NormalizeTech(p TechPayload) (Series, error) {
	var raw map[string]json.RawMessage
	if len(p.Body) > 0 {
		if err := json.Unmarshal(p.Body, &raw); err != nil {
			return Series{}, fmt.Errorf("decode alpha vantage response: %w", err)
		}
	}
	if len(raw) == 0 {
		return Series{}, &ShapeError{Dataset: Tech, Missing: "response body"}
	}

	var daily alphaVantageDaily
	if err := json.Unmarshal(p.Body, &daily); err != nil {
		return Series{}, fmt.Errorf("decode alpha vantage response: %w", err)
	}
	if _, ok := raw[alphaVantageSeriesKey]; !ok {
		switch {
		case daily.Note != "", daily.Information != "":
			return Series{}, RateLimitError("Alpha Vantage")
		case daily.Error != "":
			return Series{}, &ProviderError{Provider: "Alpha Vantage", Message: daily.Error}
		default:
			return Series{}, &ShapeError{Dataset: Tech, Missing: alphaVantageSeriesKey}
		}
	}

	series := EmptySeries(Tech)
	for date, bar := range daily.Series {
		closeV, err1 := decimal.NewFromString(bar.Close)
		volume, err2 := decimal.NewFromString(bar.Volume)
		high, err3 := decimal.NewFromString(bar.High)
		low, err4 := decimal.NewFromString(bar.Low)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		series.Records = append(series.Records, Record{
			Date: date,
			Numbers: map[string]float64{
				"stock_price":    closeV.InexactFloat64(),
				"trading_volume": volume.InexactFloat64(),
				"volatility":     high.Sub(low).InexactFloat64(),
			},
			Labels: map[string]string{
				"company":      p.Company,
				"company_name": p.CompanyName,
				"category":     p.Category,
			},
		})
	}
	sortByDate(series.Records)
	return series, nil
}
