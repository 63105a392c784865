package domain

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// FinancialPayload maps each ticker symbol to its raw Yahoo Finance chart body.
type FinancialPayload map[string]json.RawMessage

type yahooChart struct {
	Chart *struct {
		Result []yahooResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type yahooResult struct {
	Meta struct {
		Symbol    string `json:"symbol"`
		GMTOffset int    `json:"gmtoffset"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close  []*float64 `json:"close"`
			Volume []*float64 `json:"volume"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
		} `json:"quote"`
	} `json:"indicators"`
}

// NormalizeFinancial converts per-symbol chart bodies into the financial series.
// Any symbol with an error or without chart results fails the whole call.
func NormalizeFinancial(p FinancialPayload) (Series, error) {
	if len(p) == 0 {
		return Series{}, &ShapeError{Dataset: Financial, Missing: "chart"}
	}

	series := EmptySeries(Financial)
	for _, symbol := range slices.Sorted(maps.Keys(p)) {
		records, err := normalizeChart(symbol, p[symbol])
		if err != nil {
			return Series{}, err
		}
		series.Records = append(series.Records, records...)
	}
	sortByDate(series.Records)
	return series, nil
}

func normalizeChart(symbol string, body json.RawMessage) ([]Record, error) {
	var c yahooChart
	if len(body) == 0 {
		return nil, &ShapeError{Dataset: Financial, Missing: "chart for " + symbol}
	}
	if err := json.Unmarshal(body, &c); err != nil {
		return nil, fmt.Errorf("decode %s chart: %w", symbol, err)
	}
	if c.Chart == nil {
		return nil, &ShapeError{Dataset: Financial, Missing: "chart for " + symbol}
	}
	if c.Chart.Error != nil {
		msg := c.Chart.Error.Description
		if msg == "" {
			msg = c.Chart.Error.Code
		}
		return nil, &ProviderError{Provider: "Yahoo Finance", Message: msg}
	}
	if len(c.Chart.Result) == 0 {
		return nil, &ShapeError{Dataset: Financial, Missing: "chart.result for " + symbol}
	}

	res := c.Chart.Result[0]
	if len(res.Indicators.Quote) == 0 {
		return nil, &ShapeError{Dataset: Financial, Missing: "indicators.quote for " + symbol}
	}
	q := res.Indicators.Quote[0]

	records := make([]Record, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		closeV, ok1 := at(q.Close, i)
		volume, ok2 := at(q.Volume, i)
		high, ok3 := at(q.High, i)
		low, ok4 := at(q.Low, i)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}
		records = append(records, Record{
			Date: dateFromUnix(ts, res.Meta.GMTOffset),
			Numbers: map[string]float64{
				"close":  closeV,
				"volume": volume,
				"high":   high,
				"low":    low,
			},
			Labels: map[string]string{"symbol": symbol},
		})
	}
	return records, nil
}

// at returns the non-null value at i.
func at(values []*float64, i int) (float64, bool) {
	if i >= len(values) || values[i] == nil {
		return 0, false
	}
	return *values[i], true
}
