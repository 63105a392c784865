package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAlphaVantageDaily = `{
	"Meta Data": {"2. Symbol": "NVDA"},
	"Time Series (Daily)": {
		"2024-01-03": {"1. open": "47.49", "2. high": "48.18", "3. low": "47.32", "4. close": "47.57", "5. volume": "32000000"},
		"2024-01-02": {"1. open": "49.24", "2. high": "49.30", "3. low": "47.60", "4. close": "48.17", "5. volume": "41125400"},
		"2024-01-04": {"1. open": "47.77", "2. high": "48.50", "3. low": "47.51", "4. close": "n/a", "5. volume": "30000000"}
	}
}`

func techPayload(body string) TechPayload {
	return TechPayload{
		Category:    "semiconductors",
		Company:     "NVDA",
		CompanyName: "NVIDIA Corporation",
		Body:        json.RawMessage(body),
	}
}

func TestNormalizeTech(t *testing.T) {
	series, err := NormalizeTech(techPayload(testAlphaVantageDaily))
	require.NoError(t, err)
	require.Len(t, series.Records, 2)

	first := series.Records[0]
	assert.Equal(t, "2024-01-02", first.Date)
	assert.Equal(t, map[string]string{
		"company":      "NVDA",
		"company_name": "NVIDIA Corporation",
		"category":     "semiconductors",
	}, first.Labels)
	assert.Equal(t, 48.17, first.Numbers["stock_price"])
	assert.Equal(t, 41125400.0, first.Numbers["trading_volume"])
	assert.Equal(t, 1.7, first.Numbers["volatility"])

	_, ok := first.Number("market_cap")
	assert.False(t, ok, "market_cap is never reported")

	assert.Equal(t, "2024-01-03", series.Records[1].Date)
	assert.Equal(t, 0.86, series.Records[1].Numbers["volatility"])
}

func TestNormalizeTech_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		sentinel error
		message  string
	}{
		{"empty body", ``, ErrUpstreamShape, ""},
		{"empty object", `{}`, ErrUpstreamShape, ""},
		{"rate limit note", `{"Note":"Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`, ErrRateLimited, "Alpha Vantage rate limit reached. Please wait a minute and try again."},
		{"rate limit information", `{"Information":"We have detected your API key as ... 25 requests per day."}`, ErrRateLimited, ""},
		{"error message", `{"Error Message":"Invalid API call. Please retry or visit the documentation."}`, ErrProviderRejected, "Invalid API call. Please retry or visit the documentation."},
		{"unexpected format", `{"Meta Data":{}}`, ErrUpstreamShape, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeTech(techPayload(tt.body))
			require.ErrorIs(t, err, tt.sentinel)
			if tt.message != "" {
				assert.Equal(t, tt.message, err.Error())
			}
		})
	}
}
