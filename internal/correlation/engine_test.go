package correlation

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/couchcryptid/cross-domain-correlator/internal/domain"
	"github.com/couchcryptid/cross-domain-correlator/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(date string, numbers map[string]float64) domain.Record {
	return domain.Record{Date: date, Numbers: numbers}
}

func series(d domain.Dataset, records ...domain.Record) domain.Series {
	s := domain.EmptySeries(d)
	s.Records = records
	return s
}

func storeWith(all ...domain.Series) *store.Store {
	s := store.New(nil)
	for _, series := range all {
		s.Set(series)
	}
	return s
}

func TestCorrelate_WeatherVsFinancial(t *testing.T) {
	snapshots := storeWith(
		series(domain.Weather,
			rec("2024-01-01", map[string]float64{"temperature": 10, "humidity": 50}),
			rec("2024-01-02", map[string]float64{"temperature": 12, "humidity": 55}),
		),
		series(domain.Financial,
			rec("2024-01-01", map[string]float64{"close": 100}),
			rec("2024-01-02", map[string]float64{"close": 102}),
		),
	)

	result, err := NewEngine(snapshots).Correlate(domain.Weather, domain.Financial)
	require.NoError(t, err)

	assert.Equal(t, domain.Weather, result.Dataset1)
	assert.Equal(t, domain.Financial, result.Dataset2)
	assert.Equal(t, map[string]float64{
		"temperature vs close": 1.0,
		"humidity vs close":    1.0,
	}, result.Correlations)
}

func TestCorrelate_EmptySnapshot(t *testing.T) {
	snapshots := storeWith(series(domain.Weather, rec("2024-01-01", map[string]float64{"temperature": 1})))
	engine := NewEngine(snapshots)

	_, err := engine.Correlate(domain.Weather, domain.Health)
	require.ErrorIs(t, err, domain.ErrEmptyDataset)

	_, err = engine.Correlate(domain.Health, domain.Weather)
	require.ErrorIs(t, err, domain.ErrEmptyDataset)
}

func TestCorrelate_NoSharedDates(t *testing.T) {
	snapshots := storeWith(
		series(domain.Weather,
			rec("2024-01-01", map[string]float64{"temperature": 10}),
			rec("2024-01-02", map[string]float64{"temperature": 12}),
		),
		series(domain.Health,
			rec("2023-01-01", map[string]float64{"cases": 1}),
			rec("2023-01-02", map[string]float64{"cases": 2}),
		),
	)

	result, err := NewEngine(snapshots).Correlate(domain.Weather, domain.Health)
	require.NoError(t, err)
	assert.NotNil(t, result.Correlations)
	assert.Empty(t, result.Correlations)
	assert.Equal(t, domain.Weather, result.Dataset1)
	assert.Equal(t, domain.Health, result.Dataset2)
}

func TestCorrelate_ZeroVarianceOmitted(t *testing.T) {
	snapshots := storeWith(
		series(domain.Weather,
			rec("2024-01-01", map[string]float64{"temperature": 10, "humidity": 50, "pressure": 1013}),
			rec("2024-01-02", map[string]float64{"temperature": 12, "humidity": 50, "pressure": 1010}),
			rec("2024-01-03", map[string]float64{"temperature": 15, "humidity": 50, "pressure": 1002}),
		),
		series(domain.Health,
			rec("2024-01-01", map[string]float64{"cases": 5, "deaths": 1, "recovered": 7}),
			rec("2024-01-02", map[string]float64{"cases": 9, "deaths": 1, "recovered": 7}),
			rec("2024-01-03", map[string]float64{"cases": 4, "deaths": 1, "recovered": 7}),
		),
	)

	result, err := NewEngine(snapshots).Correlate(domain.Weather, domain.Health)
	require.NoError(t, err)

	assert.Len(t, result.Correlations, 2)
	assert.Contains(t, result.Correlations, "temperature vs cases")
	assert.Contains(t, result.Correlations, "pressure vs cases")
	for key := range result.Correlations {
		assert.NotContains(t, key, "humidity")
		assert.NotContains(t, key, "deaths")
		assert.NotContains(t, key, "recovered")
	}
}

func TestCorrelate_SelfPairsAreOne(t *testing.T) {
	snapshots := storeWith(series(domain.Weather,
		rec("2024-01-01", map[string]float64{"temperature": 10, "humidity": 40, "pressure": 1000}),
		rec("2024-01-02", map[string]float64{"temperature": 13, "humidity": 70, "pressure": 1000}),
		rec("2024-01-03", map[string]float64{"temperature": 11, "humidity": 55, "pressure": 1000}),
	))

	result, err := NewEngine(snapshots).Correlate(domain.Weather, domain.Weather)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, result.Correlations["temperature vs temperature"], 1e-12)
	assert.InDelta(t, 1.0, result.Correlations["humidity vs humidity"], 1e-12)
	assert.NotContains(t, result.Correlations, "pressure vs pressure")
	assert.Contains(t, result.Correlations, "temperature vs humidity")
	assert.Contains(t, result.Correlations, "humidity vs temperature")
}

// Several records per date (one per symbol) still give exact self-correlation.
func TestCorrelate_SelfPairsWithRepeatedDates(t *testing.T) {
	snapshots := storeWith(series(domain.Financial,
		rec("2024-01-01", map[string]float64{"close": 100, "volume": 5}),
		rec("2024-01-01", map[string]float64{"close": 300, "volume": 9}),
		rec("2024-01-02", map[string]float64{"close": 101, "volume": 6}),
		rec("2024-01-02", map[string]float64{"close": 305, "volume": 8}),
	))

	result, err := NewEngine(snapshots).Correlate(domain.Financial, domain.Financial)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, result.Correlations["close vs close"], 1e-12)
	assert.InDelta(t, 1.0, result.Correlations["volume vs volume"], 1e-12)
}

func TestCorrelate_NullValuesDropped(t *testing.T) {
	tech := series(domain.Tech,
		rec("2024-01-01", map[string]float64{"stock_price": 10, "trading_volume": 100, "volatility": 1}),
		rec("2024-01-02", map[string]float64{"stock_price": 11, "trading_volume": 120, "volatility": 3}),
		rec("2024-01-03", map[string]float64{"stock_price": 9, "trading_volume": 90, "volatility": 2}),
	)
	weather := series(domain.Weather,
		rec("2024-01-01", map[string]float64{"temperature": 1}),
		rec("2024-01-02", map[string]float64{"temperature": 3}),
		rec("2024-01-03", map[string]float64{"temperature": 2}),
	)

	result := Compute(tech, weather)

	assert.InDelta(t, 1.0, result.Correlations["volatility vs temperature"], 1e-12)
	assert.NotContains(t, result.Correlations, "market_cap vs temperature")
	assert.NotContains(t, result.Correlations, "stock_price vs humidity")
}

func TestCorrelate_ReadsEachSnapshotOnce(t *testing.T) {
	reader := &countingReader{series: map[domain.Dataset]domain.Series{
		domain.Weather: series(domain.Weather,
			rec("2024-01-01", map[string]float64{"temperature": 1}),
			rec("2024-01-02", map[string]float64{"temperature": 2}),
		),
	}}

	_, err := NewEngine(reader).Correlate(domain.Weather, domain.Weather)
	require.NoError(t, err)
	assert.Equal(t, 1, reader.calls)
}

func TestCorrelate_CoefficientsWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	var weather, agriculture []domain.Record
	for i := range 60 {
		date := fmt.Sprintf("2024-03-%02d", i%30+1)
		weather = append(weather, rec(date, map[string]float64{
			"temperature": rng.NormFloat64()*8 + 15,
			"humidity":    rng.Float64() * 100,
			"pressure":    1000 + rng.Float64()*30,
		}))
		temp := rng.NormFloat64()*5 + 20
		hum := rng.Float64() * 100
		agriculture = append(agriculture, rec(date, map[string]float64{
			"temperature":   temp,
			"humidity":      hum,
			"production":    domain.SimulatedProduction(temp, hum),
			"rainfall":      0,
			"soil_moisture": hum * 0.8,
		}))
	}

	result := Compute(series(domain.Weather, weather...), series(domain.Agriculture, agriculture...))

	require.NotEmpty(t, result.Correlations)
	for key, r := range result.Correlations {
		assert.False(t, math.IsNaN(r), key)
		assert.GreaterOrEqual(t, r, -1.0, key)
		assert.LessOrEqual(t, r, 1.0, key)
	}
	assert.NotContains(t, result.Correlations, "temperature vs rainfall")
}

func TestJoin_ManyToMany(t *testing.T) {
	weather := series(domain.Weather,
		rec("2024-01-01", nil),
		rec("2024-01-02", nil),
	)
	financial := series(domain.Financial,
		rec("2024-01-01", nil),
		rec("2024-01-01", nil),
		rec("2024-01-03", nil),
	)

	assert.Len(t, join(weather, financial), 2)
	assert.Len(t, join(financial, financial), 3, "self join pairs records with themselves")
}

type countingReader struct {
	series map[domain.Dataset]domain.Series
	calls  int
}

func (r *countingReader) Get(d domain.Dataset) domain.Series {
	r.calls++
	if s, ok := r.series[d]; ok {
		return s
	}
	return domain.EmptySeries(d)
}
