// Package domain normalizes upstream observations from five unrelated sources
// into one per-date record shape.
//
// # Datasets
//
// The closed set of datasets is weather, financial, health, tech and
// agriculture. Callers resolve user input with [ParseDataset]; there is no
// other way to name a dataset.
//
// # Records and schemas
//
// A [Record] has a mandatory ISO-8601 date ("2024-01-02") compared by exact
// string equality, plus numeric and categorical fields. The fields a dataset
// can carry are fixed by its [Schema]:
//
//	weather:     temperature, humidity, pressure
//	financial:   symbol | close, volume, high, low
//	health:      cases, deaths, recovered
//	tech:        company, company_name, category | stock_price, trading_volume, market_cap, volatility
//	agriculture: crop, region | temperature, humidity, production, rainfall, soil_moisture
//
// A numeric field may be null on a given record (market_cap is always null
// because the free Alpha Vantage tier does not report it).
//
// # Upstream payloads
//
//	weather      OpenWeather current weather ("coord") + one timemachine body per day ("current")
//	financial    Yahoo Finance chart body per symbol ("chart.result")
//	health       disease.sh historical totals ("cases", "deaths", "recovered"), keys in M/D/YY
//	tech         Alpha Vantage TIME_SERIES_DAILY ("Time Series (Daily)"), prices as strings
//	agriculture  OpenWeather timemachine bodies for a crop region
//
// A payload missing its top-level structure fails the whole call with a
// [ShapeError]; a provider-reported error fails with a [ProviderError].
// Missing per-entry data only drops that entry.
//
// # Simulated agriculture output
//
// Production is not measured. It is derived from the weather reading:
//
//	production    = max(0, 100 + (temperature - 20) * 2 + (humidity - 50) * 0.5)
//	soil_moisture = humidity * 0.8
//
// Every series returned by a normalizer is sorted ascending by date.
package domain
