package domain

import "math"

// AgriculturePayload is the raw input for the agriculture dataset: historical
// weather bodies for the crop region.
type AgriculturePayload struct {
	Crop   string         `json:"crop"`
	Region string         `json:"region"`
	Days   []DailyReading `json:"days"`
}

const defaultHumidity = 50

// NormalizeAgriculture converts an AgriculturePayload into the agriculture
// series, deriving simulated production and soil moisture from the weather.
func NormalizeAgriculture(p AgriculturePayload) (Series, error) {
	if p.Days == nil {
		return Series{}, &ShapeError{Dataset: Agriculture, Missing: "days"}
	}

	series := EmptySeries(Agriculture)
	for _, day := range p.Days {
		h, ok := decodeHistory(day.Body)
		if !ok || h.Current.Temp == nil {
			continue
		}
		temperature := *h.Current.Temp
		humidity := float64(defaultHumidity)
		if h.Current.Humidity != nil {
			humidity = *h.Current.Humidity
		}
		rainfall := 0.0
		if h.Current.Rain != nil && h.Current.Rain.OneHour != nil {
			rainfall = *h.Current.Rain.OneHour
		}

		series.Records = append(series.Records, Record{
			Date: day.Date,
			Numbers: map[string]float64{
				"temperature":   temperature,
				"humidity":      humidity,
				"production":    SimulatedProduction(temperature, humidity),
				"rainfall":      rainfall,
				"soil_moisture": humidity * 0.8,
			},
			Labels: map[string]string{
				"crop":   p.Crop,
				"region": p.Region,
			},
		})
	}
	sortByDate(series.Records)
	return series, nil
}

// SimulatedProduction is the synthetic crop output model:
// 100 base units, +2 per degree above 20C, +0.5 per humidity point above 50, floored at 0.
func SimulatedProduction(temperature, humidity float64) float64 {
	return math.Max(0, 100+(temperature-20)*2+(humidity-50)*0.5)
}
