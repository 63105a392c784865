package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

type diseaseHistory struct {
	Cases     map[string]float64 `json:"cases"`
	Deaths    map[string]float64 `json:"deaths"`
	Recovered map[string]float64 `json:"recovered"`
	Message   string             `json:"message"`
}

// diseaseDateLayouts are the key formats disease.sh has used for its timelines.
var diseaseDateLayouts = []string{"1/2/06", DateLayout}

// NormalizeHealth converts a disease.sh historical timeline into the health series.
func NormalizeHealth(body json.RawMessage) (Series, error) {
	var h diseaseHistory
	if len(body) == 0 {
		return Series{}, &ShapeError{Dataset: Health, Missing: "cases"}
	}
	if err := json.Unmarshal(body, &h); err != nil {
		return Series{}, fmt.Errorf("decode health timeline: %w", err)
	}
	if h.Cases == nil {
		if h.Message != "" {
			return Series{}, &ProviderError{Provider: "disease.sh", Message: h.Message}
		}
		return Series{}, &ShapeError{Dataset: Health, Missing: "cases"}
	}

	series := EmptySeries(Health)
	for key, cases := range h.Cases {
		date, ok := parseDiseaseDate(key)
		if !ok {
			continue
		}
		deaths, ok1 := h.Deaths[key]
		recovered, ok2 := h.Recovered[key]
		if !ok1 || !ok2 {
			continue
		}
		series.Records = append(series.Records, Record{
			Date: date,
			Numbers: map[string]float64{
				"cases":     cases,
				"deaths":    deaths,
				"recovered": recovered,
			},
		})
	}
	sortByDate(series.Records)
	return series, nil
}

func parseDiseaseDate(key string) (string, bool) {
	for _, layout := range diseaseDateLayouts {
		if t, err := time.Parse(layout, key); err == nil {
			return t.Format(DateLayout), true
		}
	}
	return "", false
}
