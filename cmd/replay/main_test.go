package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"testing"

	"github.com/couchcryptid/cross-domain-correlator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type output struct {
	Correlations map[string]float64 `json:"correlations"`
	Dataset1     string             `json:"dataset1"`
	Dataset2     string             `json:"dataset2"`
}

func replay(t *testing.T, args ...string) (output, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, &stdout, log.New(&stderr, "", 0))
	var out output
	if err == nil {
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	}
	return out, stderr.String(), err
}

func TestRun_WeatherAgainstHealth(t *testing.T) {
	out, logs, err := replay(t, "-dir", "testdata", "-dataset1", "weather", "-dataset2", "health")
	require.NoError(t, err)

	assert.Equal(t, "weather", out.Dataset1)
	assert.Equal(t, "health", out.Dataset2)
	assert.Len(t, out.Correlations, 6, "recovered is constant and omitted")
	assert.Greater(t, out.Correlations["temperature vs cases"], 0.9)
	assert.Less(t, out.Correlations["pressure vs deaths"], -0.9)

	assert.Contains(t, logs, "weather: 4 records")
	assert.Contains(t, logs, "agriculture: 2 records")
	assert.NotContains(t, logs, "financial")
}

func TestRun_SelfCorrelation(t *testing.T) {
	out, _, err := replay(t, "-dir", "testdata", "-dataset1", "weather", "-dataset2", "weather")
	require.NoError(t, err)

	for _, f := range []string{"temperature", "humidity", "pressure"} {
		assert.InDelta(t, 1, out.Correlations[f+" vs "+f], 1e-9)
	}
}

func TestRun_MissingFixtureIsEmptyDataset(t *testing.T) {
	_, _, err := replay(t, "-dir", "testdata", "-dataset1", "weather", "-dataset2", "tech")
	require.ErrorIs(t, err, domain.ErrEmptyDataset)
}

func TestRun_InvalidDataset(t *testing.T) {
	_, _, err := replay(t, "-dir", "testdata", "-dataset1", "weather", "-dataset2", "crypto")
	require.ErrorIs(t, err, domain.ErrInvalidDataset)
}

func TestRun_MissingFlags(t *testing.T) {
	err := run([]string{"-dir", "testdata"}, io.Discard, log.New(io.Discard, "", 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required flags")
}
