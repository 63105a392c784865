package openweather

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/cross-domain-correlator/internal/adapter/upstream"
	"github.com/couchcryptid/cross-domain-correlator/internal/domain"
	"github.com/couchcryptid/cross-domain-correlator/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "ow-test-key"

func testClient(baseURL string) *Client {
	up := upstream.NewClient(5*time.Second, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewClient(up, baseURL, testKey)
}

func fixClock(t *testing.T) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(clockwork.NewRealClock()) })
}

func TestFetchCity(t *testing.T) {
	fixClock(t)
	var historyCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, testKey, q.Get("appid"))
		assert.Equal(t, "metric", q.Get("units"))
		switch r.URL.Path {
		case "/data/2.5/weather":
			assert.Equal(t, "Paris", q.Get("q"))
			_, _ = io.WriteString(w, `{"coord":{"lon":2.35,"lat":48.85},"name":"Paris"}`)
		case "/data/2.5/onecall/timemachine":
			historyCalls.Add(1)
			assert.Equal(t, "48.85", q.Get("lat"))
			assert.Equal(t, "2.35", q.Get("lon"))
			assert.NotEmpty(t, q.Get("dt"))
			_, _ = io.WriteString(w, `{"current":{"temp":10.5,"humidity":70,"pressure":1012}}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	payload, err := testClient(srv.URL).FetchCity(context.Background(), "Paris", 3)
	require.NoError(t, err)

	assert.Equal(t, "Paris", payload.City)
	assert.Equal(t, int32(3), historyCalls.Load())
	require.Len(t, payload.Days, 3)
	assert.Equal(t, "2024-03-10", payload.Days[0].Date)
	assert.Equal(t, "2024-03-08", payload.Days[2].Date)

	series, err := domain.NormalizeWeather(payload)
	require.NoError(t, err)
	assert.Equal(t, 3, series.Len())
}

func TestFetchCity_CityNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"cod":"404","message":"city not found"}`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchCity(context.Background(), "Atlantis", 5)
	require.ErrorIs(t, err, domain.ErrProviderRejected)
	assert.Contains(t, err.Error(), "city not found")
}

func TestFetchCity_MissingCoord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"name":"Nowhere"}`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchCity(context.Background(), "Nowhere", 5)
	require.ErrorIs(t, err, domain.ErrUpstreamShape)
}

func TestFetchHistory_StopsOnFailure(t *testing.T) {
	fixClock(t)
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `{"current":{"temp":1}}`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchHistory(context.Background(), domain.Coordinates{Lat: 1, Lon: 2}, 5)
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Contains(t, err.Error(), "2024-03-09")
	assert.Equal(t, int32(2), calls.Load())
}
