package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishibondhu/server/internal/assistant/model"
)

func TestForecast(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"latitude":  q.Get("latitude"),
			"longitude": q.Get("longitude"),
			"hourly":    q.Get("hourly"),
			"timezone":  q.Get("timezone"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"hourly": {
				"time": ["2025-06-01T00:00", "2025-06-01T01:00"],
				"temperature_2m": [29.8, 29.1],
				"relativehumidity_2m": [84, 86],
				"precipitation": [0.0, 1.2]
			}
		}`))
	}))
	defer server.Close()

	provider := NewOpenMeteoProvider(model.WeatherConfig{BaseURL: server.URL, TimeoutSeconds: 5})

	snapshot, err := provider.Forecast(context.Background(), 23.8103, 90.4125)
	require.NoError(t, err)

	assert.Equal(t, "23.8103", gotQuery["latitude"])
	assert.Equal(t, "90.4125", gotQuery["longitude"])
	assert.Equal(t, "temperature_2m,relativehumidity_2m,precipitation", gotQuery["hourly"])
	assert.Equal(t, "auto", gotQuery["timezone"])

	require.False(t, snapshot.Empty())
	assert.Equal(t, 29.8, snapshot.Hourly.Temperature2M[0])
	assert.Equal(t, float64(84), snapshot.Hourly.RelativeHumidity2M[0])
	assert.Equal(t, 1.2, snapshot.Hourly.Precipitation[1])
}

func TestForecastServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	provider := NewOpenMeteoProvider(model.WeatherConfig{BaseURL: server.URL, TimeoutSeconds: 5})

	snapshot, err := provider.Forecast(context.Background(), 23.8, 90.4)
	require.Error(t, err)
	assert.Nil(t, snapshot)
	assert.Contains(t, err.Error(), "unexpected status 503")
}

func TestForecastMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not-json"))
	}))
	defer server.Close()

	provider := NewOpenMeteoProvider(model.WeatherConfig{BaseURL: server.URL, TimeoutSeconds: 5})

	_, err := provider.Forecast(context.Background(), 23.8, 90.4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode forecast response")
}
