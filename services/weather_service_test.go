package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveAgriMetrics(t *testing.T) {
	t.Run("warm dry day", func(t *testing.T) {
		m := DeriveAgriMetrics(CurrentWeather{
			Temp: 32, TempMin: 24, TempMax: 38, Humidity: 30,
		})
		assert.InDelta(t, 21, m.GrowingDegreeDays, 0.01)
		assert.False(t, m.FrostRisk)
		assert.Greater(t, m.Evapotranspiration, 0.0)
		assert.Equal(t, "moderate", m.IrrigationNeed)
	})

	t.Run("cold day clamps degree days", func(t *testing.T) {
		m := DeriveAgriMetrics(CurrentWeather{
			Temp: 1, TempMin: -2, TempMax: 6, Humidity: 70,
		})
		assert.Zero(t, m.GrowingDegreeDays)
		assert.True(t, m.FrostRisk)
	})

	t.Run("recent rain suppresses irrigation", func(t *testing.T) {
		m := DeriveAgriMetrics(CurrentWeather{
			Temp: 35, TempMin: 28, TempMax: 40, Humidity: 20, Rain1h: 4,
		})
		assert.Equal(t, "low", m.IrrigationNeed)
	})
}

func TestFarmingAdvice(t *testing.T) {
	t.Run("frost produces high risk advice", func(t *testing.T) {
		w := CurrentWeather{Temp: 0, Humidity: 60}
		advice := FarmingAdvice(w, DeriveAgriMetrics(w), nil)
		require.NotEmpty(t, advice)
		assert.Equal(t, "high", advice[0].Risk)
	})

	t.Run("calm conditions still give advice", func(t *testing.T) {
		w := CurrentWeather{Temp: 24, TempMin: 18, TempMax: 28, Humidity: 55}
		advice := FarmingAdvice(w, DeriveAgriMetrics(w), nil)
		require.Len(t, advice, 1)
		assert.Equal(t, "low", advice[0].Risk)
	})

	t.Run("wind warns against spraying", func(t *testing.T) {
		w := CurrentWeather{Temp: 24, Humidity: 50, WindSpeed: 14}
		advice := FarmingAdvice(w, DeriveAgriMetrics(w), nil)
		found := false
		for _, a := range advice {
			if a.Risk == "moderate" {
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("forecast rain adds a planning warning", func(t *testing.T) {
		w := CurrentWeather{Temp: 24, TempMin: 18, TempMax: 28, Humidity: 55}
		forecast := []ForecastEntry{
			{Condition: "Clouds"},
			{Condition: "Rain", RainChance: 80},
		}
		advice := FarmingAdvice(w, DeriveAgriMetrics(w), forecast)
		found := false
		for _, a := range advice {
			if a.Risk == "moderate" {
				found = true
			}
		}
		assert.True(t, found)
	})
}

func TestWeatherReportCaching(t *testing.T) {
	var calls int
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/forecast" {
			_, _ = w.Write([]byte(`{
				"list": [
					{"dt_txt": "2026-08-31 12:00:00",
					 "main": {"temp": 31, "humidity": 68},
					 "wind": {"speed": 4},
					 "pop": 0.4,
					 "weather": [{"main": "Rain", "description": "light rain"}]}
				]
			}`))
			return
		}
		_, _ = w.Write([]byte(`{
			"name": "Kochi",
			"main": {"temp": 30, "temp_min": 26, "temp_max": 33, "humidity": 70},
			"wind": {"speed": 3},
			"weather": [{"main": "Clouds", "description": "scattered clouds"}]
		}`))
	}))
	defer upstream.Close()

	svc := NewWeatherService("key", time.Minute)
	defer svc.Close()
	svc.http = upstream.Client()
	// Point the service at the test server.
	svc.baseURL = upstream.URL

	first, err := svc.Report(context.Background(), 9.93, 76.27)
	require.NoError(t, err)
	assert.Equal(t, "Kochi", first.Current.Location)
	assert.Equal(t, "Clouds", first.Current.Condition)
	require.Len(t, first.Forecast, 1)
	assert.InDelta(t, 40, first.Forecast[0].RainChance, 0.01)

	second, err := svc.Report(context.Background(), 9.931, 76.271)
	require.NoError(t, err)
	assert.Same(t, first, second, "nearby coordinates share the cached report")
	assert.Equal(t, 2, calls, "one weather and one forecast call")
}
