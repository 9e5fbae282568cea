package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/rs/zerolog/log"
)

const openWeatherURL = "https://api.openweathermap.org/data/2.5"

// CurrentWeather is the slice of the OpenWeather response the app uses.
type CurrentWeather struct {
	Temp        float64 `json:"temp"`
	FeelsLike   float64 `json:"feels_like"`
	TempMin     float64 `json:"temp_min"`
	TempMax     float64 `json:"temp_max"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Clouds      float64 `json:"clouds"`
	Rain1h      float64 `json:"rain_1h"`
	Condition   string  `json:"condition"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
}

// AgriMetrics are agronomic figures derived from the current weather.
type AgriMetrics struct {
	GrowingDegreeDays  float64 `json:"growing_degree_days"`
	Evapotranspiration float64 `json:"evapotranspiration"`
	FrostRisk          bool    `json:"frost_risk"`
	IrrigationNeed     string  `json:"irrigation_need"` // low, moderate or high
}

// ForecastEntry is one 3-hour step of the 24-hour outlook.
type ForecastEntry struct {
	Date        string  `json:"date"`
	Temp        float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Description string  `json:"description"`
	WindSpeed   float64 `json:"wind_speed"`
	RainChance  float64 `json:"rainfall_chance"`
	Condition   string  `json:"-"`
}

// Advice is one rule-derived recommendation with a severity level.
type Advice struct {
	Message string `json:"message"`
	Risk    string `json:"risk"` // low, moderate or high
}

// WeatherReport is the full weather payload served to clients.
type WeatherReport struct {
	Current   CurrentWeather  `json:"current"`
	Metrics   AgriMetrics     `json:"metrics"`
	Forecast  []ForecastEntry `json:"forecast"`
	Advice    []Advice        `json:"advice"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// WeatherService proxies OpenWeather and derives farming guidance from the
// result. Responses are cached per rounded coordinate pair so nearby
// requests share one upstream call.
type WeatherService struct {
	apiKey  string
	baseURL string
	http    *http.Client
	cache   *ttlcache.Cache[string, *WeatherReport]
}

// NewWeatherService creates a WeatherService with the given cache TTL.
func NewWeatherService(apiKey string, cacheTTL time.Duration) *WeatherService {
	cache := ttlcache.New[string, *WeatherReport](
		ttlcache.WithTTL[string, *WeatherReport](cacheTTL),
		ttlcache.WithDisableTouchOnHit[string, *WeatherReport](),
	)
	go cache.Start()

	return &WeatherService{
		apiKey:  apiKey,
		baseURL: openWeatherURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		cache:   cache,
	}
}

// Close stops the cache's expiry loop.
func (s *WeatherService) Close() {
	s.cache.Stop()
}

// Report returns the weather report for a coordinate pair, from cache when
// fresh enough.
func (s *WeatherService) Report(ctx context.Context, lat, lon float64) (*WeatherReport, error) {
	key := fmt.Sprintf("%.2f:%.2f", lat, lon)
	if item := s.cache.Get(key); item != nil {
		return item.Value(), nil
	}

	current, err := s.fetch(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	forecast, err := s.fetchForecast(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	metrics := DeriveAgriMetrics(*current)
	report := &WeatherReport{
		Current:   *current,
		Metrics:   metrics,
		Forecast:  forecast,
		Advice:    FarmingAdvice(*current, metrics, forecast),
		FetchedAt: time.Now().UTC(),
	}
	s.cache.Set(key, report, ttlcache.DefaultTTL)
	return report, nil
}

func (s *WeatherService) query(lat, lon float64) string {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))
	q.Set("appid", s.apiKey)
	q.Set("units", "metric")
	return q.Encode()
}

func (s *WeatherService) fetch(ctx context.Context, lat, lon float64) (*CurrentWeather, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/weather?"+s.query(lat, lon), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build weather request: %w", err)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("Weather request failed")
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Msg("Weather provider returned non-OK status")
		return nil, fmt.Errorf("weather provider returned status %d", resp.StatusCode)
	}

	var payload struct {
		Name string `json:"name"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			TempMin   float64 `json:"temp_min"`
			TempMax   float64 `json:"temp_max"`
			Humidity  float64 `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Clouds struct {
			All float64 `json:"all"`
		} `json:"clouds"`
		Rain struct {
			OneHour float64 `json:"1h"`
		} `json:"rain"`
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}

	current := &CurrentWeather{
		Temp:      payload.Main.Temp,
		FeelsLike: payload.Main.FeelsLike,
		TempMin:   payload.Main.TempMin,
		TempMax:   payload.Main.TempMax,
		Humidity:  payload.Main.Humidity,
		WindSpeed: payload.Wind.Speed,
		Clouds:    payload.Clouds.All,
		Rain1h:    payload.Rain.OneHour,
		Location:  payload.Name,
	}
	if len(payload.Weather) > 0 {
		current.Condition = payload.Weather[0].Main
		current.Description = payload.Weather[0].Description
	}
	return current, nil
}

// fetchForecast returns the next 24 hours of the 3-hourly forecast.
func (s *WeatherService) fetchForecast(ctx context.Context, lat, lon float64) ([]ForecastEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/forecast?"+s.query(lat, lon), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build forecast request: %w", err)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("Forecast request failed")
		return nil, fmt.Errorf("forecast request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Msg("Weather provider returned non-OK status")
		return nil, fmt.Errorf("weather provider returned status %d", resp.StatusCode)
	}

	var payload struct {
		List []struct {
			DtTxt string `json:"dt_txt"`
			Main  struct {
				Temp     float64 `json:"temp"`
				Humidity float64 `json:"humidity"`
			} `json:"main"`
			Wind struct {
				Speed float64 `json:"speed"`
			} `json:"wind"`
			Pop     float64 `json:"pop"`
			Weather []struct {
				Main        string `json:"main"`
				Description string `json:"description"`
			} `json:"weather"`
		} `json:"list"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode forecast response: %w", err)
	}

	// Eight 3-hour steps cover the next day.
	steps := payload.List
	if len(steps) > 8 {
		steps = steps[:8]
	}
	forecast := make([]ForecastEntry, 0, len(steps))
	for _, item := range steps {
		entry := ForecastEntry{
			Date:       item.DtTxt,
			Temp:       item.Main.Temp,
			Humidity:   item.Main.Humidity,
			WindSpeed:  item.Wind.Speed,
			RainChance: item.Pop * 100,
		}
		if len(item.Weather) > 0 {
			entry.Condition = item.Weather[0].Main
			entry.Description = item.Weather[0].Description
		}
		forecast = append(forecast, entry)
	}
	return forecast, nil
}

// DeriveAgriMetrics computes growing degree days (base 10), a simplified
// Hargreaves evapotranspiration estimate and frost risk from the current
// conditions.
func DeriveAgriMetrics(w CurrentWeather) AgriMetrics {
	gdd := (w.TempMax+w.TempMin)/2 - 10
	if gdd < 0 {
		gdd = 0
	}

	et := 0.0023 * (w.Temp + 17.8) * math.Sqrt(math.Max(0, w.Temp)) * (100 - w.Humidity) / 100
	if et < 0 {
		et = 0
	}

	m := AgriMetrics{
		GrowingDegreeDays:  math.Round(gdd*100) / 100,
		Evapotranspiration: math.Round(et*100) / 100,
		FrostRisk:          w.Temp < 2,
	}

	switch {
	case w.Rain1h > 0:
		m.IrrigationNeed = "low"
	case m.Evapotranspiration > 5:
		m.IrrigationNeed = "high"
	case m.Evapotranspiration > 3:
		m.IrrigationNeed = "moderate"
	default:
		m.IrrigationNeed = "low"
	}
	return m
}

// FarmingAdvice produces rule-based recommendations from the conditions and
// the day's outlook. There is always at least one entry.
func FarmingAdvice(w CurrentWeather, m AgriMetrics, forecast []ForecastEntry) []Advice {
	var advice []Advice

	if m.FrostRisk {
		advice = append(advice, Advice{
			Message: "Frost risk tonight. Cover sensitive crops and delay transplanting.",
			Risk:    "high",
		})
	}
	if w.Temp > 40 {
		advice = append(advice, Advice{
			Message: "Extreme heat. Irrigate in the early morning or evening and provide shade for seedlings.",
			Risk:    "high",
		})
	}
	if w.WindSpeed > 10 {
		advice = append(advice, Advice{
			Message: "Strong winds. Avoid spraying pesticides and secure greenhouse covers.",
			Risk:    "moderate",
		})
	}
	if w.Humidity > 85 {
		advice = append(advice, Advice{
			Message: "High humidity favours fungal diseases. Inspect crops and ensure good airflow.",
			Risk:    "moderate",
		})
	}
	if w.Rain1h > 0 {
		advice = append(advice, Advice{
			Message: "Rain recorded in the last hour. Skip irrigation and check field drainage.",
			Risk:    "low",
		})
	} else if m.IrrigationNeed == "high" {
		advice = append(advice, Advice{
			Message: "High evaporation today. Water crops deeply to compensate.",
			Risk:    "moderate",
		})
	}

	for _, f := range forecast {
		if f.Condition == "Rain" {
			advice = append(advice, Advice{
				Message: "Rain expected in the next 24 hours. Plan harvesting around it and delay chemical applications.",
				Risk:    "moderate",
			})
			break
		}
	}

	if len(advice) == 0 {
		advice = append(advice, Advice{
			Message: "Conditions look favourable for routine field work.",
			Risk:    "low",
		})
	}
	return advice
}
