package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"spark/internal/intent"
	"spark/internal/logging"
)

// WeatherClient answers weather questions through the OpenWeather current
// conditions API.
type WeatherClient struct {
	baseURL         string
	apiKey          string
	units           string
	defaultLocation string
	client          *http.Client
}

// NewWeatherClient creates a weather handler. defaultLocation is used when
// the utterance names no city.
func NewWeatherClient(baseURL, apiKey, units, defaultLocation string) *WeatherClient {
	if baseURL == "" {
		baseURL = "https://api.openweathermap.org"
	}
	if units == "" {
		units = "metric"
	}
	return &WeatherClient{
		baseURL:         strings.TrimRight(baseURL, "/"),
		apiKey:          apiKey,
		units:           units,
		defaultLocation: defaultLocation,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Lookup is the handler bound to the weather intent.
func (w *WeatherClient) Lookup(ctx context.Context, ents intent.Entities) (string, error) {
	location := ents.Location
	if location == "" {
		location = w.defaultLocation
	}
	if location == "" {
		return "", fmt.Errorf("no location given and no default location configured")
	}
	if w.apiKey == "" {
		return "", fmt.Errorf("weather lookups need an OpenWeather API key")
	}

	q := url.Values{}
	q.Set("q", location)
	q.Set("appid", w.apiKey)
	q.Set("units", w.units)

	httpReq, err := http.NewRequestWithContext(ctx, "GET", w.baseURL+"/data/2.5/weather?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := w.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("I couldn't find weather for %s", location)
	}
	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("weather service returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var result weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	desc := "unknown conditions"
	if len(result.Weather) > 0 {
		desc = result.Weather[0].Description
	}
	unit := "°C"
	if w.units == "imperial" {
		unit = "°F"
	}

	logging.Actions("weather for %s: %s, %.0f%s", location, desc, result.Main.Temp, unit)
	return fmt.Sprintf("It's %.0f%s with %s in %s", result.Main.Temp, unit, desc, result.Name), nil
}

type weatherResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
}
