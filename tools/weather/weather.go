// Package weather provides the get_weather tool backed by an
// OpenWeatherMap-style HTTP endpoint.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/calebsh/toolchat/tool"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// Config holds provider settings loaded once at startup.
type Config struct {
	APIKey   string
	BaseURL  string        // empty = OpenWeatherMap
	Language string        // description language, empty = "en"
	Timeout  time.Duration // per-call bound, 0 = 10s
}

// Tool implements tool.Tool for current-weather lookups. Stateless after
// construction.
type Tool struct {
	cfg    Config
	client *http.Client
}

// New creates the weather tool.
func New(cfg Config) *Tool {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Tool{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

// Name implements tool.Tool.
func (t *Tool) Name() string { return "get_weather" }

// Description implements tool.Tool.
func (t *Tool) Description() string {
	return "Get real-time weather for a city, including temperature, humidity, wind speed and conditions"
}

// Parameters implements tool.Tool.
func (t *Tool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"city": map[string]any{
				"type":        "string",
				"description": "Name of the city to look up",
			},
			"units": map[string]any{
				"type":        "string",
				"enum":        []string{"metric", "imperial"},
				"description": "Temperature units: metric for Celsius, imperial for Fahrenheit",
				"default":     "metric",
			},
		},
		"required": []string{"city"},
	}
}

// Report is the normalized weather result shape.
type Report struct {
	City         string   `json:"city"`
	Country      string   `json:"country"`
	Temperature  float64  `json:"temperature"`
	FeelsLike    float64  `json:"feels_like"`
	Humidity     int      `json:"humidity"`
	Pressure     int      `json:"pressure"`
	Description  string   `json:"description"`
	WindSpeed    float64  `json:"wind_speed"`
	VisibilityKM *float64 `json:"visibility_km,omitempty"`
	Units        string   `json:"units"`
	Timestamp    string   `json:"timestamp"` // when the adapter ran, not provider data time
}

type apiResponse struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Visibility *float64 `json:"visibility"` // meters, sometimes absent
}

// Call implements tool.Tool.
func (t *Tool) Call(ctx context.Context, args map[string]any) (any, error) {
	city, err := tool.RequireString(args, "city")
	if err != nil {
		return nil, err
	}
	units := tool.OptionalString(args, "units", "metric")

	query := url.Values{}
	query.Set("q", city)
	query.Set("appid", t.cfg.APIKey)
	query.Set("units", units)
	query.Set("lang", t.cfg.Language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.cfg.BaseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("weather provider returned %s: %s", resp.Status, body)
	}

	var data apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("weather response malformed: %w", err)
	}
	if len(data.Weather) == 0 {
		return nil, fmt.Errorf("weather response malformed: missing conditions for %q", city)
	}

	report := Report{
		City:        data.Name,
		Country:     data.Sys.Country,
		Temperature: round1(data.Main.Temp),
		FeelsLike:   round1(data.Main.FeelsLike),
		Humidity:    data.Main.Humidity,
		Pressure:    data.Main.Pressure,
		Description: data.Weather[0].Description,
		WindSpeed:   data.Wind.Speed,
		Units:       unitsLabel(units),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
	if data.Visibility != nil {
		km := *data.Visibility / 1000
		report.VisibilityKM = &km
	}
	return report, nil
}

func unitsLabel(units string) string {
	if units == "imperial" {
		return "°F"
	}
	return "°C"
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
