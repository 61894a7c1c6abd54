package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Nominatim rejects requests without an identifying User-Agent.
const userAgent = "talk-cli/1.0 (https://github.com/chattalk/talk-cli)"

// Report is the widget's view of current conditions at a place.
type Report struct {
	Location    string
	DisplayName string
	Lat         float64
	Lon         float64
	TempC       float64
	WindKmh     float64
	Code        int
	Description string
	Icon        string
	Time        string
}

// Service resolves a location name to coordinates and fetches current
// conditions for them. Both upstreams are public, keyless APIs.
type Service struct {
	client      *http.Client
	geocodeURL  string
	forecastURL string
}

// NewService creates a weather service with the public endpoints.
func NewService() *Service {
	return &Service{
		client:      &http.Client{Timeout: 10 * time.Second},
		geocodeURL:  "https://nominatim.openstreetmap.org/search",
		forecastURL: "https://api.open-meteo.com/v1/forecast",
	}
}

type geocodeResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type forecastResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		Windspeed   float64 `json:"windspeed"`
		Weathercode int     `json:"weathercode"`
		Time        string  `json:"time"`
	} `json:"current_weather"`
}

// Lookup geocodes the location name and fetches the current weather
// there. Every failure comes back as a wrapped error for the caller to
// render; there is no cached fallback.
func (s *Service) Lookup(ctx context.Context, location string) (*Report, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("location is required")
	}

	place, err := s.geocode(ctx, location)
	if err != nil {
		return nil, err
	}

	lat, err := strconv.ParseFloat(place.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("bad latitude %q from geocoder: %w", place.Lat, err)
	}
	lon, err := strconv.ParseFloat(place.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("bad longitude %q from geocoder: %w", place.Lon, err)
	}

	fc, err := s.forecast(ctx, place.Lat, place.Lon)
	if err != nil {
		return nil, err
	}

	desc, icon := CodeToDescIcon(fc.CurrentWeather.Weathercode)
	return &Report{
		Location:    location,
		DisplayName: place.DisplayName,
		Lat:         lat,
		Lon:         lon,
		TempC:       fc.CurrentWeather.Temperature,
		WindKmh:     fc.CurrentWeather.Windspeed,
		Code:        fc.CurrentWeather.Weathercode,
		Description: desc,
		Icon:        icon,
		Time:        fc.CurrentWeather.Time,
	}, nil
}

func (s *Service) geocode(ctx context.Context, location string) (*geocodeResult, error) {
	q := url.Values{}
	q.Set("q", location)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.geocodeURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocode request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("geocoder returned status %d: %s", resp.StatusCode, string(body))
	}

	var results []geocodeResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to parse geocode response: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("location not found: %s", location)
	}
	return &results[0], nil
}

func (s *Service) forecast(ctx context.Context, lat, lon string) (*forecastResponse, error) {
	q := url.Values{}
	q.Set("latitude", lat)
	q.Set("longitude", lon)
	q.Set("current_weather", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.forecastURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create forecast request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("weather API returned status %d: %s", resp.StatusCode, string(body))
	}

	var fc forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return nil, fmt.Errorf("failed to parse weather response: %w", err)
	}
	return &fc, nil
}

// CodeToDescIcon maps a WMO weather code to a human-readable description
// and an icon. Unknown codes fall back to a generic entry.
func CodeToDescIcon(code int) (string, string) {
	switch code {
	case 0:
		return "Clear sky", "☀️"
	case 1:
		return "Mainly clear", "🌤️"
	case 2:
		return "Partly cloudy", "⛅"
	case 3:
		return "Overcast", "☁️"
	case 45, 48:
		return "Foggy", "🌫️"
	case 51:
		return "Light drizzle", "🌦️"
	case 53:
		return "Moderate drizzle", "🌦️"
	case 55:
		return "Dense drizzle", "🌧️"
	case 56, 57:
		return "Freezing drizzle", "🌧️"
	case 61:
		return "Slight rain", "🌦️"
	case 63:
		return "Moderate rain", "🌧️"
	case 65:
		return "Heavy rain", "🌧️"
	case 66, 67:
		return "Freezing rain", "🌧️"
	case 71:
		return "Slight snow", "🌨️"
	case 73:
		return "Moderate snow", "🌨️"
	case 75:
		return "Heavy snow", "❄️"
	case 77:
		return "Snow grains", "❄️"
	case 80:
		return "Slight showers", "🌦️"
	case 81:
		return "Moderate showers", "🌧️"
	case 82:
		return "Violent showers", "⛈️"
	case 85:
		return "Slight snow showers", "🌨️"
	case 86:
		return "Heavy snow showers", "❄️"
	case 95:
		return "Thunderstorm", "⛈️"
	case 96, 99:
		return "Thunderstorm with hail", "⛈️"
	default:
		return "Unknown", "🌡️"
	}
}
