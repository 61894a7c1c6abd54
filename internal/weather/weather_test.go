package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCodeToDescIcon(t *testing.T) {
	tests := []struct {
		code     int
		wantDesc string
		wantIcon string
	}{
		{0, "Clear sky", "☀️"},
		{2, "Partly cloudy", "⛅"},
		{45, "Foggy", "🌫️"},
		{48, "Foggy", "🌫️"},
		{63, "Moderate rain", "🌧️"},
		{75, "Heavy snow", "❄️"},
		{95, "Thunderstorm", "⛈️"},
		{99, "Thunderstorm with hail", "⛈️"},
		{999, "Unknown", "🌡️"},
	}

	for _, tt := range tests {
		desc, icon := CodeToDescIcon(tt.code)
		if desc != tt.wantDesc {
			t.Errorf("CodeToDescIcon(%d) desc = %q, want %q", tt.code, desc, tt.wantDesc)
		}
		if icon != tt.wantIcon {
			t.Errorf("CodeToDescIcon(%d) icon = %q, want %q", tt.code, icon, tt.wantIcon)
		}
	}
}

func testService(t *testing.T, geocode, forecast http.HandlerFunc) *Service {
	t.Helper()
	geoSrv := httptest.NewServer(geocode)
	fcSrv := httptest.NewServer(forecast)
	t.Cleanup(geoSrv.Close)
	t.Cleanup(fcSrv.Close)

	return &Service{
		client:      &http.Client{Timeout: 5 * time.Second},
		geocodeURL:  geoSrv.URL,
		forecastURL: fcSrv.URL,
	}
}

func TestLookupComposesBothAPIs(t *testing.T) {
	var geoUA, geoQuery string
	svc := testService(t,
		func(w http.ResponseWriter, r *http.Request) {
			geoUA = r.Header.Get("User-Agent")
			geoQuery = r.URL.Query().Get("q")
			w.Write([]byte(`[{"lat":"48.8566","lon":"2.3522","display_name":"Paris, France"}]`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("latitude") != "48.8566" {
				t.Errorf("latitude = %q, want the geocoded value", r.URL.Query().Get("latitude"))
			}
			if r.URL.Query().Get("current_weather") != "true" {
				t.Error("current_weather=true missing from forecast query")
			}
			w.Write([]byte(`{"current_weather":{"temperature":16.2,"windspeed":8.6,"weathercode":2,"time":"2026-08-23T10:00"}}`))
		},
	)

	report, err := svc.Lookup(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	if geoUA == "" {
		t.Error("geocode request must carry a User-Agent")
	}
	if geoQuery != "Paris" {
		t.Errorf("geocode q = %q, want Paris", geoQuery)
	}
	if report.DisplayName != "Paris, France" {
		t.Errorf("DisplayName = %q, want Paris, France", report.DisplayName)
	}
	if report.TempC != 16.2 || report.WindKmh != 8.6 {
		t.Errorf("conditions = %v°C %vkm/h, want 16.2/8.6", report.TempC, report.WindKmh)
	}
	if report.Description != "Partly cloudy" || report.Icon != "⛅" {
		t.Errorf("code mapping = %q %q, want partly cloudy", report.Description, report.Icon)
	}
	if report.Lat != 48.8566 {
		t.Errorf("Lat = %v, want parsed 48.8566", report.Lat)
	}
}

func TestLookupUnknownLocation(t *testing.T) {
	svc := testService(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			t.Error("forecast must not be called when geocoding finds nothing")
		},
	)

	_, err := svc.Lookup(context.Background(), "Nowhereville-xyz")
	if err == nil || !strings.Contains(err.Error(), "location not found") {
		t.Errorf("err = %v, want location not found", err)
	}
}

func TestLookupEmptyLocation(t *testing.T) {
	svc := NewService()
	if _, err := svc.Lookup(context.Background(), "   "); err == nil {
		t.Error("expected error for blank location")
	}
}

func TestLookupForecastFailure(t *testing.T) {
	svc := testService(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"lat":"1.0","lon":"2.0","display_name":"Somewhere"}]`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		},
	)

	_, err := svc.Lookup(context.Background(), "Somewhere")
	if err == nil || !strings.Contains(err.Error(), "status 429") {
		t.Errorf("err = %v, want the upstream status surfaced", err)
	}
}
