package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/skycast-app/skycast/internal/weather"
)

const weatherBody = `{
	"id": 703448,
	"name": "Kyiv",
	"dt": 1660000000,
	"coord": {"lat": 50.45, "lon": 30.52},
	"sys": {"country": "UA"},
	"weather": [{"id": 800, "description": "clear sky", "icon": "01d"}],
	"main": {"temp": 21.4, "feels_like": 20.9, "humidity": 56, "pressure": 1012},
	"wind": {"speed": 4.2, "deg": 46}
}`

const forecastBody = `{
	"list": [
		{"dt": 1660000000, "main": {"temp": 20.1}, "weather": [{"id": 800, "description": "clear sky", "icon": "01d"}]},
		{"dt": 1660010800, "main": {"temp": 22.4}, "weather": [{"id": 801, "description": "few clouds", "icon": "02d"}]}
	]
}`

func newTestClient(t *testing.T, handler http.Handler) (*OpenWeatherClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	httpClient := &http.Client{Timeout: 2 * time.Second}
	return NewOpenWeatherClient(httpClient, "test-key", srv.URL, srv.URL), srv
}

func TestCurrentWeatherByCoordinates(t *testing.T) {
	var gotQuery map[string]string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/weather" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		gotQuery = map[string]string{
			"lat":   q.Get("lat"),
			"lon":   q.Get("lon"),
			"appid": q.Get("appid"),
			"units": q.Get("units"),
		}
		w.Write([]byte(weatherBody))
	}))

	snapshot, err := client.CurrentWeather(context.Background(), 50.45, 30.52, weather.UnitMetric)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery["lat"] != "50.45" || gotQuery["lon"] != "30.52" {
		t.Errorf("coordinates not sent: %v", gotQuery)
	}
	if gotQuery["appid"] != "test-key" || gotQuery["units"] != "metric" {
		t.Errorf("auth/unit params not sent: %v", gotQuery)
	}

	if snapshot.ID != 703448 || snapshot.Name != "Kyiv" || snapshot.Country != "UA" {
		t.Errorf("identity fields not mapped: %+v", snapshot)
	}
	if snapshot.Temperature != 21.4 || snapshot.FeelsLike != 20.9 || snapshot.Humidity != 56 || snapshot.Pressure != 1012 {
		t.Errorf("readings not mapped: %+v", snapshot)
	}
	if snapshot.WindSpeed != 4.2 || snapshot.WindDeg != 46 {
		t.Errorf("wind not mapped: %+v", snapshot)
	}
	if snapshot.Primary().Icon != "01d" || snapshot.Primary().Description != "clear sky" {
		t.Errorf("primary condition not mapped: %+v", snapshot.Primary())
	}
	if !snapshot.ObservedAt.Equal(time.Unix(1660000000, 0)) {
		t.Errorf("observedAt not mapped: %v", snapshot.ObservedAt)
	}
}

func TestCurrentWeatherByCity(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "Kyiv" {
			t.Errorf("q param = %q, want Kyiv", got)
		}
		w.Write([]byte(weatherBody))
	}))

	if _, err := client.CurrentWeatherByCity(context.Background(), "Kyiv", weather.UnitImperial); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestForecastMapping(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forecast" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(forecastBody))
	}))

	forecast, err := client.Forecast(context.Background(), 50.45, 30.52, weather.UnitMetric)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(forecast) != 2 {
		t.Fatalf("forecast has %d entries, want 2", len(forecast))
	}
	if forecast[0].Temperature != 20.1 || forecast[0].Condition.Icon != "01d" {
		t.Errorf("first entry not mapped: %+v", forecast[0])
	}
	if !forecast[1].At.Equal(time.Unix(1660010800, 0)) {
		t.Errorf("timestamp not mapped: %v", forecast[1].At)
	}
}

func TestNotFoundIsUpstreamError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"cod": "404", "message": "city not found"}`))
	}))

	_, err := client.CurrentWeatherByCity(context.Background(), "Nowhere", weather.UnitMetric)
	if !errors.Is(err, weather.ErrUpstream) {
		t.Fatalf("want ErrUpstream, got %v", err)
	}
}

func TestMissingConditionsIsMalformed(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 1, "name": "Kyiv", "weather": [], "main": {"temp": 1}}`))
	}))

	_, err := client.CurrentWeather(context.Background(), 1, 2, weather.UnitMetric)
	if !errors.Is(err, weather.ErrMalformedResponse) {
		t.Fatalf("want ErrMalformedResponse, got %v", err)
	}
}

func TestSearchLocations(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/direct" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("limit") != "5" || q.Get("q") != "Springfield" {
			t.Errorf("unexpected query: %v", q)
		}
		w.Write([]byte(`[
			{"id": 12345, "name": "Springfield", "country": "US", "lat": 39.8, "lon": -89.65},
			{"name": "Springfield", "country": "CA", "lat": 45.1, "lon": -66.05}
		]`))
	}))

	locations, err := client.SearchLocations(context.Background(), "Springfield")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(locations) != 2 {
		t.Fatalf("got %d locations, want 2", len(locations))
	}
	if locations[0].ID != 12345 {
		t.Errorf("provider id not kept: %+v", locations[0])
	}
	if locations[1].ID == 0 {
		t.Error("missing provider id should be synthesized")
	}

	// A repeated search must synthesize the same id for the same place.
	again, err := client.SearchLocations(context.Background(), "Springfield")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again[1].ID != locations[1].ID {
		t.Errorf("synthesized id not stable: %d vs %d", again[1].ID, locations[1].ID)
	}
}

func TestNetworkFailureIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from now on

	httpClient := &http.Client{Timeout: 2 * time.Second}
	client := NewOpenWeatherClient(httpClient, "test-key", srv.URL, srv.URL)

	_, err := client.Forecast(context.Background(), 1, 2, weather.UnitMetric)
	if !errors.Is(err, weather.ErrUpstream) {
		t.Fatalf("want ErrUpstream, got %v", err)
	}
}
