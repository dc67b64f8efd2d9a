package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds everything main needs to wire the application.
type AppConfig struct {
	// OpenWeatherAPIKey authenticates every provider call.
	OpenWeatherAPIKey string

	// Provider hosts. Overridable mostly for tests.
	WeatherBaseURL string
	GeoBaseURL     string
	IconBaseURL    string

	// HTTPTimeout bounds each outbound provider request.
	HTTPTimeout time.Duration

	// SettingsPath is the sqlite file holding favorites and preferences.
	SettingsPath string

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	if cfg.OpenWeatherAPIKey == "" {
		return nil, fmt.Errorf("OPENWEATHER_API_KEY is required")
	}

	cfg.WeatherBaseURL = getenvDefault("WEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5")
	cfg.GeoBaseURL = getenvDefault("GEO_BASE_URL", "https://api.openweathermap.org/geo/1.0")
	cfg.IconBaseURL = getenvDefault("ICON_BASE_URL", "https://openweathermap.org/img/wn")

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.SettingsPath = getenvDefault("SETTINGS_PATH", "skycast.db")
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
