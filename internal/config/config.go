package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/aqinsight/air-quality-insight/internal/airquality"
)

type AppConfig struct {
	// DataPath points at the processed readings CSV loaded on startup.
	// Empty means no preloaded dataset.
	DataPath string

	// DefaultThreshold is the exceedance threshold applied when a
	// query does not supply one.
	DefaultThreshold float64

	// FetchInterval controls how often upstream providers are polled.
	FetchInterval time.Duration

	// Locations to poll providers for.
	Locations []airquality.Location

	// HTTPTimeout bounds outbound provider calls.
	HTTPTimeout time.Duration

	OpenWeatherAPIKey string
	GeocoderAPIKey    string

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.DataPath = os.Getenv("DATA_PATH")
	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")
	cfg.Port = getenvDefault("PORT", "8080")

	cfg.DefaultThreshold = getenvFloat("DEFAULT_THRESHOLD", 100)
	if cfg.DefaultThreshold <= 0 {
		return nil, fmt.Errorf("DEFAULT_THRESHOLD must be positive")
	}

	// Provider polling interval: default hourly, matching the
	// resolution of the upstream APIs.
	intervalStr := getenvDefault("FETCH_INTERVAL", "1h")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_INTERVAL: %w", err)
	}
	cfg.FetchInterval = interval

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	locs, err := loadLocations()
	if err != nil {
		return nil, err
	}
	cfg.Locations = locs

	return cfg, nil
}

// loadLocations parses the comma-aligned AQ_LOCATION_CITY and
// AQ_LOCATION_COUNTRY lists. Both empty means no upstream polling.
func loadLocations() ([]airquality.Location, error) {
	city := os.Getenv("AQ_LOCATION_CITY")
	country := os.Getenv("AQ_LOCATION_COUNTRY")
	if city == "" && country == "" {
		return nil, nil
	}

	cities := strings.Split(city, ",")
	countries := strings.Split(country, ",")
	if len(cities) != len(countries) {
		return nil, fmt.Errorf("number of cities and countries must be the same")
	}

	var locs []airquality.Location
	for i := range cities {
		locs = append(locs, airquality.Location{
			City:    strings.TrimSpace(cities[i]),
			Country: strings.TrimSpace(countries[i]),
		})
	}
	return locs, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
