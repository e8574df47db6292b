package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"

	"github.com/aqinsight/air-quality-insight/internal/airquality"
)

// OpenMeteoProvider fetches hourly pm2.5 and ozone readings from the
// Open-Meteo air-quality API. The API itself is keyless, but locations
// configured without coordinates are resolved through the Google
// geocoding API, which needs a key.
type OpenMeteoProvider struct {
	name        string
	baseURL     string
	geocoderKey string
	httpCfg     HTTPClientConfig
	circuit     *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client, geocoderAPIKey string) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:        "openmeteo",
		baseURL:     "https://air-quality-api.open-meteo.com/v1/air-quality",
		geocoderKey: geocoderAPIKey,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: defaultBackoff(),
		},
		circuit: newCircuit("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, loc airquality.Location) ([]airquality.Reading, error) {
	lat, lon, err := p.coordinates(loc)
	if err != nil {
		return nil, err
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", lat))
		values.Set("longitude", fmt.Sprintf("%f", lon))
		values.Set("hourly", "pm2_5,ozone")
		values.Set("timezone", "UTC")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := fetchWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Hourly struct {
			Time  []string   `json:"time"`
			PM25  []*float64 `json:"pm2_5"`
			Ozone []*float64 `json:"ozone"`
		} `json:"hourly"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	var readings []airquality.Reading
	for i, raw := range payload.Hourly.Time {
		ts, err := parseHourlyTime(raw)
		if err != nil {
			continue
		}
		var ozone *float64
		if v := at(payload.Hourly.Ozone, i); v != nil {
			ppb := *v * o3MassToPPB
			ozone = &ppb
		}
		readings = append(readings,
			p.reading(loc, ts, airquality.PM25, at(payload.Hourly.PM25, i)),
			p.reading(loc, ts, airquality.O3, ozone),
		)
	}
	return readings, nil
}

func (p *OpenMeteoProvider) reading(loc airquality.Location, ts time.Time, pollutant airquality.Pollutant, value *float64) airquality.Reading {
	return airquality.Reading{
		Timestamp:     ts,
		City:          loc.City,
		Station:       p.name,
		Pollutant:     pollutant,
		Concentration: value,
	}
}

// coordinates returns configured coordinates when present, otherwise
// geocodes the city.
func (p *OpenMeteoProvider) coordinates(loc airquality.Location) (float64, float64, error) {
	if loc.Lat != nil && loc.Lon != nil {
		return *loc.Lat, *loc.Lon, nil
	}
	if p.geocoderKey == "" {
		return 0, 0, fmt.Errorf("openmeteo requires coordinates or a geocoder api key for %s", loc.Key())
	}

	geocoder.ApiKey = p.geocoderKey
	coords, err := geocoder.Geocoding(geocoder.Address{
		City:    loc.City,
		Country: loc.Country,
	})
	if err != nil {
		return 0, 0, fmt.Errorf("geocode %s: %w", loc.Key(), err)
	}
	return coords.Latitude, coords.Longitude, nil
}

// parseHourlyTime handles Open-Meteo's minute-resolution timestamps.
func parseHourlyTime(s string) (time.Time, error) {
	ts, err := time.Parse("2006-01-02T15:04", s)
	if err != nil {
		ts, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, err
		}
	}
	return ts.UTC(), nil
}

func at(values []*float64, i int) *float64 {
	if i < 0 || i >= len(values) {
		return nil
	}
	return values[i]
}
