package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/aqinsight/air-quality-insight/internal/airquality"
)

// OpenWeatherProvider fetches current pollutant concentrations from
// the OpenWeatherMap air-pollution API. Requires an API key and
// configured coordinates.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5/air_pollution",
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: defaultBackoff(),
		},
		circuit: newCircuit("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, loc airquality.Location) ([]airquality.Reading, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openweather api key is not configured")
	}
	if loc.Lat == nil || loc.Lon == nil {
		return nil, fmt.Errorf("openweather requires latitude and longitude for %s", loc.Key())
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("appid", p.apiKey)
		values.Set("lat", fmt.Sprintf("%f", *loc.Lat))
		values.Set("lon", fmt.Sprintf("%f", *loc.Lon))

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := fetchWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		List []struct {
			Dt         int64 `json:"dt"`
			Components struct {
				PM25  *float64 `json:"pm2_5"`
				Ozone *float64 `json:"o3"`
			} `json:"components"`
		} `json:"list"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	var readings []airquality.Reading
	for _, entry := range payload.List {
		ts := time.Unix(entry.Dt, 0).UTC()

		readings = append(readings, airquality.Reading{
			Timestamp:     ts,
			City:          loc.City,
			Station:       p.name,
			Pollutant:     airquality.PM25,
			Concentration: entry.Components.PM25,
		})

		var ozone *float64
		if entry.Components.Ozone != nil {
			v := *entry.Components.Ozone * o3MassToPPB
			ozone = &v
		}
		readings = append(readings, airquality.Reading{
			Timestamp:     ts,
			City:          loc.City,
			Station:       p.name,
			Pollutant:     airquality.O3,
			Concentration: ozone,
		})
	}
	return readings, nil
}
