// Package lookup holds the clients for the external data providers:
// current weather by city, food composition by product name, and
// calories burned by activity name. Transport failures never escape as
// errors; each client degrades to "no result".
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"
)

const defaultTimeout = 10 * time.Second

// WeatherClient queries the OpenWeatherMap current-weather endpoint.
type WeatherClient struct {
	apiKey  string
	baseURL string
	hc      *http.Client
}

func NewWeatherClient(apiKey string) *WeatherClient {
	return &WeatherClient{
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		hc:      &http.Client{Timeout: defaultTimeout},
	}
}

// SetBaseURL overrides the API endpoint (for testing).
func (c *WeatherClient) SetBaseURL(u string) { c.baseURL = u }

// Temperature returns the current temperature in the city, in Celsius.
// Any failure (transport, non-200, malformed body) returns hasTemp
// false; callers treat that as "no reading".
func (c *WeatherClient) Temperature(ctx context.Context, city string) (float64, bool) {
	reqURL := fmt.Sprintf("%s?q=%s&appid=%s&units=metric", c.baseURL, url.QueryEscape(city), url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, false
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		log.Printf("[lookup] weather %q: %v", city, err)
		return 0, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("[lookup] weather %q: unexpected status %d", city, resp.StatusCode)
		return 0, false
	}

	var payload struct {
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("[lookup] weather %q: decode: %v", city, err)
		return 0, false
	}
	return payload.Main.Temp, true
}

// CityKnown reports whether the weather provider recognizes the city.
// Only a definitive 404 rejects it; a transport failure must not block
// profile setup, so it counts as known.
func (c *WeatherClient) CityKnown(ctx context.Context, city string) bool {
	reqURL := fmt.Sprintf("%s?q=%s&appid=%s&units=metric", c.baseURL, url.QueryEscape(city), url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return true
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		log.Printf("[lookup] city check %q: %v", city, err)
		return true
	}
	defer resp.Body.Close()
	return resp.StatusCode != http.StatusNotFound
}
