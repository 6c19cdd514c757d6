package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
)

// FoodInfo is one hit from the food-composition provider.
type FoodInfo struct {
	Name            string
	CaloriesPer100g float64
}

// FoodClient queries the Open Food Facts search API. Product names pass
// through the Translator first since the upstream indexes English names.
type FoodClient struct {
	baseURL    string
	translator Translator
	hc         *http.Client
}

func NewFoodClient(tr Translator) *FoodClient {
	return &FoodClient{
		baseURL:    "https://world.openfoodfacts.org/cgi/search.pl",
		translator: tr,
		hc:         &http.Client{Timeout: defaultTimeout},
	}
}

// SetBaseURL overrides the API endpoint (for testing).
func (c *FoodClient) SetBaseURL(u string) { c.baseURL = u }

// Food returns the first matching product. A miss or any upstream
// failure returns ok false; the caller shows "not found" either way.
func (c *FoodClient) Food(ctx context.Context, name string) (FoodInfo, bool) {
	query := translateOrOriginal(ctx, c.translator, name)
	reqURL := fmt.Sprintf("%s?action=process&search_terms=%s&json=true", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return FoodInfo{}, false
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		log.Printf("[lookup] food %q: %v", name, err)
		return FoodInfo{}, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("[lookup] food %q: unexpected status %d", name, resp.StatusCode)
		return FoodInfo{}, false
	}

	var payload struct {
		Products []struct {
			ProductName string `json:"product_name"`
			Nutriments  struct {
				EnergyKcal100g float64 `json:"energy-kcal_100g"`
			} `json:"nutriments"`
		} `json:"products"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("[lookup] food %q: decode: %v", name, err)
		return FoodInfo{}, false
	}
	if len(payload.Products) == 0 {
		return FoodInfo{}, false
	}

	first := payload.Products[0]
	displayName := first.ProductName
	if displayName == "" {
		displayName = name
	}
	return FoodInfo{Name: displayName, CaloriesPer100g: first.Nutriments.EnergyKcal100g}, true
}
