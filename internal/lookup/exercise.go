package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
)

// ExerciseInfo is one hit from the calories-burned provider.
type ExerciseInfo struct {
	Name            string
	CaloriesPerHour float64
}

// ExerciseClient queries the API Ninjas caloriesburned endpoint.
// Activity names pass through the Translator first.
type ExerciseClient struct {
	apiKey     string
	baseURL    string
	translator Translator
	hc         *http.Client
}

func NewExerciseClient(apiKey string, tr Translator) *ExerciseClient {
	return &ExerciseClient{
		apiKey:     apiKey,
		baseURL:    "https://api.api-ninjas.com/v1/caloriesburned",
		translator: tr,
		hc:         &http.Client{Timeout: defaultTimeout},
	}
}

// SetBaseURL overrides the API endpoint (for testing).
func (c *ExerciseClient) SetBaseURL(u string) { c.baseURL = u }

// Exercise returns the first matching activity. A miss or any upstream
// failure returns ok false.
func (c *ExerciseClient) Exercise(ctx context.Context, name string) (ExerciseInfo, bool) {
	query := translateOrOriginal(ctx, c.translator, name)
	reqURL := fmt.Sprintf("%s?activity=%s", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return ExerciseInfo{}, false
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	resp, err := c.hc.Do(req)
	if err != nil {
		log.Printf("[lookup] exercise %q: %v", name, err)
		return ExerciseInfo{}, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("[lookup] exercise %q: unexpected status %d", name, resp.StatusCode)
		return ExerciseInfo{}, false
	}

	var payload []struct {
		Name            string  `json:"name"`
		CaloriesPerHour float64 `json:"calories_per_hour"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("[lookup] exercise %q: decode: %v", name, err)
		return ExerciseInfo{}, false
	}
	if len(payload) == 0 {
		return ExerciseInfo{}, false
	}

	first := payload[0]
	displayName := first.Name
	if displayName == "" {
		displayName = name
	}
	return ExerciseInfo{Name: displayName, CaloriesPerHour: first.CaloriesPerHour}, true
}
