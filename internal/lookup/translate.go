package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Translator rewrites a query before it reaches an English-only
// upstream. Implementations must be safe to call concurrently.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// GoogleTranslator uses the unauthenticated gtx endpoint to translate
// arbitrary text to English.
type GoogleTranslator struct {
	baseURL string
	hc      *http.Client
}

func NewGoogleTranslator() *GoogleTranslator {
	return &GoogleTranslator{
		baseURL: "https://translate.googleapis.com/translate_a/single",
		hc:      &http.Client{Timeout: defaultTimeout},
	}
}

// SetBaseURL overrides the API endpoint (for testing).
func (g *GoogleTranslator) SetBaseURL(u string) { g.baseURL = u }

func (g *GoogleTranslator) Translate(ctx context.Context, text string) (string, error) {
	reqURL := fmt.Sprintf("%s?client=gtx&sl=auto&tl=en&dt=t&q=%s", g.baseURL, url.QueryEscape(text))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := g.hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate: unexpected status %d", resp.StatusCode)
	}

	// Response shape: [[["translated","original",...],...],...]
	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("translate: decode: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("translate: empty response")
	}
	var sentences [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &sentences); err != nil {
		return "", fmt.Errorf("translate: decode sentences: %w", err)
	}
	if len(sentences) == 0 || len(sentences[0]) == 0 {
		return "", fmt.Errorf("translate: no translation")
	}
	var translated string
	if err := json.Unmarshal(sentences[0][0], &translated); err != nil {
		return "", fmt.Errorf("translate: decode text: %w", err)
	}
	return translated, nil
}

// translateOrOriginal runs text through tr, falling back to the original
// text when tr is nil or fails. Lookups must not break because the
// translator is down.
func translateOrOriginal(ctx context.Context, tr Translator, text string) string {
	if tr == nil {
		return text
	}
	translated, err := tr.Translate(ctx, text)
	if err != nil {
		return text
	}
	return translated
}
