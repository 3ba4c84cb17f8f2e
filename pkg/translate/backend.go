package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// Backend is a remote text-in/text-out translation service. A nil backend
// is a supported configuration: the Translator then runs entirely on the
// keyword fallback tables.
type Backend interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// googleBackend talks to the Google Translate v2 REST endpoint
type googleBackend struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewGoogleBackend returns nil when no API key is configured, which the
// Translator treats as "fallback only".
func NewGoogleBackend() Backend {
	key := viper.GetString("translate.api_key")
	if key == "" {
		return nil
	}

	endpoint := viper.GetString("translate.endpoint")
	if endpoint == "" {
		endpoint = "https://translation.googleapis.com/language/translate/v2"
	}

	return &googleBackend{
		apiKey:   key,
		endpoint: endpoint,
		client:   &http.Client{Timeout: requestTimeout},
	}
}

type translateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

func (g *googleBackend) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	form := url.Values{}
	form.Set("key", g.apiKey)
	form.Set("q", text)
	form.Set("source", sourceLang)
	form.Set("target", targetLang)
	form.Set("format", "text")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("translate API returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode translate response, %w", err)
	}

	if len(parsed.Data.Translations) == 0 {
		return "", errors.New("translate response contained no translations")
	}

	return parsed.Data.Translations[0].TranslatedText, nil
}
