package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleBackendTranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())

		assert.Equal(t, "secret", r.PostFormValue("key"))
		assert.Equal(t, "용접", r.PostFormValue("q"))
		assert.Equal(t, "ko", r.PostFormValue("source"))
		assert.Equal(t, "en", r.PostFormValue("target"))
		assert.Equal(t, "text", r.PostFormValue("format"))

		w.Write([]byte(`{"data":{"translations":[{"translatedText":"Welding"}]}}`))
	}))
	defer srv.Close()

	g := &googleBackend{
		apiKey:   "secret",
		endpoint: srv.URL,
		client:   &http.Client{Timeout: time.Second},
	}

	out, err := g.Translate(context.Background(), "용접", "ko", "en")
	require.NoError(t, err)
	assert.Equal(t, "Welding", out)
}

func TestGoogleBackendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer srv.Close()

	g := &googleBackend{
		apiKey:   "secret",
		endpoint: srv.URL,
		client:   &http.Client{Timeout: time.Second},
	}

	_, err := g.Translate(context.Background(), "용접", "ko", "en")
	assert.ErrorContains(t, err, "403")
}

func TestGoogleBackendEmptyTranslations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":{"translations":[]}}`))
	}))
	defer srv.Close()

	g := &googleBackend{
		apiKey:   "secret",
		endpoint: srv.URL,
		client:   &http.Client{Timeout: time.Second},
	}

	_, err := g.Translate(context.Background(), "용접", "ko", "en")
	assert.Error(t, err)
}

func TestNewGoogleBackendWithoutKey(t *testing.T) {
	viper.Set("translate.api_key", "")

	assert.Nil(t, NewGoogleBackend())
}
