// Package translate turns an original Korean title into filesystem-safe
// titles for every supported language. It degrades to keyword substitution
// whenever the remote service is missing or misbehaving, so callers always
// get a complete map back.
package translate

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v2"
	"go.uber.org/zap"
)

const (
	// SourceLanguage is the language uploads originate in
	SourceLanguage = "ko"

	maxAttempts    = 3
	requestTimeout = 30 * time.Second

	cacheTTL  = time.Hour
	cacheSize = 256
)

// TargetLanguages are the languages a title is translated into, in a fixed
// order so progress reporting and logs stay stable.
var TargetLanguages = []string{"en", "zh", "vi", "th", "ja"}

// LanguageNames maps supported codes to their display names
var LanguageNames = map[string]string{
	"ko": "한국어",
	"en": "English",
	"zh": "中文",
	"vi": "Tiếng Việt",
	"th": "ไทย",
	"ja": "日本語",
}

// Supported reports whether code is one of the six supported languages
func Supported(code string) bool {
	_, ok := LanguageNames[code]
	return ok
}

// Sanitizer makes a translated title safe for use as a path segment
type Sanitizer func(string) string

type Translator struct {
	backend  Backend
	sanitize Sanitizer
	cache    *ttlcache.Cache
}

// New builds a Translator. backend may be nil (fallback-only mode);
// sanitize must not be nil.
func New(backend Backend, sanitize Sanitizer) *Translator {
	cache := ttlcache.NewCache()
	cache.SetTTL(cacheTTL)
	cache.SetCacheSizeLimit(cacheSize)

	if backend == nil {
		zap.L().Warn("No translation backend configured, using keyword fallback only")
	}

	return &Translator{
		backend:  backend,
		sanitize: sanitize,
		cache:    cache,
	}
}

// TranslateTitle returns a sanitized title for every supported language,
// the original included. It never fails: each target language degrades
// independently to the keyword fallback.
func (t *Translator) TranslateTitle(ctx context.Context, title string) map[string]string {
	if cached, err := t.cache.Get(cacheKey(title)); err == nil {
		return cloneMap(cached.(map[string]string))
	}

	out := make(map[string]string, len(TargetLanguages)+1)
	out[SourceLanguage] = t.sanitize(title)

	degraded := false

	for _, lang := range TargetLanguages {
		translated, err := t.translateOne(ctx, title, lang)
		if err != nil {
			zap.L().Warn("Translation degraded to fallback",
				zap.String("lang", lang),
				zap.Error(err),
			)

			translated = fallbackTitle(title, lang)
			degraded = true
		}

		out[lang] = t.sanitize(translated)
	}

	// Only fully remote-translated results are worth caching. Fallback
	// output is cheap to recompute and should heal once the backend is back.
	if !degraded {
		t.cache.Set(cacheKey(title), cloneMap(out))
	}

	return out
}

// translateOne calls the backend with bounded retries and validates that the
// answer is a genuine translation rather than an echo
func (t *Translator) translateOne(ctx context.Context, title, lang string) (string, error) {
	if t.backend == nil {
		return "", fmt.Errorf("no backend configured")
	}

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(time.Duration(attempt-1) * time.Second):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		result, err := t.backend.Translate(ctx, title, SourceLanguage, lang)
		if err != nil {
			lastErr = err
			continue
		}

		if err := validate(title, result); err != nil {
			lastErr = err
			continue
		}

		return result, nil
	}

	return "", fmt.Errorf("all %d attempts failed, %w", maxAttempts, lastErr)
}

func validate(source, result string) error {
	trimmed := strings.TrimSpace(result)

	if trimmed == "" {
		return fmt.Errorf("empty translation")
	}

	if trimmed == source {
		return fmt.Errorf("translation echoed the input")
	}

	if strings.EqualFold(trimmed, source) {
		return fmt.Errorf("translation is a case-folded echo of the input")
	}

	return nil
}

func cacheKey(title string) string {
	h := fnv.New64a()
	h.Write([]byte(title))
	return fmt.Sprintf("%x", h.Sum64())
}

func cloneMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
