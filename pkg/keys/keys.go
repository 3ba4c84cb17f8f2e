// Package keys derives deterministic object storage paths for entities
// and their assets
package keys

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Role tags appended to object keys so assets belonging to the same
// entity can be told apart inside its base folder.
const (
	RoleVideo      = "video"
	RoleThumbnail  = "thumbnail"
	RoleQRCombined = "qr_combined"
)

const maxTitleBytes = 200

// Placeholder used when sanitization strips a title down to nothing
const fallbackTitle = "Unknown_Title"

// BaseFolder returns the storage prefix for an entity. The prefix buckets
// uploads by year/month and embeds the entity ID, so the result is unique
// per entity and stable across retries with the same inputs.
func BaseFolder(entityID string, ts time.Time, title string) string {
	return fmt.Sprintf("videos/%s/%s/%s_%s", ts.Format("2006"), ts.Format("01"), entityID, SafeTitle(title))
}

// ObjectKey builds the full storage key for one asset under base.
// Video keys carry the language code, image assets don't need one.
func ObjectKey(base, name, role, lang, ext string) string {
	name = SafeTitle(name)

	if role == RoleVideo {
		return fmt.Sprintf("%s/%s_%s_%s%s", base, name, role, lang, ext)
	}

	return fmt.Sprintf("%s/%s_%s%s", base, name, role, ext)
}

// SafeTitle turns arbitrary user text into a single path segment. Reserved
// and control characters become underscores, whitespace collapses to one
// underscore, runs of underscores collapse, and the result is capped at
// maxTitleBytes without splitting a rune. Never returns an empty string.
func SafeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	for _, r := range title {
		switch {
		case r == '<' || r == '>' || r == ':' || r == '"' || r == '/' || r == '\\' || r == '|' || r == '?' || r == '*' || r == '.':
			b.WriteRune('_')
		case unicode.IsControl(r):
			b.WriteRune('_')
		case unicode.IsSpace(r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}

	s := collapseUnderscores(b.String())
	s = strings.Trim(s, "_")
	s = capBytes(s, maxTitleBytes)
	s = strings.Trim(s, "_")

	if s == "" {
		return fallbackTitle
	}

	return s
}

func collapseUnderscores(s string) string {
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}

	return s
}

// capBytes truncates s to at most n bytes on a rune boundary
func capBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}

	for n > 0 && !isRuneStart(s[n]) {
		n--
	}

	return s[:n]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
