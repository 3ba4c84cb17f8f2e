package service

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxTags = 6

var (
	bulletItem   = regexp.MustCompile(`[•·▪▫◦‣⁃]\s*([^•·▪▫◦‣⁃\n]+)`)
	numberedItem = regexp.MustCompile(`\d+\.\s*([^\d\n]+)`)

	// Domain terms worth tagging even when the description has no list
	// structure to mine
	commonTagKeywords = []string{"안전", "교육", "장비", "사용법", "점검", "응급처치", "비상대응", "법규", "규정"}
)

// ExtractTags pulls up to six search tags out of a course description: the
// first bullet and numbered list items, then well-known safety-domain
// keywords the text mentions. Purely best effort; an unstructured
// description can legitimately yield nothing.
func ExtractTags(content string) []string {
	var candidates []string

	for _, m := range bulletItem.FindAllStringSubmatch(content, 3) {
		candidates = append(candidates, m[1])
	}

	for _, m := range numberedItem.FindAllStringSubmatch(content, 3) {
		candidates = append(candidates, m[1])
	}

	for _, kw := range commonTagKeywords {
		if strings.Contains(content, kw) {
			candidates = append(candidates, kw)
		}
	}

	tags := make([]string, 0, maxTags)
	seen := make(map[string]bool, maxTags)

	for _, c := range candidates {
		c = strings.TrimSpace(c)

		if utf8.RuneCountInString(c) < 2 || seen[c] {
			continue
		}

		seen[c] = true
		tags = append(tags, c)

		if len(tags) == maxTags {
			break
		}
	}

	return tags
}
