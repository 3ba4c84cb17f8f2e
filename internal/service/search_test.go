package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTagsFromBullets(t *testing.T) {
	content := "이 과정에서 배우는 것:\n• 크레인 조작 기초\n• 신호수 협업\n• 하중 계산"

	tags := ExtractTags(content)

	assert.Contains(t, tags, "크레인 조작 기초")
	assert.Contains(t, tags, "신호수 협업")
	assert.Contains(t, tags, "하중 계산")
}

func TestExtractTagsFromNumberedList(t *testing.T) {
	content := "1. 장비 점검 절차\n2. 시동 전 확인사항"

	tags := ExtractTags(content)

	assert.Contains(t, tags, "장비 점검 절차")
	assert.Contains(t, tags, "시동 전 확인사항")
}

func TestExtractTagsCommonKeywords(t *testing.T) {
	tags := ExtractTags("용접 작업시 안전 수칙과 응급처치 요령을 다룹니다")

	assert.Contains(t, tags, "안전")
	assert.Contains(t, tags, "응급처치")
}

func TestExtractTagsCapAndDedupe(t *testing.T) {
	content := "• 안전\n• 안전\n• 교육 기초\n1. 장비 사용법\n2. 점검 요령\n안전 교육 장비 사용법 점검 응급처치 비상대응 법규 규정"

	tags := ExtractTags(content)

	assert.LessOrEqual(t, len(tags), 6)

	seen := map[string]bool{}
	for _, tag := range tags {
		assert.False(t, seen[tag], "duplicate tag %q", tag)
		seen[tag] = true
	}
}

func TestExtractTagsUnstructuredContent(t *testing.T) {
	assert.Empty(t, ExtractTags("plain description with nothing taggable"))
	assert.Empty(t, ExtractTags(""))
}
