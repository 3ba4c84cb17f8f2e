package keys

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseFolderDeterministic(t *testing.T) {
	ts := time.Date(2025, 6, 14, 10, 30, 0, 0, time.UTC)

	first := BaseFolder("a1b2c3d4e5f6g7h8", ts, "기초 안전교육")
	second := BaseFolder("a1b2c3d4e5f6g7h8", ts, "기초 안전교육")

	require.Equal(t, first, second)
	assert.Equal(t, "videos/2025/06/a1b2c3d4e5f6g7h8_기초_안전교육", first)
}

func TestObjectKey(t *testing.T) {
	base := "videos/2025/06/a1b2c3d4e5f6g7h8_Basic_Welding"

	tests := []struct {
		name string
		role string
		lang string
		ext  string
		want string
	}{
		{
			name: "video carries language code",
			role: RoleVideo,
			lang: "ko",
			ext:  ".mp4",
			want: base + "/Basic_Welding_video_ko.mp4",
		},
		{
			name: "thumbnail has no language code",
			role: RoleThumbnail,
			ext:  ".jpg",
			want: base + "/Basic_Welding_thumbnail.jpg",
		},
		{
			name: "qr asset has no language code",
			role: RoleQRCombined,
			ext:  ".png",
			want: base + "/Basic_Welding_qr_combined.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ObjectKey(base, "Basic Welding", tt.role, tt.lang, tt.ext)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSafeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"기초 안전교육", "기초_안전교육"},
		{"a/b\\c:d*e?f\"g<h>i|j", "a_b_c_d_e_f_g_h_i_j"},
		{"../../../etc/passwd", "etc_passwd"},
		{"   spaced    out   ", "spaced_out"},
		{"___", "Unknown_Title"},
		{"", "Unknown_Title"},
		{"tab\there\nnewline", "tab_here_newline"},
	}

	for _, tt := range tests {
		got := SafeTitle(tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestSafeTitleByteCap(t *testing.T) {
	long := strings.Repeat("가", 200)

	got := SafeTitle(long)

	assert.LessOrEqual(t, len(got), 200)
	// Truncation must not split a rune
	for _, r := range got {
		assert.Equal(t, '가', r)
	}
}

func TestSafeTitleIdempotent(t *testing.T) {
	in := "기초 용접/안전 교육 v2.1"

	once := SafeTitle(in)
	twice := SafeTitle(once)

	assert.Equal(t, once, twice)
}
