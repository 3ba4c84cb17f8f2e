package model

// VideoMetadata is the advisory technical metadata probed from an upload.
// Zero values are legitimate: probing failures never block an upload.
type VideoMetadata struct {
	DurationSeconds int     `json:"duration_seconds"`
	DurationString  string  `json:"duration_string"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	FPS             float64 `json:"fps"`
	FileSize        int64   `json:"file_size"`
}

// CreateResult is the outcome of a successful entity creation. QRURL and
// ThumbnailURL may be empty when those non-mandatory assets degraded.
type CreateResult struct {
	EntityID     string        `json:"entity_id"`
	WatchLink    string        `json:"watch_link"`
	VideoURL     string        `json:"video_url"`
	QRURL        string        `json:"qr_url,omitempty"`
	ThumbnailURL string        `json:"thumbnail_url,omitempty"`
	Metadata     VideoMetadata `json:"metadata"`
}

// AttachResult is the outcome of a successful language-variant attach
type AttachResult struct {
	LanguageCode string        `json:"language_code"`
	VideoURL     string        `json:"video_url"`
	Metadata     VideoMetadata `json:"metadata"`
}

// LanguageStats is the per-variant slice of an analytics report
type LanguageStats struct {
	LanguageName string  `json:"language_name"`
	FileSize     int64   `json:"file_size"`
	Duration     string  `json:"duration"`
	Resolution   string  `json:"resolution"`
	FPS          float64 `json:"fps"`
	UploadedAt   int64   `json:"uploaded_at"`
	IsOriginal   bool    `json:"is_original"`
}

// AnalyticsResult summarizes one entity: sizes, category path and the
// per-language breakdown
type AnalyticsResult struct {
	EntityID      string `json:"entity_id"`
	Title         string `json:"title"`
	CategoryPath  string `json:"category_path"`
	WatchLink     string `json:"watch_link"`
	TotalSize     int64  `json:"total_size"`
	LanguageCount int    `json:"language_count"`
	CreatedAt     int64  `json:"created_at"`

	LanguageBreakdown map[string]LanguageStats `json:"language_breakdown"`
}

// WatchResult is what the watch resolver returns. HasRequestedLanguage is
// false whenever a fallback variant was substituted, so callers can tell
// the viewer the requested language isn't available yet.
type WatchResult struct {
	EntityID             string `json:"entity_id"`
	Title                string `json:"title"`
	RequestedLanguage    string `json:"requested_language"`
	ActualLanguage       string `json:"actual_language"`
	VideoURL             string `json:"video_url"`
	HasRequestedLanguage bool   `json:"has_requested_language"`
}
