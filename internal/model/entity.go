// Package model defines database models and operation result types
package model

// Entity is one uploaded training video group: a stable ID, a permanent
// watch link, and a growing set of per-language video variants under a
// fixed storage folder.
type Entity struct {
	ID string `gorm:"primaryKey" json:"id"`

	Title       string `json:"title"`
	Description string `json:"description"`

	MainCategory string `json:"main_category"`
	SubCategory  string `json:"sub_category"`
	LeafCategory string `json:"leaf_category"`

	// Fixed at creation. Every later language variant writes under it so
	// retried uploads overwrite instead of duplicating.
	BaseFolder string `json:"base_folder"`

	// The value embedded in the QR code. Constant for the entity's lifetime.
	WatchLink string `json:"watch_link"`

	QRKey         string `json:"qr_key,omitempty"`
	QRURL         string `json:"qr_url,omitempty"`
	ThumbKey      string `json:"thumbnail_key,omitempty"`
	ThumbURL      string `json:"thumbnail_url,omitempty"`
	TotalSize     int64  `json:"total_size"`
	LanguageCount int    `json:"language_count"`

	Variants     []LanguageVariant   `gorm:"foreignKey:EntityID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	Translations []TranslationRecord `gorm:"foreignKey:EntityID;constraint:OnDelete:CASCADE" json:"-"`

	// Unix second timestamps
	CreatedAt int64 `gorm:"not null" json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// LanguageVariant is one language-specific video file of an Entity. At most
// one variant exists per language code; attaching again overwrites it.
type LanguageVariant struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	EntityID string `gorm:"index;uniqueIndex:idx_entity_lang" json:"-"`

	LanguageCode string `gorm:"uniqueIndex:idx_entity_lang" json:"language_code"`
	LanguageName string `json:"language_name"`

	VideoKey    string `json:"video_key"`
	VideoURL    string `json:"video_url"`
	ContentType string `json:"content_type"`
	FileSize    int64  `json:"file_size"`

	DurationSeconds int     `json:"duration_seconds"`
	DurationString  string  `json:"duration_string"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	FPS             float64 `json:"fps"`

	// True for exactly one variant per entity, assigned at creation and
	// never reassigned by attach operations.
	IsOriginal bool  `json:"is_original"`
	UploadedAt int64 `json:"uploaded_at"`
}

// SearchRecord is the denormalized search surface of an entity, written in
// the same batch as the entity itself: lowercased title and description, the
// category path and extracted tags.
type SearchRecord struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	EntityID string `gorm:"uniqueIndex" json:"-"`

	SearchableTitle   string `json:"searchable_title"`
	SearchableContent string `json:"searchable_content"`
	CategoryPath      string `json:"category_path"`

	// Comma-joined tag list extracted from the description
	Tags string `json:"tags"`
}

// TranslationRecord stores the filesystem-safe translated title for one
// language, computed once at entity creation and read-only afterwards. It
// keeps later language-variant uploads named consistently.
type TranslationRecord struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	EntityID string `gorm:"index;uniqueIndex:idx_entity_translation" json:"-"`

	LanguageCode string `gorm:"uniqueIndex:idx_entity_translation" json:"language_code"`
	SafeTitle    string `json:"safe_title"`
}
