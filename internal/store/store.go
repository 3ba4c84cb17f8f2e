// Package store is the metadata boundary: entities, their language
// variants and translation records, with batched atomic writes. The
// upload orchestrator is the only writer.
package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"vlingo/video-api/internal/model"
)

var ErrNotFound = errors.New("entity not found")

type MetadataStore struct {
	db *gorm.DB
}

func New(db *gorm.DB) *MetadataStore {
	return &MetadataStore{db: db}
}

// CreateEntity persists the entity, its original-language variant, the
// translation records and the search record in one transaction. Either
// everything lands or nothing does — a failed batch must not leave a
// partial metadata record, even though storage objects written earlier
// stay behind as orphans. The search record is optional.
func (s *MetadataStore) CreateEntity(e *model.Entity, v *model.LanguageVariant, translations []model.TranslationRecord, search *model.SearchRecord) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(e).Error; err != nil {
			return fmt.Errorf("failed to create entity, %w", err)
		}

		v.EntityID = e.ID
		if err := tx.Create(v).Error; err != nil {
			return fmt.Errorf("failed to create language variant, %w", err)
		}

		for i := range translations {
			translations[i].EntityID = e.ID
		}

		if len(translations) > 0 {
			if err := tx.Create(&translations).Error; err != nil {
				return fmt.Errorf("failed to create translation records, %w", err)
			}
		}

		if search != nil {
			search.EntityID = e.ID
			if err := tx.Create(search).Error; err != nil {
				return fmt.Errorf("failed to create search record, %w", err)
			}
		}

		return nil
	})
}

// UpsertVariant attaches or replaces the variant for (entity, language) and
// keeps the parent's language count and updated-at in the same transaction.
// Concurrent attaches for the same language race last-write-wins, which is
// fine because the write is idempotent per language.
func (s *MetadataStore) UpsertVariant(entityID string, v *model.LanguageVariant) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var entity model.Entity

		if err := tx.First(&entity, "id = ?", entityID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		err := tx.
			Where("entity_id = ? AND language_code = ?", entityID, v.LanguageCode).
			Delete(&model.LanguageVariant{}).
			Error
		if err != nil {
			return fmt.Errorf("failed to replace existing variant, %w", err)
		}

		v.EntityID = entityID
		if err := tx.Create(v).Error; err != nil {
			return fmt.Errorf("failed to create language variant, %w", err)
		}

		// Recompute both aggregates from the variant rows. A replaced
		// variant must not leave its old size behind in the parent total.
		var count int64
		err = tx.
			Model(&model.LanguageVariant{}).
			Where("entity_id = ?", entityID).
			Count(&count).
			Error
		if err != nil {
			return err
		}

		var total int64
		err = tx.
			Model(&model.LanguageVariant{}).
			Where("entity_id = ?", entityID).
			Select("COALESCE(SUM(file_size), 0)").
			Scan(&total).
			Error
		if err != nil {
			return err
		}

		return tx.
			Model(&model.Entity{}).
			Where("id = ?", entityID).
			Updates(map[string]any{
				"language_count": count,
				"total_size":     total,
				"updated_at":     time.Now().Unix(),
			}).
			Error
	})
}

// GetEntity loads an entity with its variants
func (s *MetadataStore) GetEntity(id string) (*model.Entity, error) {
	var e model.Entity

	err := s.db.
		Preload("Variants").
		First(&e, "id = ?", id).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &e, nil
}

// GetTranslations returns the stored safe-title map for an entity. An
// entity without records yields an empty map, not an error.
func (s *MetadataStore) GetTranslations(entityID string) (map[string]string, error) {
	var records []model.TranslationRecord

	err := s.db.
		Where("entity_id = ?", entityID).
		Find(&records).
		Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(records))
	for _, r := range records {
		out[r.LanguageCode] = r.SafeTitle
	}

	return out, nil
}

// Analytics builds the per-language usage report for one entity
func (s *MetadataStore) Analytics(id string) (*model.AnalyticsResult, error) {
	e, err := s.GetEntity(id)
	if err != nil {
		return nil, err
	}

	breakdown := make(map[string]model.LanguageStats, len(e.Variants))
	for _, v := range e.Variants {
		breakdown[v.LanguageCode] = model.LanguageStats{
			LanguageName: v.LanguageName,
			FileSize:     v.FileSize,
			Duration:     v.DurationString,
			Resolution:   fmt.Sprintf("%dx%d", v.Width, v.Height),
			FPS:          v.FPS,
			UploadedAt:   v.UploadedAt,
			IsOriginal:   v.IsOriginal,
		}
	}

	return &model.AnalyticsResult{
		EntityID:          e.ID,
		Title:             e.Title,
		CategoryPath:      fmt.Sprintf("%s > %s > %s", e.MainCategory, e.SubCategory, e.LeafCategory),
		WatchLink:         e.WatchLink,
		TotalSize:         e.TotalSize,
		LanguageCount:     e.LanguageCount,
		CreatedAt:         e.CreatedAt,
		LanguageBreakdown: breakdown,
	}, nil
}

// SearchEntities matches the query against the denormalized search records
// (lowercased title, content and tags) and returns the newest matching
// entities with their variants
func (s *MetadataStore) SearchEntities(query string, limit int) ([]model.Entity, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	var ids []string
	err := s.db.
		Model(&model.SearchRecord{}).
		Where("searchable_title LIKE ? OR searchable_content LIKE ? OR tags LIKE ?", pattern, pattern, pattern).
		Pluck("entity_id", &ids).
		Error
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []model.Entity{}, nil
	}

	var entities []model.Entity
	err = s.db.
		Preload("Variants").
		Where("id IN ?", ids).
		Order("created_at DESC").
		Limit(limit).
		Find(&entities).
		Error

	return entities, err
}

// ListEntities returns the newest entities with their variants
func (s *MetadataStore) ListEntities(limit int) ([]model.Entity, error) {
	var entities []model.Entity

	err := s.db.
		Preload("Variants").
		Order("created_at DESC").
		Limit(limit).
		Find(&entities).
		Error

	return entities, err
}

// EntityKeys collects every storage key referenced by an entity, for
// object-store cleanup before the metadata is deleted
func (s *MetadataStore) EntityKeys(id string) ([]string, error) {
	e, err := s.GetEntity(id)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(e.Variants)+2)
	for _, v := range e.Variants {
		if v.VideoKey != "" {
			keys = append(keys, v.VideoKey)
		}
	}

	if e.QRKey != "" {
		keys = append(keys, e.QRKey)
	}
	if e.ThumbKey != "" {
		keys = append(keys, e.ThumbKey)
	}

	return keys, nil
}

// DeleteEntity removes the entity and its subrecords in one transaction
func (s *MetadataStore) DeleteEntity(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entity_id = ?", id).Delete(&model.LanguageVariant{}).Error; err != nil {
			return err
		}

		if err := tx.Where("entity_id = ?", id).Delete(&model.TranslationRecord{}).Error; err != nil {
			return err
		}

		if err := tx.Where("entity_id = ?", id).Delete(&model.SearchRecord{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&model.Entity{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		return nil
	})
}
