package service

import (
	"fmt"

	"vlingo/video-api/internal/model"
	"vlingo/video-api/internal/store"
	"vlingo/video-api/pkg/translate"
)

// WatchResolver picks the video variant to play for a watch request
type WatchResolver struct {
	meta *store.MetadataStore
}

func NewWatchResolver(meta *store.MetadataStore) *WatchResolver {
	return &WatchResolver{meta: meta}
}

// Resolve returns the variant for the requested language, falling back to
// the original-language variant, then to any variant. Unsupported language
// codes behave like a request for the original language. Only an unknown
// entity yields store.ErrNotFound.
func (r *WatchResolver) Resolve(entityID, lang string) (*model.WatchResult, error) {
	if !translate.Supported(lang) {
		lang = translate.SourceLanguage
	}

	e, err := r.meta.GetEntity(entityID)
	if err != nil {
		return nil, err
	}

	picked := pickVariant(e.Variants, lang)
	if picked == nil {
		// Every entity is created with its original variant, so an empty
		// variant list means the record was corrupted out-of-band.
		return nil, fmt.Errorf("entity %s has no playable variants", entityID)
	}

	return &model.WatchResult{
		EntityID:             e.ID,
		Title:                e.Title,
		RequestedLanguage:    lang,
		ActualLanguage:       picked.LanguageCode,
		VideoURL:             picked.VideoURL,
		HasRequestedLanguage: picked.LanguageCode == lang,
	}, nil
}

// pickVariant matches the requested language only when its variant is
// actually playable: a variant with an empty VideoURL falls through to the
// original instead of handing the viewer a dead link
func pickVariant(variants []model.LanguageVariant, lang string) *model.LanguageVariant {
	var original *model.LanguageVariant

	for i := range variants {
		v := &variants[i]

		if v.LanguageCode == lang && v.VideoURL != "" {
			return v
		}

		if v.IsOriginal {
			original = v
		}
	}

	if original != nil {
		return original
	}

	if len(variants) > 0 {
		return &variants[0]
	}

	return nil
}
