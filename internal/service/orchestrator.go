package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"

	"vlingo/video-api/internal/model"
	"vlingo/video-api/internal/store"
	"vlingo/video-api/pkg/keys"
	"vlingo/video-api/pkg/qr"
	"vlingo/video-api/pkg/storage"
	"vlingo/video-api/pkg/translate"
	"vlingo/video-api/validators"
)

const (
	entityIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	entityIDLength   = 16
)

// Reporter receives coarse progress updates during long operations. May be nil.
type Reporter func(percent int, stage string)

// CreateRequest carries everything needed to create a new entity. File
// paths point at request-scoped temp files the caller cleans up.
type CreateRequest struct {
	Title       string
	Description string

	MainCategory string
	SubCategory  string
	LeafCategory string

	VideoPath     string
	ThumbnailPath string
}

// Orchestrator runs the multi-step upload flows: storage writes first,
// metadata last, with the non-mandatory assets (thumbnail, QR) degrading
// instead of failing the operation.
type Orchestrator struct {
	objects    storage.ObjectStore
	meta       *store.MetadataStore
	translator *translate.Translator
	composer   *qr.Composer

	// Public origin watch links are minted under, e.g. "https://vlingo.example.com"
	publicURL string
}

func NewOrchestrator(objects storage.ObjectStore, meta *store.MetadataStore, translator *translate.Translator, composer *qr.Composer, publicURL string) *Orchestrator {
	return &Orchestrator{
		objects:    objects,
		meta:       meta,
		translator: translator,
		composer:   composer,
		publicURL:  strings.TrimRight(publicURL, "/"),
	}
}

// CreateEntity uploads the original-language video plus its derived assets
// and persists the metadata batch. Only the video upload and the metadata
// write are fatal; thumbnail and QR failures degrade to an entity without
// those assets.
func (o *Orchestrator) CreateEntity(ctx context.Context, req CreateRequest, report Reporter) (*model.CreateResult, error) {
	if report == nil {
		report = func(int, string) {}
	}

	if err := o.validateCreate(req); err != nil {
		return nil, err
	}

	report(5, "validating")

	videoMeta := ProbeVideo(req.VideoPath)
	report(10, "probing")

	id, err := gonanoid.Generate(entityIDAlphabet, entityIDLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate entity ID, %w", err)
	}

	now := time.Now()
	base := keys.BaseFolder(id, now, req.Title)
	watchLink := fmt.Sprintf("%s/watch/%s", o.publicURL, id)

	translations := o.translator.TranslateTitle(ctx, req.Title)
	report(15, "translating")

	safeTitle := translations[translate.SourceLanguage]

	videoExt := strings.ToLower(path.Ext(req.VideoPath))
	videoKey := keys.ObjectKey(base, safeTitle, keys.RoleVideo, translate.SourceLanguage, videoExt)
	contentType := validators.VideoContentType(videoExt)

	videoURL, err := o.objects.Put(ctx, req.VideoPath, videoKey, contentType, uploadProgress(report, videoMeta.FileSize, 15, 75))
	if err != nil {
		return nil, fmt.Errorf("%w, %v", ErrUploadFailed, err)
	}

	report(75, "uploading assets")

	thumbKey, thumbURL := o.uploadThumbnail(ctx, req.ThumbnailPath, base, safeTitle)
	report(82, "uploading assets")

	qrKey, qrURL := o.uploadQR(ctx, id, watchLink, req.Title, req.ThumbnailPath, base, safeTitle)
	report(90, "saving metadata")

	entity := &model.Entity{
		ID:            id,
		Title:         req.Title,
		Description:   req.Description,
		MainCategory:  req.MainCategory,
		SubCategory:   req.SubCategory,
		LeafCategory:  req.LeafCategory,
		BaseFolder:    base,
		WatchLink:     watchLink,
		QRKey:         qrKey,
		QRURL:         qrURL,
		ThumbKey:      thumbKey,
		ThumbURL:      thumbURL,
		TotalSize:     videoMeta.FileSize,
		LanguageCount: 1,
		CreatedAt:     now.Unix(),
		UpdatedAt:     now.Unix(),
	}

	variant := &model.LanguageVariant{
		LanguageCode:    translate.SourceLanguage,
		LanguageName:    translate.LanguageNames[translate.SourceLanguage],
		VideoKey:        videoKey,
		VideoURL:        videoURL,
		ContentType:     contentType,
		FileSize:        videoMeta.FileSize,
		DurationSeconds: videoMeta.DurationSeconds,
		DurationString:  videoMeta.DurationString,
		Width:           videoMeta.Width,
		Height:          videoMeta.Height,
		FPS:             videoMeta.FPS,
		IsOriginal:      true,
		UploadedAt:      now.Unix(),
	}

	records := make([]model.TranslationRecord, 0, len(translations))
	for lang, title := range translations {
		records = append(records, model.TranslationRecord{
			LanguageCode: lang,
			SafeTitle:    title,
		})
	}

	search := &model.SearchRecord{
		SearchableTitle:   strings.ToLower(req.Title),
		SearchableContent: strings.ToLower(req.Description),
		CategoryPath:      fmt.Sprintf("%s/%s/%s", req.MainCategory, req.SubCategory, req.LeafCategory),
		Tags:              strings.Join(ExtractTags(req.Description), ","),
	}

	if err := o.meta.CreateEntity(entity, variant, records, search); err != nil {
		zap.L().Error("Metadata batch failed after storage writes, objects orphaned",
			zap.String("entityID", id),
			zap.String("baseFolder", base),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to persist entity metadata, %w", err)
	}

	report(100, "complete")

	return &model.CreateResult{
		EntityID:     id,
		WatchLink:    watchLink,
		VideoURL:     videoURL,
		QRURL:        qrURL,
		ThumbnailURL: thumbURL,
		Metadata:     videoMeta,
	}, nil
}

// AttachLanguageVariant uploads one more language's video under the
// entity's existing base folder and upserts its variant record. Attaching
// an already-present language overwrites it.
func (o *Orchestrator) AttachLanguageVariant(ctx context.Context, entityID, lang, videoPath string, report Reporter) (*model.AttachResult, error) {
	if report == nil {
		report = func(int, string) {}
	}

	if !translate.Supported(lang) {
		return nil, fmt.Errorf("%w: unsupported language code %q", ErrValidation, lang)
	}

	if err := validators.VideoFile(videoPath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	entity, err := o.meta.GetEntity(entityID)
	if err != nil {
		return nil, err
	}

	report(5, "validating")

	videoMeta := ProbeVideo(videoPath)
	report(10, "probing")

	translations, err := o.meta.GetTranslations(entityID)
	if err != nil {
		return nil, err
	}

	name := translations[lang]
	if name == "" {
		name = keys.SafeTitle(entity.Title)
	}

	videoExt := strings.ToLower(path.Ext(videoPath))
	videoKey := keys.ObjectKey(entity.BaseFolder, name, keys.RoleVideo, lang, videoExt)
	contentType := validators.VideoContentType(videoExt)

	videoURL, err := o.objects.Put(ctx, videoPath, videoKey, contentType, uploadProgress(report, videoMeta.FileSize, 10, 90))
	if err != nil {
		return nil, fmt.Errorf("%w, %v", ErrUploadFailed, err)
	}

	report(90, "saving metadata")

	variant := &model.LanguageVariant{
		LanguageCode:    lang,
		LanguageName:    translate.LanguageNames[lang],
		VideoKey:        videoKey,
		VideoURL:        videoURL,
		ContentType:     contentType,
		FileSize:        videoMeta.FileSize,
		DurationSeconds: videoMeta.DurationSeconds,
		DurationString:  videoMeta.DurationString,
		Width:           videoMeta.Width,
		Height:          videoMeta.Height,
		FPS:             videoMeta.FPS,
		IsOriginal:      wasOriginal(entity.Variants, lang),
		UploadedAt:      time.Now().Unix(),
	}

	if err := o.meta.UpsertVariant(entityID, variant); err != nil {
		return nil, err
	}

	report(100, "complete")

	return &model.AttachResult{
		LanguageCode: lang,
		VideoURL:     videoURL,
		Metadata:     videoMeta,
	}, nil
}

// wasOriginal preserves the IsOriginal flag when a language is re-uploaded:
// the flag is assigned once at creation and never moves between variants
func wasOriginal(variants []model.LanguageVariant, lang string) bool {
	for _, v := range variants {
		if v.LanguageCode == lang {
			return v.IsOriginal
		}
	}

	return false
}

// TranslateTitle previews the per-language titles an upload would get
func (o *Orchestrator) TranslateTitle(ctx context.Context, title string) map[string]string {
	return o.translator.TranslateTitle(ctx, title)
}

// Delete removes an entity's storage objects best-effort, then its metadata
func (o *Orchestrator) Delete(ctx context.Context, entityID string) error {
	objectKeys, err := o.meta.EntityKeys(entityID)
	if err != nil {
		return err
	}

	if len(objectKeys) > 0 {
		if err := o.objects.Delete(ctx, objectKeys...); err != nil {
			// Metadata removal proceeds regardless; leftover objects are
			// harmless and invisible without their entity record.
			zap.L().Warn("Failed to delete some storage objects",
				zap.String("entityID", entityID),
				zap.Error(err),
			)
		}
	}

	return o.meta.DeleteEntity(entityID)
}

func (o *Orchestrator) validateCreate(req CreateRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}

	if !model.ValidCategoryPath(req.MainCategory, req.SubCategory, req.LeafCategory) {
		return fmt.Errorf("%w: unknown category path %s/%s/%s", ErrValidation, req.MainCategory, req.SubCategory, req.LeafCategory)
	}

	if err := validators.VideoFile(req.VideoPath); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if req.ThumbnailPath != "" {
		if err := validators.ImageFile(req.ThumbnailPath); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	return nil
}

// uploadThumbnail is best effort: any failure logs and returns empty values
func (o *Orchestrator) uploadThumbnail(ctx context.Context, thumbPath, base, safeTitle string) (key, url string) {
	if thumbPath == "" {
		return "", ""
	}

	ext := strings.ToLower(path.Ext(thumbPath))
	key = keys.ObjectKey(base, safeTitle, keys.RoleThumbnail, "", ext)

	url, err := o.objects.Put(ctx, thumbPath, key, validators.ImageContentType(ext), nil)
	if err != nil {
		zap.L().Warn("Thumbnail upload failed, continuing without it", zap.Error(err))
		return "", ""
	}

	return key, url
}

// uploadQR composes and stores the watch-link QR image, best effort
func (o *Orchestrator) uploadQR(ctx context.Context, entityID, watchLink, title, thumbPath, base, safeTitle string) (key, url string) {
	var thumb []byte
	if thumbPath != "" {
		if b, err := os.ReadFile(thumbPath); err == nil {
			thumb = b
		}
	}

	caption := title
	if !qr.ASCIICaption(caption) {
		caption = qr.PlaceholderCaption(entityID)
	}

	png, err := o.composer.Compose(watchLink, caption, thumb)
	if err != nil {
		zap.L().Warn("QR composition failed, continuing without it", zap.Error(err))
		return "", ""
	}

	tmp, err := os.CreateTemp("", "qr-*.png")
	if err != nil {
		zap.L().Warn("QR temp file failed, continuing without it", zap.Error(err))
		return "", ""
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(png); err != nil {
		tmp.Close()
		zap.L().Warn("QR temp write failed, continuing without it", zap.Error(err))
		return "", ""
	}
	tmp.Close()

	key = keys.ObjectKey(base, safeTitle, keys.RoleQRCombined, "", ".png")

	url, err = o.objects.Put(ctx, tmp.Name(), key, "image/png", nil)
	if err != nil {
		zap.L().Warn("QR upload failed, continuing without it", zap.Error(err))
		return "", ""
	}

	return key, url
}

// uploadProgress maps transferred bytes onto the [from, to] percent window
func uploadProgress(report Reporter, total int64, from, to int) func(int64) {
	if total <= 0 {
		return nil
	}

	return func(transferred int64) {
		pct := from + int(int64(to-from)*transferred/total)
		if pct > to {
			pct = to
		}

		report(pct, "uploading video")
	}
}

// IsNotFound reports whether err means the entity doesn't exist
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
