package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"vlingo/video-api/internal/model"
	"vlingo/video-api/internal/service"
	"vlingo/video-api/internal/store"
	"vlingo/video-api/pkg/keys"
	"vlingo/video-api/pkg/middleware"
	"vlingo/video-api/pkg/proxycache"
	"vlingo/video-api/pkg/qr"
	"vlingo/video-api/pkg/translate"
)

func newTestAPI(t *testing.T) (*API, *fakeObjects) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(&model.Entity{}, &model.LanguageVariant{}, &model.TranslationRecord{}, &model.SearchRecord{}))

	objects := newFakeObjects()
	meta := store.New(gormDB)
	translator := translate.New(nil, keys.SafeTitle)

	a := &API{
		DB:           gormDB,
		Objects:      objects,
		Meta:         meta,
		Orchestrator: service.NewOrchestrator(objects, meta, translator, qr.NewComposer(), "https://vlingo.test"),
		Resolver:     service.NewWatchResolver(meta),
		Progress:     service.NewProgressTracker(),
		Cache:        proxycache.New(1<<20, 128),
	}

	r := gin.New()
	r.Use(middleware.NewRequestIDMiddleware())

	r.GET("/watch/:id", a.Watch)
	r.POST("/api/translate", a.Translate)
	r.GET("/api/uploads", a.UploadList)
	r.GET("/api/uploads/status/:uploadID", a.UploadStatus)
	r.GET("/api/uploads/:id", a.UploadFetch)
	r.GET("/api/uploads/:id/analytics", a.UploadAnalytics)
	r.DELETE("/api/uploads/:id", a.UploadDelete)
	a.Router = r

	return a, objects
}

func seedWatchableEntity(t *testing.T, a *API, id string) {
	t.Helper()

	now := time.Now().Unix()

	err := a.Meta.CreateEntity(
		&model.Entity{ID: id, Title: "안전모 착용 교육", BaseFolder: "videos/2026/08/" + id + "_t", CreatedAt: now},
		&model.LanguageVariant{
			LanguageCode: "ko",
			VideoKey:     "videos/2026/08/" + id + "_t/t_video_ko.mp4",
			VideoURL:     "https://cdn.test/videos/2026/08/" + id + "_t/t_video_ko.mp4",
			IsOriginal:   true,
			UploadedAt:   now,
		},
		nil,
		&model.SearchRecord{
			SearchableTitle: "안전모 착용 교육",
			CategoryPath:    "기계/건설기계/크레인",
			Tags:            "안전",
		},
	)
	require.NoError(t, err)
}

func do(a *API, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	return w
}

func TestWatchFallback(t *testing.T) {
	a, _ := newTestAPI(t)
	seedWatchableEntity(t, a, "entity0000000001")

	w := do(a, http.MethodGet, "/watch/entity0000000001?lang=ja", "")
	require.Equal(t, http.StatusOK, w.Code)

	var res model.WatchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))

	assert.Equal(t, "ja", res.RequestedLanguage)
	assert.Equal(t, "ko", res.ActualLanguage)
	assert.False(t, res.HasRequestedLanguage)
	assert.Contains(t, res.VideoURL, "_video_ko.mp4")
}

func TestWatchUnknownEntity(t *testing.T) {
	a, _ := newTestAPI(t)

	w := do(a, http.MethodGet, "/watch/nosuchentity0000", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTranslateEndpoint(t *testing.T) {
	a, _ := newTestAPI(t)

	w := do(a, http.MethodPost, "/api/translate", `{"title":"기초 용접 교육"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Translations map[string]string `json:"translations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))

	assert.Len(t, res.Translations, 6)
	assert.Equal(t, "Basic_Welding_Training", res.Translations["en"])
}

func TestTranslateRejectsEmptyTitle(t *testing.T) {
	a, _ := newTestAPI(t)

	w := do(a, http.MethodPost, "/api/translate", `{"title":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadStatusLifecycle(t *testing.T) {
	a, _ := newTestAPI(t)

	w := do(a, http.MethodGet, "/api/uploads/status/u123", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	a.Progress.Update("u123", 42, "uploading video")

	w = do(a, http.MethodGet, "/api/uploads/status/u123", "")
	require.Equal(t, http.StatusOK, w.Code)

	var status service.UploadStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))

	assert.Equal(t, 42, status.Percent)
	assert.Equal(t, "uploading video", status.Stage)
}

func TestUploadFetchAndList(t *testing.T) {
	a, _ := newTestAPI(t)
	seedWatchableEntity(t, a, "entity0000000001")

	w := do(a, http.MethodGet, "/api/uploads/entity0000000001", "")
	require.Equal(t, http.StatusOK, w.Code)

	var entity model.Entity
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entity))
	assert.Equal(t, "안전모 착용 교육", entity.Title)
	assert.Len(t, entity.Variants, 1)

	w = do(a, http.MethodGet, "/api/uploads?limit=10", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)
}

func TestUploadListSearch(t *testing.T) {
	a, _ := newTestAPI(t)
	seedWatchableEntity(t, a, "entity0000000001")

	w := do(a, http.MethodGet, "/api/uploads?q=%EC%95%88%EC%A0%84%EB%AA%A8", "") // q=안전모
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Count    int            `json:"count"`
		Entities []model.Entity `json:"entities"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "entity0000000001", list.Entities[0].ID)

	w = do(a, http.MethodGet, "/api/uploads?q=%EC%9A%A9%EC%A0%91", "") // q=용접
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 0, list.Count)
}

func TestUploadAnalytics(t *testing.T) {
	a, _ := newTestAPI(t)
	seedWatchableEntity(t, a, "entity0000000001")

	w := do(a, http.MethodGet, "/api/uploads/entity0000000001/analytics", "")
	require.Equal(t, http.StatusOK, w.Code)

	var report model.AnalyticsResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "entity0000000001", report.EntityID)
	assert.Equal(t, "안전모 착용 교육", report.Title)
	require.Contains(t, report.LanguageBreakdown, "ko")
	assert.True(t, report.LanguageBreakdown["ko"].IsOriginal)

	w = do(a, http.MethodGet, "/api/uploads/absent/analytics", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadDelete(t *testing.T) {
	a, objects := newTestAPI(t)
	seedWatchableEntity(t, a, "entity0000000001")
	objects.objects["videos/2026/08/entity0000000001_t/t_video_ko.mp4"] = []byte("video")

	w := do(a, http.MethodDelete, "/api/uploads/entity0000000001", "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Empty(t, objects.objects, "storage objects removed with the entity")

	w = do(a, http.MethodGet, "/api/uploads/entity0000000001", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(a, http.MethodDelete, "/api/uploads/entity0000000001", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
