// Package api contains all endpoints available
package api

import (
	"fmt"
	"time"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	ginzap "github.com/gin-contrib/zap"
	"github.com/robfig/cron/v3"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"vlingo/video-api/db"
	"vlingo/video-api/internal/service"
	"vlingo/video-api/internal/store"
	"vlingo/video-api/pkg/keys"
	"vlingo/video-api/pkg/middleware"
	"vlingo/video-api/pkg/proxycache"
	"vlingo/video-api/pkg/qr"
	"vlingo/video-api/pkg/storage"
	"vlingo/video-api/pkg/translate"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var memStore = persist.NewMemoryStore(time.Minute)

type API struct {
	DB     *gorm.DB
	Router *gin.Engine

	Objects      storage.ObjectStore
	Meta         *store.MetadataStore
	Orchestrator *service.Orchestrator
	Resolver     *service.WatchResolver
	Progress     *service.ProgressTracker
	Cache        *proxycache.Cache
	Cron         *cron.Cron
}

func NewRouter() (*API, error) {
	a := &API{
		Progress: service.NewProgressTracker(),
		Cache:    proxycache.New(viper.GetInt64("cache.max_bytes"), viper.GetInt("cache.max_entries")),
	}

	gormDB, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	a.DB = gormDB
	a.Meta = store.New(gormDB)

	makeLogger()

	objects, err := storage.NewS3()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 client, %w", err)
	}
	a.Objects = objects

	translator := translate.New(translate.NewGoogleBackend(), keys.SafeTitle)

	a.Orchestrator = service.NewOrchestrator(objects, a.Meta, translator, qr.NewComposer(), viper.GetString("host.public_url"))
	a.Resolver = service.NewWatchResolver(a.Meta)

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Range", "If-None-Match"},
			ExposeHeaders:    []string{"Content-Length", "Content-Range", "Accept-Ranges", "ETag"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	a.Router.MaxMultipartMemory = 5 << 20

	maxUploadSize := viper.GetInt64("upload.max_size")
	rateLimit := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: 20,
		Burst:             40,
	})

	main := router.Group("/api")
	{
		// HEAD /api/heartbeat			-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)

		// GET /api/categories			-> Returns the category taxonomy
		main.GET("/categories", cacheFor(300), a.Categories)

		// GET /api/languages			-> Returns the supported languages
		main.GET("/languages", cacheFor(300), a.Languages)

		// POST /api/translate			-> Translates a title into every supported language
		main.POST("/translate", rateLimit, middleware.BodySizeLimiter(1<<20), a.Translate)
	}

	uploads := main.Group("/uploads")
	{
		// GET /api/uploads			-> Lists the newest entities
		uploads.GET("", cacheFor(30), a.UploadList)

		// POST /api/uploads			-> Creates an entity from an original-language video
		uploads.POST("", rateLimit, middleware.BodySizeLimiter(maxUploadSize+(10<<20)), a.UploadCreate)

		// GET /api/uploads/status/:uploadID	-> Returns the progress of a running upload
		uploads.GET("/status/:uploadID", a.UploadStatus)

		// GET /api/uploads/:id			-> Returns one entity with its variants
		uploads.GET("/:id", a.UploadFetch)

		// GET /api/uploads/:id/analytics	-> Returns the per-language usage report
		uploads.GET("/:id/analytics", a.UploadAnalytics)

		// POST /api/uploads/:id/languages	-> Attaches another language's video
		uploads.POST("/:id/languages", rateLimit, middleware.BodySizeLimiter(maxUploadSize+(10<<20)), a.UploadLanguage)

		// DELETE /api/uploads/:id		-> Deletes an entity and its storage objects
		uploads.DELETE("/:id", a.UploadDelete)
	}

	// GET /watch/:id			-> Resolves the variant to play for a language
	router.GET("/watch/:id", a.Watch)

	// Storage proxies. Small assets are served through the in-memory cache,
	// videos stream straight from storage with range support.
	router.GET("/qr/*key", a.proxyAsset(proxycache.CategoryQR))
	router.GET("/thumbnail/*key", a.proxyAsset(proxycache.CategoryThumbnail))
	router.GET("/file/*key", a.proxyAsset(proxycache.CategoryFile))
	router.GET("/video/*key", a.VideoServe)

	a.Cron = cron.New()
	a.Cron.AddFunc("@every 5m", a.Cache.Sweep)
	a.Cron.AddFunc("@every 15m", a.Progress.Cleanup)
	a.Cron.Start()

	return a, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	if lvl, err := zapcore.ParseLevel(viper.GetString("app.log_level")); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(memStore, time.Second*time.Duration(sec))
}
