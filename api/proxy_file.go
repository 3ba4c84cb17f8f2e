package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vlingo/video-api/pkg/storage"
)

// proxyAsset serves small storage objects (QR images, thumbnails, generic
// files) through the in-memory cache. A miss fetches the whole object from
// storage and caches it if it fits under the category's ceiling; oversized
// objects are served straight through.
func (a *API) proxyAsset(category string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		key := strings.TrimPrefix(c.Param("key"), "/")
		if key == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "No object key provided",
				"requestID": requestID,
			})
			return
		}

		if entry, ok := a.Cache.Get(category, key); ok {
			serveAsset(c, entry.Bytes, entry.ContentType, entry.ETag)
			return
		}

		obj, err := a.Objects.Get(c.Request.Context(), key)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrNotFound):
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
					"error":     "Object not found",
					"requestID": requestID,
				})
			case errors.Is(err, storage.ErrStoreUnavailable):
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
					"error":     "Storage temporarily unavailable",
					"requestID": requestID,
				})
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":     "Internal server error",
					"requestID": requestID,
				})

				zap.L().Error("Failed to fetch object", zap.String("key", key), zap.Error(err))
			}
			return
		}

		a.Cache.Put(category, key, obj.Bytes, obj.ContentType, obj.ETag)
		serveAsset(c, obj.Bytes, obj.ContentType, obj.ETag)
	}
}

func serveAsset(c *gin.Context, data []byte, contentType, etag string) {
	if etag != "" {
		if c.GetHeader("If-None-Match") == etag {
			c.Status(http.StatusNotModified)
			return
		}

		c.Header("ETag", etag)
	}

	c.Header("Cache-Control", "public, max-age=3600")

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Data(http.StatusOK, contentType, data)
}
