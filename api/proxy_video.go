package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vlingo/video-api/pkg/storage"
)

// streamChunk is the copy buffer size used when piping video bytes
const streamChunk = 1 << 20

// VideoServe streams a stored video with HTTP range support, so browser
// players can seek without downloading the whole file. Videos bypass the
// in-memory cache: they are far too large for it.
func (a *API) VideoServe(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No object key provided",
			"requestID": requestID,
		})
		return
	}

	info, err := a.Objects.Head(c.Request.Context(), key)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Video not found",
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

			zap.L().Error("Failed to head video", zap.String("key", key), zap.Error(err))
		}
		return
	}

	if info.ETag != "" && c.GetHeader("If-None-Match") == info.ETag {
		c.Status(http.StatusNotModified)
		return
	}

	contentType := info.ContentType
	if contentType == "" {
		contentType = "video/mp4"
	}

	c.Header("Accept-Ranges", "bytes")
	c.Header("Cache-Control", "public, max-age=3600")
	if info.ETag != "" {
		c.Header("ETag", info.ETag)
	}

	rangeHeader := c.GetHeader("Range")

	// A zero-length object has no bytes to range over; serve the empty body
	// directly rather than asking storage for an impossible span
	if info.Length == 0 && rangeHeader == "" {
		c.Header("Content-Length", "0")
		c.Header("Content-Type", contentType)
		c.Status(http.StatusOK)
		return
	}

	start, end := int64(0), info.Length-1
	status := http.StatusOK

	if rangeHeader != "" {
		var ok bool

		start, end, ok = parseRange(rangeHeader, info.Length)
		if !ok {
			c.Header("Content-Range", fmt.Sprintf("bytes */%d", info.Length))
			c.AbortWithStatusJSON(http.StatusRequestedRangeNotSatisfiable, gin.H{
				"error":     "Requested range not satisfiable",
				"requestID": requestID,
			})
			return
		}

		status = http.StatusPartialContent
		c.Header("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, info.Length))
	}

	body, err := a.Objects.GetRange(c.Request.Context(), key, start, end)
	if err != nil {
		if errors.Is(err, storage.ErrRangeNotSatisfiable) {
			c.Header("Content-Range", fmt.Sprintf("bytes */%d", info.Length))
			c.AbortWithStatusJSON(http.StatusRequestedRangeNotSatisfiable, gin.H{
				"error":     "Requested range not satisfiable",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to open video stream", zap.String("key", key), zap.Error(err))
		return
	}
	defer body.Close()

	c.Header("Content-Length", strconv.FormatInt(end-start+1, 10))
	c.Header("Content-Type", contentType)
	c.Status(status)

	buf := make([]byte, streamChunk)
	if _, err := io.CopyBuffer(c.Writer, body, buf); err != nil {
		// Viewers abort playback constantly; not worth more than a debug line
		zap.L().Debug("Video stream interrupted", zap.String("key", key), zap.Error(err))
	}
}

// parseRange handles single-span byte ranges: "bytes=a-b", "bytes=a-" and
// the suffix form "bytes=-n". Multi-span ranges are rejected.
func parseRange(header string, length int64) (start, end int64, ok bool) {
	spec, found := strings.CutPrefix(header, "bytes=")
	if !found || strings.Contains(spec, ",") {
		return 0, 0, false
	}

	startStr, endStr, found := strings.Cut(spec, "-")
	if !found {
		return 0, 0, false
	}

	// Suffix form: last n bytes
	if startStr == "" {
		n, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil || n <= 0 {
			return 0, 0, false
		}

		if n > length {
			n = length
		}

		return length - n, length - 1, true
	}

	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil || start < 0 || start >= length {
		return 0, 0, false
	}

	if endStr == "" {
		return start, length - 1, true
	}

	end, err = strconv.ParseInt(endStr, 10, 64)
	if err != nil || end < start {
		return 0, 0, false
	}

	if end >= length {
		end = length - 1
	}

	return start, end, true
}
