package api

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vlingo/video-api/internal/service"
	"vlingo/video-api/internal/store"
	"vlingo/video-api/pkg/util"
)

// UploadLanguage attaches one more language's video to an existing entity
func (a *API) UploadLanguage(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	entityID := c.Param("id")

	if !strings.HasPrefix(c.Request.Header.Get("Content-Type"), "multipart/form-data") {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request",
			"requestID": requestID,
		})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to parse multipart form", zap.Error(err))
		return
	}

	videos := form.File["video"]
	if len(videos) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No video file provided",
			"requestID": requestID,
		})
		return
	}

	videoPath, err := a.saveTemp(videos[0])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to buffer upload to disk", zap.Error(err))
		return
	}
	defer os.Remove(videoPath)

	uploadID := c.PostForm("upload_id")
	if uploadID == "" {
		uploadID = util.RandStr(10)
	}

	lang := c.PostForm("language")

	res, err := a.Orchestrator.AttachLanguageVariant(c.Request.Context(), entityID, lang, videoPath, func(percent int, stage string) {
		a.Progress.Update(uploadID, percent, stage)
	})
	if err != nil {
		a.Progress.Fail(uploadID, publicError(err))

		switch {
		case errors.Is(err, service.ErrValidation):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
		case errors.Is(err, store.ErrNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Entity not found",
				"requestID": requestID,
			})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to attach language variant",
				zap.String("entityID", entityID),
				zap.String("lang", lang),
				zap.Error(err),
			)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"upload_id": uploadID,
		"result":    res,
	})
}
