package api

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vlingo/video-api/internal/service"
	"vlingo/video-api/pkg/util"
)

// UploadCreate creates a new entity from a multipart form carrying the
// original-language video, an optional thumbnail and the descriptive fields
func (a *API) UploadCreate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

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

	var thumbPath string
	if thumbs := form.File["thumbnail"]; len(thumbs) > 0 {
		thumbPath, err = a.saveTemp(thumbs[0])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to buffer thumbnail to disk", zap.Error(err))
			return
		}
		defer os.Remove(thumbPath)
	}

	uploadID := c.PostForm("upload_id")
	if uploadID == "" {
		uploadID = util.RandStr(10)
	}

	req := service.CreateRequest{
		Title:         c.PostForm("title"),
		Description:   c.PostForm("description"),
		MainCategory:  c.PostForm("main_category"),
		SubCategory:   c.PostForm("sub_category"),
		LeafCategory:  c.PostForm("leaf_category"),
		VideoPath:     videoPath,
		ThumbnailPath: thumbPath,
	}

	res, err := a.Orchestrator.CreateEntity(c.Request.Context(), req, func(percent int, stage string) {
		a.Progress.Update(uploadID, percent, stage)
	})
	if err != nil {
		a.Progress.Fail(uploadID, publicError(err))

		if errors.Is(err, service.ErrValidation) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create entity", zap.Error(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"upload_id": uploadID,
		"result":    res,
	})
}

// saveTemp buffers an uploaded file to a temp path, keeping its extension
// so later content-type mapping works
func (a *API) saveTemp(fh *multipart.FileHeader) (string, error) {
	ext := path.Ext(fh.Filename)

	tmp, err := os.CreateTemp("", "upload-*"+ext)
	if err != nil {
		return "", err
	}
	tmp.Close()

	if err := saveUploadedFile(fh, tmp.Name()); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	return tmp.Name(), nil
}

func saveUploadedFile(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}

func publicError(err error) string {
	if errors.Is(err, service.ErrValidation) {
		return err.Error()
	}

	return "Internal server error"
}
