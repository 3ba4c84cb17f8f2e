package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vlingo/video-api/internal/model"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// UploadList returns the newest entities, optionally filtered by a search
// query over the denormalized search records. Responses are cached per URI
// for a short window, so both parameters are part of the cache key.
func (a *API) UploadList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	if err != nil || limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	var entities []model.Entity
	if q := c.Query("q"); q != "" {
		entities, err = a.Meta.SearchEntities(q, limit)
	} else {
		entities, err = a.Meta.ListEntities(limit)
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list entities", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":    len(entities),
		"entities": entities,
	})
}
