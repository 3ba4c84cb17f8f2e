package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vlingo/video-api/internal/store"
)

// UploadFetch returns one entity with its language variants
func (a *API) UploadFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	entityID := c.Param("id")

	entity, err := a.Meta.GetEntity(entityID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Entity not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch entity", zap.String("entityID", entityID), zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, entity)
}
