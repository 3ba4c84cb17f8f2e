package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vlingo/video-api/internal/store"
)

// UploadDelete removes an entity, its variants and its storage objects
func (a *API) UploadDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	entityID := c.Param("id")

	if err := a.Orchestrator.Delete(c.Request.Context(), entityID); err != nil {
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

		zap.L().Error("Failed to delete entity", zap.String("entityID", entityID), zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deleted": entityID,
	})
}
