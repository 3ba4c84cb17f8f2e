package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vlingo/video-api/internal/store"
)

// UploadAnalytics returns the per-language usage report for one entity:
// sizes, category path and a breakdown per stored variant
func (a *API) UploadAnalytics(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	entityID := c.Param("id")

	report, err := a.Meta.Analytics(entityID)
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

		zap.L().Error("Failed to build entity analytics", zap.String("entityID", entityID), zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, report)
}
