package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vlingo/video-api/internal/store"
	"vlingo/video-api/pkg/translate"
)

// Watch resolves the video variant to play for an entity and a viewer's
// language. This is the endpoint behind the printed QR codes, so entity IDs
// must keep resolving for as long as the entity exists.
func (a *API) Watch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	entityID := c.Param("id")

	lang := c.DefaultQuery("lang", translate.SourceLanguage)

	res, err := a.Resolver.Resolve(entityID, lang)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Video not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to resolve watch request",
			zap.String("entityID", entityID),
			zap.String("lang", lang),
			zap.Error(err),
		)
		return
	}

	c.JSON(http.StatusOK, res)
}
