package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UploadStatus returns the progress snapshot of a running or recent upload
func (a *API) UploadStatus(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	status, ok := a.Progress.Get(c.Param("uploadID"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "Unknown upload ID",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, status)
}
