package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type translateRequest struct {
	Title string `json:"title"`
}

// Translate returns the sanitized title for every supported language. The
// upload form calls this before submitting so users can review the names
// their files will get.
func (a *API) Translate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No title provided",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"translations": a.Orchestrator.TranslateTitle(c.Request.Context(), req.Title),
	})
}
