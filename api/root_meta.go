package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vlingo/video-api/internal/model"
	"vlingo/video-api/pkg/translate"
)

// Categories returns the static three-level category taxonomy the upload
// form renders
func (a *API) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"main": model.MainCategories,
		"sub":  model.SubCategories,
		"leaf": model.LeafCategories,
	})
}

// Languages returns the supported language codes with display names
func (a *API) Languages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"source":  translate.SourceLanguage,
		"targets": translate.TargetLanguages,
		"names":   translate.LanguageNames,
	})
}
