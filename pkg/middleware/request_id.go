// Package middleware contains any custom middleware used in the app
package middleware

import (
	"vlingo/video-api/pkg/util"

	"github.com/gin-gonic/gin"
)

// NewRequestIDMiddleware tags every request with a short random ID. The ID
// is echoed in error responses so users can report failures that are
// findable in the logs.
func NewRequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("requestID", util.RandStr(10))
		c.Next()
	}
}
