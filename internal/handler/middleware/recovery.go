package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CustomRecovery converts panics into the same error envelope the handlers
// use, instead of gin's default plain-text 500.
func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("recovered from panic", "error", err, "path", c.Request.URL.Path)

				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}
