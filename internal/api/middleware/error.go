package middleware

import (
	"net/http"

	"pv-estimate/internal/log"

	"github.com/gin-gonic/gin"
)

// ErrorHandler middleware recovers panics into a JSON 500
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Errorw("handler panic",
			"path", c.Request.URL.Path,
			"panic", recovered,
		)

		message := "An unexpected error occurred"
		switch v := recovered.(type) {
		case string:
			message = v
		case error:
			message = v.Error()
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": message,
			},
		})
		c.Abort()
	})
}
