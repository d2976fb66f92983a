package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// CORS middleware allows browser clients on other origins to call the API.
// CORS_ALLOWED_ORIGINS (comma-separated) restricts the origins; unset allows
// all, which suits local development.
func CORS() gin.HandlerFunc {
	opts := cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if raw := os.Getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		opts.AllowedOrigins = nil
		for _, origin := range strings.Split(raw, ",") {
			opts.AllowedOrigins = append(opts.AllowedOrigins, strings.TrimSpace(origin))
		}
	}

	handler := cors.New(opts)
	return func(c *gin.Context) {
		handler.HandlerFunc(c.Writer, c.Request)
		// Preflight requests end here; cors has already written the headers.
		if c.Request.Method == http.MethodOptions &&
			c.GetHeader("Access-Control-Request-Method") != "" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
