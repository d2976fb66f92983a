package main

import (
	"net/http"
	"os"

	"pv-estimate/internal/api/handlers"
	"pv-estimate/internal/api/middleware"
	"pv-estimate/internal/log"

	"github.com/gin-gonic/gin"
)

func main() {
	production := os.Getenv("API_ENV") == "production"
	if err := log.Init(!production); err != nil {
		panic(err)
	}
	defer log.Sync()

	if production {
		gin.SetMode(gin.ReleaseMode)
	}

	// NSRDB credentials arrive with each request; the base URL override
	// exists for pointing a deployment at a mirror.
	router := newRouter(os.Getenv("NSRDB_BASE_URL"))

	addr := ":" + os.Getenv("API_PORT")
	if addr == ":" {
		addr = ":8080"
	}
	log.Infof("starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func newRouter(nsrdbBaseURL string) *gin.Engine {
	router := gin.New()
	router.Use(middleware.CORS(), middleware.Logger(), middleware.ErrorHandler())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	estimates := handlers.NewEstimateHandler(nsrdbBaseURL)
	profiles := handlers.NewProfileHandler()

	api := router.Group("/api/v1")
	{
		api.POST("/estimate", estimates.RunEstimate)
		api.POST("/estimate/multiyear", estimates.RunMultiyear)
		api.POST("/estimate/compare", estimates.CompareRackings)

		api.GET("/profiles", profiles.ListProfiles)
		api.GET("/sites", handlers.ListSites)
	}

	return router
}
