package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ecoleta/internal/api/controllers"
	"ecoleta/internal/config"
	"ecoleta/pkg/middleware"
)

// NewRouter builds the gin engine with every route of the service.
func NewRouter(
	cfg config.Config,
	itemsController *controllers.ItemsController,
	pointsController *controllers.PointsController,
	locationsController *controllers.LocationsController) *gin.Engine {

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware())
	r.MaxMultipartMemory = cfg.MaxUploadMB << 20

	RegisterRoutes(r, cfg, itemsController, pointsController, locationsController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	cfg config.Config,
	itemsController *controllers.ItemsController,
	pointsController *controllers.PointsController,
	locationsController *controllers.LocationsController) {

	registerLimiter := middleware.NewClientRateLimiter(cfg.RegisterRatePerMin, cfg.RegisterRatePerMin)

	r.GET("/items", itemsController.ListItems)
	r.GET("/locations", locationsController.ListLocations)

	pointsGroup := r.Group("/points")
	pointsGroup.GET("", pointsController.FindPoints)
	pointsGroup.GET("/:id", pointsController.GetPointById)
	pointsGroup.POST("", middleware.RateLimitMiddleware(registerLimiter), pointsController.CreatePoint)

	r.Static("/uploads", cfg.UploadsDir)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
