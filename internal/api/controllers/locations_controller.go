package controllers

import (
	"github.com/gin-gonic/gin"

	"ecoleta/internal/services"
	"ecoleta/pkg/utils"
)

type LocationsController struct {
	locationService services.LocationServiceInterface
}

func NewLocationsController(locationService services.LocationServiceInterface) *LocationsController {
	return &LocationsController{
		locationService: locationService,
	}
}

// ListLocations godoc
// @Summary List cities with collection points
// @Description Cities that have at least one registered point, with the number of points in each
// @Tags Locations
// @Produce json
// @Param uf query string false "Restrict to one state"
// @Success 200 {array} response_models.LocationResponse
// @Failure 422 {object} utils.APIResponse
// @Router /locations [get]
func (l *LocationsController) ListLocations(c *gin.Context) {
	locations, err := l.locationService.ListLocations(c.Query("uf"), c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, locations, "Locations fetched successfully")
}
