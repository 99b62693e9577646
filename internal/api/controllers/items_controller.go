package controllers

import (
	"github.com/gin-gonic/gin"

	"ecoleta/internal/services"
	"ecoleta/pkg/utils"
)

type ItemsController struct {
	itemService services.ItemServiceInterface
}

func NewItemsController(itemService services.ItemServiceInterface) *ItemsController {
	return &ItemsController{
		itemService: itemService,
	}
}

// ListItems godoc
// @Summary List recyclable item categories
// @Description Fetch the whole item catalog ordered by id
// @Tags Items
// @Produce json
// @Success 200 {array} response_models.ItemResponse
// @Failure 500 {object} utils.APIResponse
// @Router /items [get]
func (ic *ItemsController) ListItems(c *gin.Context) {
	items, err := ic.itemService.GetAllItems(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, items, "Fetched items successfully")
}
