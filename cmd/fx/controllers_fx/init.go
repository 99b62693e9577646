package controllers_fx

import (
	"go.uber.org/fx"

	"ecoleta/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewItemsController),
	fx.Provide(controllers.NewPointsController),
	fx.Provide(controllers.NewLocationsController))
