package points_fx

import (
	"go.uber.org/fx"

	"ecoleta/internal/repositories"
	"ecoleta/internal/services"
	"ecoleta/internal/storage"
)

var Module = fx.Provide(providePointService)

func providePointService(
	pointRepo repositories.PointRepository,
	itemRepo repositories.ItemRepositoryInterface,
	images storage.ImageStore,
	resolver storage.URLResolver) services.PointServiceInterface {

	return services.NewPointService(pointRepo, itemRepo, images, resolver)
}
