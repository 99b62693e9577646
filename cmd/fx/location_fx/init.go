package location_fx

import (
	"go.uber.org/fx"

	"ecoleta/internal/repositories"
	"ecoleta/internal/services"
)

var Module = fx.Provide(NewLocationService)

func NewLocationService(repo repositories.LocationRepository) services.LocationServiceInterface {
	return services.NewLocationService(repo)
}
