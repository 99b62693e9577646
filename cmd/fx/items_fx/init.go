package items_fx

import (
	"context"

	"go.uber.org/fx"

	"ecoleta/internal/config"
	"ecoleta/internal/infra"
	"ecoleta/internal/repositories"
	"ecoleta/internal/services"
	"ecoleta/internal/storage"
	mem "ecoleta/pkg/memcache"
)

var Module = fx.Options(
	fx.Provide(provideItemService),
	fx.Invoke(seedItemCatalog),
)

func provideItemService(
	itemRepo repositories.ItemRepositoryInterface,
	cache mem.ItemCatalogStore,
	resolver storage.URLResolver,
	cfg config.Config) services.ItemServiceInterface {

	return services.NewItemService(itemRepo, cache, resolver, cfg.ItemsCacheTTL)
}

// seedItemCatalog inserts catalog entries that are not stored yet. Existing
// rows are never overwritten.
func seedItemCatalog(lc fx.Lifecycle, itemService services.ItemServiceInterface, cfg config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			items, err := infra.LoadItemCatalog(cfg.ItemsSeedFile)
			if err != nil {
				return err
			}
			return itemService.SeedItems(items, ctx)
		},
	})
}
