package memcache_fx

import (
	"go.uber.org/fx"

	mem "ecoleta/pkg/memcache"
)

var Module = fx.Provide(provideItemCatalogCache)

func provideItemCatalogCache() mem.ItemCatalogStore {
	return mem.NewItemCatalog()
}
