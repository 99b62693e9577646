package storage_fx

import (
	"log"

	"go.uber.org/fx"

	"ecoleta/internal/config"
	"ecoleta/internal/infra"
	"ecoleta/internal/storage"
)

var Module = fx.Provide(provideImageStore, provideURLResolver)

func provideImageStore(cfg config.Config) (storage.ImageStore, error) {
	store, err := storage.NewDiskImageStore(cfg.UploadsDir)
	if err != nil {
		return nil, err
	}

	n, err := infra.InstallItemIcons(store.Dir())
	if err != nil {
		return nil, err
	}
	if n > 0 {
		log.Printf("Installed %d item icons into %s", n, store.Dir())
	}
	return store, nil
}

func provideURLResolver(cfg config.Config) storage.URLResolver {
	return storage.NewURLResolver(cfg.PublicBaseURL)
}
