package db_fx

import (
	"context"
	"log"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"ecoleta/internal/config"
	"ecoleta/internal/infra"
	"ecoleta/internal/repositories"
	"ecoleta/internal/repositories/memory"
)

var Module = fx.Provide(provideRepositories)

type Repositories struct {
	fx.Out

	Points    repositories.PointRepository
	Items     repositories.ItemRepositoryInterface
	Locations repositories.LocationRepository
}

func provideRepositories(lc fx.Lifecycle, cfg config.Config) (Repositories, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		log.Println("Using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return Repositories{Points: store, Items: store, Locations: store}, nil
	}

	db, err := provideDB(lc, cfg)
	if err != nil {
		return Repositories{}, err
	}
	return Repositories{
		Points:    repositories.NewPointRepository(db),
		Items:     repositories.NewItemRepository(db),
		Locations: repositories.NewLocationRepository(db),
	}, nil
}

func provideDB(lc fx.Lifecycle, cfg config.Config) (*gorm.DB, error) {
	db, err := infra.InitPostgresql(cfg)
	if err != nil {
		return nil, err
	}
	if err := infra.Migrate(db); err != nil {
		infra.ClosePostgresql(db)
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			infra.ClosePostgresql(db)
			return nil
		},
	})
	return db, nil
}
