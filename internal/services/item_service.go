package services

import (
	"context"
	"log"
	"time"

	"ecoleta/internal/models/db_models"
	"ecoleta/internal/models/response_models"
	"ecoleta/internal/repositories"
	"ecoleta/internal/storage"
	mem "ecoleta/pkg/memcache"
	"ecoleta/pkg/metrics"
	"ecoleta/pkg/utils"
)

type ItemServiceInterface interface {
	GetAllItems(ctx context.Context) ([]response_models.ItemResponse, error)
	SeedItems(items []db_models.Item, ctx context.Context) error
}

type ItemService struct {
	itemRepo repositories.ItemRepositoryInterface
	cache    mem.ItemCatalogStore
	resolver storage.URLResolver
	cacheTTL time.Duration
}

func NewItemService(
	itemRepo repositories.ItemRepositoryInterface,
	cache mem.ItemCatalogStore,
	resolver storage.URLResolver,
	cacheTTL time.Duration) ItemServiceInterface {

	return &ItemService{
		itemRepo: itemRepo,
		cache:    cache,
		resolver: resolver,
		cacheTTL: cacheTTL,
	}
}

// GetAllItems returns the whole catalog ordered by id. The catalog never
// changes at runtime, so it is served from memory once loaded.
func (s *ItemService) GetAllItems(ctx context.Context) ([]response_models.ItemResponse, error) {
	items, ok := s.cache.Get()
	metrics.IncItemCatalogRead(ok)
	if !ok {
		var err error
		items, err = s.itemRepo.ListItems(ctx)
		if err != nil {
			log.Printf("Error listing items: %v", err)
			return nil, utils.ErrDatabaseError
		}
		if s.cacheTTL > 0 {
			s.cache.Set(items, s.cacheTTL)
		}
	}

	itemResponses := make([]response_models.ItemResponse, 0, len(items))
	for _, item := range items {
		itemResponses = append(itemResponses, toItemResponse(item, s.resolver))
	}
	return itemResponses, nil
}

func (s *ItemService) SeedItems(items []db_models.Item, ctx context.Context) error {
	if err := s.itemRepo.UpsertItems(ctx, items); err != nil {
		log.Printf("Error seeding items: %v", err)
		return utils.ErrDatabaseError
	}
	s.cache.Invalidate()
	log.Printf("Seeded item catalog with %d entries", len(items))
	return nil
}

func toItemResponse(item db_models.Item, resolver storage.URLResolver) response_models.ItemResponse {
	return response_models.ItemResponse{
		ID:       item.ID,
		Title:    item.Title,
		ImageURL: resolver.Resolve(item.Image),
	}
}
