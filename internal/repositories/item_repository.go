package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ecoleta/internal/models/db_models"
)

type ItemRepositoryInterface interface {
	ListItems(ctx context.Context) ([]db_models.Item, error)
	FindMissingIDs(ctx context.Context, ids []int64) ([]int64, error)
	UpsertItems(ctx context.Context, items []db_models.Item) error
}

func NewItemRepository(db *gorm.DB) ItemRepositoryInterface {
	return &ItemRepository{db: db}
}

type ItemRepository struct {
	db *gorm.DB
}

func (r *ItemRepository) ListItems(ctx context.Context) ([]db_models.Item, error) {
	var items []db_models.Item
	if err := r.db.WithContext(ctx).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// FindMissingIDs returns the ids from the argument that have no items row,
// in the order they were given.
func (r *ItemRepository) FindMissingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	return missingItemIDs(r.db.WithContext(ctx), ids)
}

// UpsertItems inserts catalog rows, leaving rows with an existing id untouched.
func (r *ItemRepository) UpsertItems(ctx context.Context, items []db_models.Item) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).Create(&items).Error; err != nil {
			return fmt.Errorf("seed items: %w", err)
		}
		return nil
	})
}

func missingItemIDs(db *gorm.DB, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var found []int64
	if err := db.Model(&db_models.Item{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error; err != nil {
		return nil, fmt.Errorf("check item ids: %w", err)
	}

	present := make(map[int64]bool, len(found))
	for _, id := range found {
		present[id] = true
	}
	var missing []int64
	for _, id := range ids {
		if !present[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
