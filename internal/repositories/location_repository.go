package repositories

import (
	"context"

	"gorm.io/gorm"

	"ecoleta/internal/models/db_models"
)

// LocationCount is one (uf, city) pair that has at least one point.
type LocationCount struct {
	UF     string `gorm:"column:uf"`
	City   string `gorm:"column:city"`
	Points int64  `gorm:"column:points"`
}

type LocationRepository interface {
	// ListLocations groups points by uf and city, ordered bytewise by both.
	// An empty uf lists every state.
	ListLocations(ctx context.Context, uf string) ([]LocationCount, error)
}

type locationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db: db}
}

func (l *locationRepository) ListLocations(ctx context.Context, uf string) ([]LocationCount, error) {
	q := l.db.WithContext(ctx).
		Model(&db_models.Point{}).
		Select("uf, city, COUNT(*) AS points")
	if uf != "" {
		q = q.Where("uf = ?", uf)
	}

	rows := make([]LocationCount, 0)
	if err := q.Group("uf, city").Order(`uf COLLATE "C", city COLLATE "C"`).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
