package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ecoleta/internal/models/db_models"
	"ecoleta/internal/selection"
	"ecoleta/pkg/utils"
)

const foreignKeyViolation = "23503"

type PointRepository interface {
	InsertWithItems(ctx context.Context, point *db_models.Point, itemIDs []int64) (int64, error)
	FindByLocationAndItems(ctx context.Context, uf, city string, itemIDs []int64) ([]db_models.Point, error)
	GetByIDWithItems(ctx context.Context, id int64) (*db_models.Point, error)
}

type pointRepository struct {
	db *gorm.DB
}

func NewPointRepository(db *gorm.DB) PointRepository {
	return &pointRepository{db: db}
}

// InsertWithItems stores the point and one point_items row per distinct item
// id in a single transaction. Unknown item ids abort the whole insert with an
// *utils.ItemReferenceError.
func (r *pointRepository) InsertWithItems(ctx context.Context, point *db_models.Point, itemIDs []int64) (int64, error) {
	ids := selection.New(itemIDs...).IDs()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// FOR SHARE keeps the referenced items in place until commit
		missing, err := missingItemIDs(tx.Clauses(clause.Locking{Strength: "SHARE"}), ids)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return &utils.ItemReferenceError{Missing: missing}
		}

		point.Items = nil
		if err := tx.Omit(clause.Associations).Create(point).Error; err != nil {
			return fmt.Errorf("insert point: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}

		links := make([]db_models.PointItem, 0, len(ids))
		for _, id := range ids {
			links = append(links, db_models.PointItem{PointID: point.ID, ItemID: id})
		}
		if err := tx.Omit(clause.Associations).Create(&links).Error; err != nil {
			if isForeignKeyViolation(err) {
				return &utils.ItemReferenceError{}
			}
			return fmt.Errorf("insert point items: %w", err)
		}
		return nil
	})
	if err != nil {
		point.ID = 0
		return 0, err
	}
	return point.ID, nil
}

// FindByLocationAndItems matches uf and city exactly. With item ids, a point
// qualifies when any of its items is among them; the EXISTS semi-join returns
// each point once no matter how many of its items match.
func (r *pointRepository) FindByLocationAndItems(ctx context.Context, uf, city string, itemIDs []int64) ([]db_models.Point, error) {
	var points []db_models.Point

	q := r.db.WithContext(ctx).
		Model(&db_models.Point{}).
		Where("points.uf = ? AND points.city = ?", uf, city)

	if len(itemIDs) > 0 {
		q = q.Where(
			"EXISTS (SELECT 1 FROM point_items WHERE point_items.point_id = points.id AND point_items.item_id = ANY(?))",
			pq.Array(itemIDs),
		)
	}

	if err := q.Order("points.id").Find(&points).Error; err != nil {
		return nil, fmt.Errorf("find points: %w", err)
	}
	return points, nil
}

func (r *pointRepository) GetByIDWithItems(ctx context.Context, id int64) (*db_models.Point, error) {
	var point db_models.Point
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("item_id") }).
		Preload("Items.Item").
		First(&point, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // default model
		}
		return nil, err
	}
	return &point, nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}
