// Package memory keeps items, points and their item links in process memory.
// It backs STORAGE_DRIVER=memory for local runs and tests, and follows the
// same matching rules as the Postgres repositories.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"ecoleta/internal/models/db_models"
	"ecoleta/internal/repositories"
	"ecoleta/internal/selection"
	"ecoleta/pkg/utils"
)

type linkKey struct {
	pointID int64
	itemID  int64
}

// Store implements repositories.PointRepository,
// repositories.ItemRepositoryInterface and repositories.LocationRepository.
type Store struct {
	mu     sync.RWMutex
	items  map[int64]db_models.Item
	points map[int64]db_models.Point
	links  map[linkKey]struct{}
	nextID int64
}

func NewStore() *Store {
	return &Store{
		items:  make(map[int64]db_models.Item),
		points: make(map[int64]db_models.Point),
		links:  make(map[linkKey]struct{}),
	}
}

func (s *Store) ListItems(ctx context.Context) ([]db_models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]db_models.Item, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) FindMissingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.missingLocked(ids), nil
}

func (s *Store) UpsertItems(ctx context.Context, items []db_models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		if _, ok := s.items[it.ID]; ok {
			continue
		}
		s.items[it.ID] = it
	}
	return nil
}

// InsertWithItems checks and writes under one lock, so a failed insert leaves
// no point and no links behind.
func (s *Store) InsertWithItems(ctx context.Context, point *db_models.Point, itemIDs []int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	ids := selection.New(itemIDs...).IDs()

	s.mu.Lock()
	defer s.mu.Unlock()

	if missing := s.missingLocked(ids); len(missing) > 0 {
		return 0, &utils.ItemReferenceError{Missing: missing}
	}

	s.nextID++
	now := time.Now().Unix()
	stored := *point
	stored.ID = s.nextID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	stored.Items = nil
	s.points[stored.ID] = stored

	for _, id := range ids {
		s.links[linkKey{pointID: stored.ID, itemID: id}] = struct{}{}
	}

	point.ID = stored.ID
	point.CreatedAt = now
	point.UpdatedAt = now
	return stored.ID, nil
}

func (s *Store) FindByLocationAndItems(ctx context.Context, uf, city string, itemIDs []int64) ([]db_models.Point, error) {
	wanted := selection.New(itemIDs...)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]db_models.Point, 0)
	for _, p := range s.points {
		if p.UF != uf || p.City != city {
			continue
		}
		if !wanted.IsEmpty() && !s.acceptsAnyLocked(p.ID, wanted) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetByIDWithItems(ctx context.Context, id int64) (*db_models.Point, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.points[id]
	if !ok {
		return nil, nil
	}
	for _, itemID := range s.itemIDsLocked(id) {
		p.Items = append(p.Items, db_models.PointItem{PointID: id, ItemID: itemID, Item: s.items[itemID]})
	}
	return &p, nil
}

func (s *Store) ListLocations(ctx context.Context, uf string) ([]repositories.LocationCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[[2]string]int64)
	for _, p := range s.points {
		if uf != "" && p.UF != uf {
			continue
		}
		counts[[2]string{p.UF, p.City}]++
	}

	out := make([]repositories.LocationCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, repositories.LocationCount{UF: k[0], City: k[1], Points: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UF != out[j].UF {
			return out[i].UF < out[j].UF
		}
		return out[i].City < out[j].City
	})
	return out, nil
}

// LinkCount reports how many item links point id owns.
func (s *Store) LinkCount(pointID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.itemIDsLocked(pointID))
}

func (s *Store) acceptsAnyLocked(pointID int64, wanted selection.Set) bool {
	for _, id := range wanted.IDs() {
		if _, ok := s.links[linkKey{pointID: pointID, itemID: id}]; ok {
			return true
		}
	}
	return false
}

func (s *Store) itemIDsLocked(pointID int64) []int64 {
	var ids []int64
	for k := range s.links {
		if k.pointID == pointID {
			ids = append(ids, k.itemID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *Store) missingLocked(ids []int64) []int64 {
	var missing []int64
	for _, id := range ids {
		if _, ok := s.items[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
