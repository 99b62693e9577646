// pkg/memcache/item_catalog.go
package mem

import (
	"sync"
	"time"

	"ecoleta/internal/models/db_models"
)

type ItemCatalogStore interface {
	Set(items []db_models.Item, ttl time.Duration)

	// Get returns the cached catalog while it has not expired.
	Get() ([]db_models.Item, bool)

	Invalidate()
}

type entry struct {
	items     []db_models.Item
	expiresAt time.Time
}

type ItemCatalog struct {
	mu    sync.RWMutex
	entry *entry
	now   func() time.Time
}

func NewItemCatalog() *ItemCatalog {
	return &ItemCatalog{now: time.Now}
}

func (s *ItemCatalog) Set(items []db_models.Item, ttl time.Duration) {
	cp := make([]db_models.Item, len(items))
	copy(cp, items)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry = &entry{
		items:     cp,
		expiresAt: s.now().Add(ttl),
	}
}

func (s *ItemCatalog) Get() ([]db_models.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.entry == nil || s.now().After(s.entry.expiresAt) {
		return nil, false
	}
	cp := make([]db_models.Item, len(s.entry.items))
	copy(cp, s.entry.items)
	return cp, true
}

func (s *ItemCatalog) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry = nil
}
