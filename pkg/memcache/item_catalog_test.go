package mem

import (
	"testing"
	"time"

	"ecoleta/internal/models/db_models"
)

func TestItemCatalog_ExpiresAfterTTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewItemCatalog()
	c.now = func() time.Time { return now }

	if _, ok := c.Get(); ok {
		t.Fatal("empty cache must miss")
	}

	item := db_models.Item{Title: "Pilhas e Baterias", Image: "baterias.svg"}
	item.ID = 2
	c.Set([]db_models.Item{item}, time.Minute)

	got, ok := c.Get()
	if !ok || len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("expected cached item, got %v %v", got, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get(); ok {
		t.Fatal("expired entry must miss")
	}
}

func TestItemCatalog_ReturnsCopies(t *testing.T) {
	c := NewItemCatalog()
	item := db_models.Item{Title: "Lâmpadas"}
	item.ID = 1
	c.Set([]db_models.Item{item}, time.Hour)

	got, _ := c.Get()
	got[0].Title = "changed"

	again, _ := c.Get()
	if again[0].Title != "Lâmpadas" {
		t.Fatalf("cache was mutated through a returned slice: %q", again[0].Title)
	}

	c.Invalidate()
	if _, ok := c.Get(); ok {
		t.Fatal("invalidated cache must miss")
	}
}
