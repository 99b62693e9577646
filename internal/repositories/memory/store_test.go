package memory

import (
	"context"
	"testing"

	"ecoleta/internal/repositories/repotest"
)

func TestStore_Contract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repotest.Repos {
		s := NewStore()
		if err := s.UpsertItems(context.Background(), repotest.Catalog()); err != nil {
			t.Fatalf("seed: %v", err)
		}
		return repotest.Repos{
			Points:    s,
			Items:     s,
			Locations: s,
			TotalLinks: func(t *testing.T) int {
				s.mu.RLock()
				defer s.mu.RUnlock()
				return len(s.links)
			},
		}
	})
}

func TestStore_InsertHonoursCancelledContext(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.InsertWithItems(ctx, nil, nil); err == nil {
		t.Fatal("expected context error")
	}
}
