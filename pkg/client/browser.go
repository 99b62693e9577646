package client

import (
	"context"
	"sync"

	"ecoleta/internal/models/response_models"
	"ecoleta/internal/selection"
)

// Browser keeps one user's location and item selection and refreshes the
// visible points whenever either changes.
type Browser struct {
	client *Client

	mu       sync.Mutex
	uf       string
	city     string
	selected selection.Set
	points   []response_models.PointSummary
	// gen increases on every refresh; only the newest query may publish
	gen uint64
}

func NewBrowser(c *Client, uf, city string) *Browser {
	return &Browser{client: c, uf: uf, city: city}
}

func (b *Browser) Selection() selection.Set {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selected
}

// Points returns the result of the last successful refresh.
func (b *Browser) Points() []response_models.PointSummary {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]response_models.PointSummary, len(b.points))
	copy(out, b.points)
	return out
}

// Toggle flips item id in the selection and re-runs discovery. The selection
// changes even when the query fails.
func (b *Browser) Toggle(ctx context.Context, id int64) ([]response_models.PointSummary, error) {
	b.mu.Lock()
	b.selected = b.selected.Toggle(id)
	b.mu.Unlock()
	return b.Refresh(ctx)
}

func (b *Browser) SetLocation(ctx context.Context, uf, city string) ([]response_models.PointSummary, error) {
	b.mu.Lock()
	b.uf, b.city = uf, city
	b.mu.Unlock()
	return b.Refresh(ctx)
}

func (b *Browser) Refresh(ctx context.Context) ([]response_models.PointSummary, error) {
	b.mu.Lock()
	b.gen++
	gen := b.gen
	uf, city, selected := b.uf, b.city, b.selected
	b.mu.Unlock()

	points, err := b.client.FindPoints(ctx, uf, city, selected)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	if gen == b.gen {
		b.points = points
	}
	b.mu.Unlock()
	return points, nil
}
