// Package repotest holds the behaviour every point/item repository pair must
// show, so the Postgres and in-memory implementations are checked by the same
// cases.
package repotest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"ecoleta/internal/models/db_models"
	"ecoleta/internal/repositories"
	"ecoleta/pkg/utils"
)

type Repos struct {
	Points    repositories.PointRepository
	Items     repositories.ItemRepositoryInterface
	Locations repositories.LocationRepository
	// TotalLinks returns the number of stored point/item links.
	TotalLinks func(t *testing.T) int
}

// Catalog is seeded into every fresh repository pair.
func Catalog() []db_models.Item {
	titles := map[int64]string{
		1: "Lâmpadas",
		2: "Pilhas",
		3: "Papéis",
		5: "Resíduos Orgânicos",
		7: "Óleo de Cozinha",
	}
	items := make([]db_models.Item, 0, len(titles))
	for _, id := range []int64{1, 2, 3, 5, 7} {
		it := db_models.Item{Title: titles[id], Image: fmt.Sprintf("item-%d.svg", id)}
		it.ID = id
		items = append(items, it)
	}
	return items
}

// Run executes the contract. newRepos must return empty repositories with
// Catalog already seeded.
func Run(t *testing.T, newRepos func(t *testing.T) Repos) {
	t.Run("OuroPretoScenario", func(t *testing.T) { testScenario(t, newRepos(t)) })
	t.Run("EmptyItemSetIsNoFilter", func(t *testing.T) { testEmptyIsNoFilter(t, newRepos(t)) })
	t.Run("AnyItemMatches", func(t *testing.T) { testOrSemantics(t, newRepos(t)) })
	t.Run("NoDuplicatePoints", func(t *testing.T) { testNoDuplicates(t, newRepos(t)) })
	t.Run("ExactLocationMatch", func(t *testing.T) { testExactLocation(t, newRepos(t)) })
	t.Run("UnknownItemRejectsWholeInsert", func(t *testing.T) { testUnknownItem(t, newRepos(t)) })
	t.Run("DetailWithItems", func(t *testing.T) { testDetail(t, newRepos(t)) })
	t.Run("ListItemsOrdered", func(t *testing.T) { testListItems(t, newRepos(t)) })
	t.Run("ConcurrentInserts", func(t *testing.T) { testConcurrentInserts(t, newRepos(t)) })
	t.Run("LocationsGrouped", func(t *testing.T) { testLocations(t, newRepos(t)) })
}

func newPoint(name, uf, city string) *db_models.Point {
	return &db_models.Point{
		Name:      name,
		Email:     "contato@example.org",
		Whatsapp:  "31999999999",
		Image:     name + ".png",
		Latitude:  -20.3856,
		Longitude: -43.5035,
		City:      city,
		UF:        uf,
	}
}

func mustInsert(t *testing.T, r Repos, p *db_models.Point, items ...int64) int64 {
	t.Helper()
	id, err := r.Points.InsertWithItems(context.Background(), p, items)
	if err != nil {
		t.Fatalf("insert %s: %v", p.Name, err)
	}
	if id == 0 || p.ID != id {
		t.Fatalf("insert %s: expected id to be set, got %d / %d", p.Name, id, p.ID)
	}
	return id
}

func find(t *testing.T, r Repos, uf, city string, items []int64) []int64 {
	t.Helper()
	points, err := r.Points.FindByLocationAndItems(context.Background(), uf, city, items)
	if err != nil {
		t.Fatalf("find %s/%s %v: %v", uf, city, items, err)
	}
	ids := make([]int64, 0, len(points))
	for _, p := range points {
		ids = append(ids, p.ID)
	}
	return ids
}

func sameIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func testScenario(t *testing.T, r Repos) {
	p1 := mustInsert(t, r, newPoint("P1", "MG", "Ouro Preto"), 1, 2)

	if got := find(t, r, "MG", "Ouro Preto", []int64{}); !sameIDs(got, []int64{p1}) {
		t.Fatalf("items=[]: want [%d], got %v", p1, got)
	}
	if got := find(t, r, "MG", "Ouro Preto", []int64{3}); len(got) != 0 {
		t.Fatalf("items=[3]: want none, got %v", got)
	}
	if got := find(t, r, "MG", "Ouro Preto", []int64{2, 3}); !sameIDs(got, []int64{p1}) {
		t.Fatalf("items=[2,3]: want [%d], got %v", p1, got)
	}
	if got := find(t, r, "MG", "Belo Horizonte", []int64{}); len(got) != 0 {
		t.Fatalf("other city: want none, got %v", got)
	}
}

func testEmptyIsNoFilter(t *testing.T, r Repos) {
	a := mustInsert(t, r, newPoint("A", "SP", "Campinas"), 1)
	b := mustInsert(t, r, newPoint("B", "SP", "Campinas"), 2, 3)
	mustInsert(t, r, newPoint("C", "SP", "Santos"), 1)

	noFilter := find(t, r, "SP", "Campinas", nil)
	empty := find(t, r, "SP", "Campinas", []int64{})
	if !sameIDs(noFilter, empty) || !sameIDs(empty, []int64{a, b}) {
		t.Fatalf("nil filter %v and empty filter %v should both be [%d %d]", noFilter, empty, a, b)
	}
}

func testOrSemantics(t *testing.T, r Repos) {
	both := mustInsert(t, r, newPoint("Both", "RJ", "Niterói"), 1, 3)
	onlyThree := mustInsert(t, r, newPoint("OnlyThree", "RJ", "Niterói"), 3)

	if got := find(t, r, "RJ", "Niterói", []int64{3, 5}); !sameIDs(got, []int64{both, onlyThree}) {
		t.Fatalf("{3,5}: want [%d %d], got %v", both, onlyThree, got)
	}
	if got := find(t, r, "RJ", "Niterói", []int64{5, 7}); len(got) != 0 {
		t.Fatalf("{5,7}: want none, got %v", got)
	}
	// AND semantics would drop OnlyThree here
	if got := find(t, r, "RJ", "Niterói", []int64{1, 3}); !sameIDs(got, []int64{both, onlyThree}) {
		t.Fatalf("{1,3}: want [%d %d], got %v", both, onlyThree, got)
	}
}

func testNoDuplicates(t *testing.T, r Repos) {
	id := mustInsert(t, r, newPoint("Many", "BA", "Salvador"), 1, 2, 3, 5)
	got := find(t, r, "BA", "Salvador", []int64{1, 2, 3, 5, 7})
	if !sameIDs(got, []int64{id}) {
		t.Fatalf("want [%d] exactly once, got %v", id, got)
	}
}

func testExactLocation(t *testing.T, r Repos) {
	mustInsert(t, r, newPoint("P", "MG", "Ouro Preto"), 1)
	for _, loc := range [][2]string{{"mg", "Ouro Preto"}, {"MG", "ouro preto"}, {"MG", "Ouro Preto "}, {"", ""}} {
		if got := find(t, r, loc[0], loc[1], nil); len(got) != 0 {
			t.Fatalf("%q/%q should not match, got %v", loc[0], loc[1], got)
		}
	}
}

func testUnknownItem(t *testing.T, r Repos) {
	before := r.TotalLinks(t)

	p := newPoint("Ghost", "PE", "Recife")
	_, err := r.Points.InsertWithItems(context.Background(), p, []int64{1, 9999})
	if !errors.Is(err, utils.ErrInvalidItemReference) {
		t.Fatalf("expected invalid item reference, got %v", err)
	}
	var refErr *utils.ItemReferenceError
	if errors.As(err, &refErr) && len(refErr.Missing) > 0 && !sameIDs(refErr.Missing, []int64{9999}) {
		t.Fatalf("expected 9999 reported missing, got %v", refErr.Missing)
	}

	if got := find(t, r, "PE", "Recife", nil); len(got) != 0 {
		t.Fatalf("failed insert left a queryable point: %v", got)
	}
	if after := r.TotalLinks(t); after != before {
		t.Fatalf("failed insert left links behind: %d -> %d", before, after)
	}
}

func testDetail(t *testing.T, r Repos) {
	ctx := context.Background()
	id := mustInsert(t, r, newPoint("Detail", "MG", "Mariana"), 3, 1, 3)

	p, err := r.Points.GetByIDWithItems(ctx, id)
	if err != nil || p == nil {
		t.Fatalf("get %d: %v %v", id, p, err)
	}
	if len(p.Items) != 2 || p.Items[0].ItemID != 1 || p.Items[1].ItemID != 3 {
		t.Fatalf("expected items [1 3], got %+v", p.Items)
	}
	if p.Items[0].Item.Title != "Lâmpadas" {
		t.Fatalf("item not loaded: %+v", p.Items[0])
	}

	missing, err := r.Points.GetByIDWithItems(ctx, id+1000)
	if err != nil || missing != nil {
		t.Fatalf("missing point should be nil, nil; got %v %v", missing, err)
	}
}

func testListItems(t *testing.T, r Repos) {
	items, err := r.Items.ListItems(context.Background())
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	want := []int64{1, 2, 3, 5, 7}
	got := make([]int64, 0, len(items))
	for _, it := range items {
		got = append(got, it.ID)
	}
	if !sameIDs(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}

	// seeding again must not duplicate or overwrite
	again := Catalog()
	again[0].Title = "changed"
	if err := r.Items.UpsertItems(context.Background(), again); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	items, _ = r.Items.ListItems(context.Background())
	if len(items) != len(want) || items[0].Title != "Lâmpadas" {
		t.Fatalf("reseed changed catalog: %+v", items)
	}

	missing, err := r.Items.FindMissingIDs(context.Background(), []int64{7, 4, 1, 9999})
	if err != nil {
		t.Fatalf("find missing: %v", err)
	}
	if !sameIDs(missing, []int64{4, 9999}) {
		t.Fatalf("want missing [4 9999], got %v", missing)
	}
}

func testConcurrentInserts(t *testing.T, r Repos) {
	sets := [][]int64{{1, 2}, {2, 3}, {1, 2, 3}, {3, 5}}
	const perSet = 4

	type result struct {
		id    int64
		items int
		err   error
	}
	results := make(chan result, len(sets)*perSet)

	var wg sync.WaitGroup
	for i, set := range sets {
		for j := 0; j < perSet; j++ {
			wg.Add(1)
			go func(n int, items []int64) {
				defer wg.Done()
				p := newPoint(fmt.Sprintf("C%d", n), "SC", "Florianópolis")
				id, err := r.Points.InsertWithItems(context.Background(), p, items)
				results <- result{id: id, items: len(items), err: err}
			}(i*perSet+j, set)
		}
	}
	wg.Wait()
	close(results)

	for res := range results {
		if res.err != nil {
			t.Fatalf("concurrent insert: %v", res.err)
		}
		p, err := r.Points.GetByIDWithItems(context.Background(), res.id)
		if err != nil || p == nil {
			t.Fatalf("reload %d: %v", res.id, err)
		}
		if len(p.Items) != res.items {
			t.Fatalf("point %d has %d items, want %d", res.id, len(p.Items), res.items)
		}
	}

	if got := find(t, r, "SC", "Florianópolis", nil); len(got) != len(sets)*perSet {
		t.Fatalf("expected %d points, got %d", len(sets)*perSet, len(got))
	}
}

func testLocations(t *testing.T, r Repos) {
	ctx := context.Background()
	if got, err := r.Locations.ListLocations(ctx, ""); err != nil || got == nil || len(got) != 0 {
		t.Fatalf("empty store: want empty slice, got %v %v", got, err)
	}

	mustInsert(t, r, newPoint("A", "SP", "Santos"), 1)
	mustInsert(t, r, newPoint("B", "MG", "Ouro Preto"), 1)
	mustInsert(t, r, newPoint("C", "SP", "Campinas"), 2)
	mustInsert(t, r, newPoint("D", "MG", "Ouro Preto"), 3)

	all, err := r.Locations.ListLocations(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []repositories.LocationCount{
		{UF: "MG", City: "Ouro Preto", Points: 2},
		{UF: "SP", City: "Campinas", Points: 1},
		{UF: "SP", City: "Santos", Points: 1},
	}
	if len(all) != len(want) {
		t.Fatalf("want %v, got %v", want, all)
	}
	for i := range want {
		if all[i] != want[i] {
			t.Fatalf("row %d: want %+v, got %+v", i, want[i], all[i])
		}
	}

	sp, err := r.Locations.ListLocations(ctx, "SP")
	if err != nil || len(sp) != 2 || sp[0].City != "Campinas" {
		t.Fatalf("uf filter: %v %v", sp, err)
	}

	// uf case is stored as given; ordering is bytewise so "MT" sorts before "mg"
	mustInsert(t, r, newPoint("E", "mg", "Mariana"), 1)
	mustInsert(t, r, newPoint("F", "MT", "Cuiabá"), 1)
	mustInsert(t, r, newPoint("G", "MT", "alta Floresta"), 1)
	all, err = r.Locations.ListLocations(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var order []string
	for _, row := range all {
		order = append(order, row.UF+"/"+row.City)
	}
	wantOrder := []string{"MG/Ouro Preto", "MT/Cuiabá", "MT/alta Floresta", "SP/Campinas", "SP/Santos", "mg/Mariana"}
	if len(order) != len(wantOrder) {
		t.Fatalf("want %v, got %v", wantOrder, order)
	}
	for i := range wantOrder {
		if order[i] != wantOrder[i] {
			t.Fatalf("want %v, got %v", wantOrder, order)
		}
	}
}
