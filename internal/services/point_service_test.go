package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"ecoleta/internal/models/db_models"
	"ecoleta/internal/models/request_models"
	"ecoleta/internal/repositories/memory"
	"ecoleta/internal/storage"
	"ecoleta/pkg/utils"
)

var pngBytes = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4, 0x89,
}

// fakeImageStore records saved and removed images in memory.
type fakeImageStore struct {
	saved   map[string][]byte
	removed []string
	saveErr error
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{saved: map[string][]byte{}}
}

func (f *fakeImageStore) Save(ctx context.Context, originalName string, content io.Reader) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	name := storage.StoredFilename(originalName)
	f.saved[name] = data
	return name, nil
}

func (f *fakeImageStore) Remove(ctx context.Context, filename string) error {
	if filename == "" {
		return nil
	}
	f.removed = append(f.removed, filename)
	delete(f.saved, filename)
	return nil
}

// failingPointRepo wraps the memory store and fails every insert.
type failingPointRepo struct {
	*memory.Store
	inserts int
}

func (f *failingPointRepo) InsertWithItems(ctx context.Context, point *db_models.Point, itemIDs []int64) (int64, error) {
	f.inserts++
	return 0, errors.New("connection reset by peer")
}

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	s := memory.NewStore()
	var items []db_models.Item
	for id, title := range map[int64]string{1: "Lâmpadas", 2: "Pilhas", 3: "Papéis"} {
		it := db_models.Item{Title: title, Image: "item.svg"}
		it.ID = id
		items = append(items, it)
	}
	if err := s.UpsertItems(context.Background(), items); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return s
}

func validRequest() request_models.CreatePointRequest {
	return request_models.CreatePointRequest{
		Name:      "Mercado do Zé",
		Email:     "ze@mercado.com.br",
		Whatsapp:  "31988887777",
		UF:        "MG",
		City:      "Ouro Preto",
		Latitude:  "-20.3856",
		Longitude: "-43.5035",
		Items:     []int64{1, 2},
	}
}

func fieldNames(err error) []string {
	var verr *utils.ValidationError
	if !errors.As(err, &verr) {
		return nil
	}
	names := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		names = append(names, f.Field)
	}
	return names
}

func TestRegisterPoint_Success(t *testing.T) {
	store := seededStore(t)
	images := newFakeImageStore()
	svc := NewPointService(store, store, images, storage.NewURLResolver("http://localhost:3333"))
	ctx := context.Background()

	id, err := svc.RegisterPoint(validRequest(), &request_models.ImageFile{Filename: "fachada.png", Content: bytes.NewReader(pngBytes)}, ctx)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(images.saved) != 1 {
		t.Fatalf("expected one stored image, got %d", len(images.saved))
	}

	detail, err := svc.GetPointById(id, ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(detail.Items) != 2 || detail.Items[0].Title != "Lâmpadas" {
		t.Fatalf("unexpected items %+v", detail.Items)
	}
	if !strings.HasPrefix(detail.ImageURL, "http://localhost:3333/uploads/") || !strings.HasSuffix(detail.ImageURL, "-fachada.png") {
		t.Fatalf("unexpected image url %q", detail.ImageURL)
	}
}

func TestRegisterPoint_ReportsEveryInvalidField(t *testing.T) {
	store := seededStore(t)
	svc := NewPointService(store, store, newFakeImageStore(), storage.NewURLResolver("http://x"))

	req := request_models.CreatePointRequest{
		Name:      "   ",
		Email:     "not-an-email",
		Whatsapp:  "",
		UF:        "MGX",
		City:      "",
		Latitude:  "91",
		Longitude: "",
		Items:     nil,
	}
	_, err := svc.RegisterPoint(req, nil, context.Background())
	if !errors.Is(err, utils.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}

	got := map[string]bool{}
	for _, n := range fieldNames(err) {
		got[n] = true
	}
	for _, want := range []string{"name", "email", "whatsapp", "uf", "city", "latitude", "longitude", "items"} {
		if !got[want] {
			t.Errorf("missing field error for %s (got %v)", want, fieldNames(err))
		}
	}

	if pts, _ := store.FindByLocationAndItems(context.Background(), "MGX", "", nil); len(pts) != 0 {
		t.Fatal("invalid registration must not persist")
	}
}

func TestRegisterPoint_RejectsNonImageUpload(t *testing.T) {
	store := seededStore(t)
	images := newFakeImageStore()
	svc := NewPointService(store, store, images, storage.NewURLResolver("http://x"))

	_, err := svc.RegisterPoint(validRequest(), &request_models.ImageFile{Filename: "evil.png", Content: strings.NewReader("#!/bin/sh\necho hi\n")}, context.Background())
	if names := fieldNames(err); len(names) != 1 || names[0] != "image" {
		t.Fatalf("expected only an image field error, got %v (%v)", names, err)
	}
	if len(images.saved) != 0 {
		t.Fatal("rejected upload must not be stored")
	}
}

func TestRegisterPoint_UnknownItemPersistsNothing(t *testing.T) {
	store := seededStore(t)
	images := newFakeImageStore()
	svc := NewPointService(store, store, images, storage.NewURLResolver("http://x"))

	req := validRequest()
	req.Items = []int64{1, 9999}
	_, err := svc.RegisterPoint(req, &request_models.ImageFile{Filename: "a.png", Content: bytes.NewReader(pngBytes)}, context.Background())

	var refErr *utils.ItemReferenceError
	if !errors.As(err, &refErr) || len(refErr.Missing) != 1 || refErr.Missing[0] != 9999 {
		t.Fatalf("expected reference error for 9999, got %v", err)
	}
	if !errors.Is(err, utils.ErrInvalidItemReference) {
		t.Fatal("reference error must match ErrInvalidItemReference")
	}
	if len(images.saved) != 0 {
		t.Fatal("image stored despite referential failure")
	}
	if pts, _ := store.FindByLocationAndItems(context.Background(), "MG", "Ouro Preto", nil); len(pts) != 0 {
		t.Fatalf("point persisted despite referential failure: %v", pts)
	}
}

func TestRegisterPoint_StorageFailureRemovesImage(t *testing.T) {
	store := seededStore(t)
	repo := &failingPointRepo{Store: store}
	images := newFakeImageStore()
	svc := NewPointService(repo, store, images, storage.NewURLResolver("http://x"))

	_, err := svc.RegisterPoint(validRequest(), &request_models.ImageFile{Filename: "a.png", Content: bytes.NewReader(pngBytes)}, context.Background())
	if !errors.Is(err, utils.ErrStorageFailure) {
		t.Fatalf("expected storage failure, got %v", err)
	}
	if errors.Is(err, utils.ErrInvalidInput) {
		t.Fatal("storage failure must be distinct from validation errors")
	}
	if repo.inserts != 1 {
		t.Fatalf("expected one insert attempt, got %d", repo.inserts)
	}
	if len(images.saved) != 0 || len(images.removed) != 1 {
		t.Fatalf("image should be cleaned up, saved=%d removed=%d", len(images.saved), len(images.removed))
	}
}

func TestRegisterPoint_ImageSaveFailure(t *testing.T) {
	store := seededStore(t)
	images := newFakeImageStore()
	images.saveErr = errors.New("disk full")
	svc := NewPointService(store, store, images, storage.NewURLResolver("http://x"))

	_, err := svc.RegisterPoint(validRequest(), &request_models.ImageFile{Filename: "a.png", Content: bytes.NewReader(pngBytes)}, context.Background())
	if !errors.Is(err, utils.ErrStorageFailure) {
		t.Fatalf("expected storage failure, got %v", err)
	}
	if pts, _ := store.FindByLocationAndItems(context.Background(), "MG", "Ouro Preto", nil); len(pts) != 0 {
		t.Fatal("point persisted although its image could not be stored")
	}
}

func TestFindPoints_ResolvesImagesAndNeverReturnsNil(t *testing.T) {
	store := seededStore(t)
	svc := NewPointService(store, store, newFakeImageStore(), storage.NewURLResolver("http://192.168.0.14:3333"))
	ctx := context.Background()

	none, err := svc.FindPoints(request_models.FindPointsQuery{UF: "MG", City: "Ouro Preto"}, ctx)
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v %v", none, err)
	}

	p := &db_models.Point{Name: "P1", Image: "abc-p1.png", UF: "MG", City: "Ouro Preto"}
	if _, err := store.InsertWithItems(ctx, p, []int64{1, 2}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := svc.FindPoints(request_models.FindPointsQuery{UF: "MG", City: "Ouro Preto", ItemIDs: []int64{2, 3}}, ctx)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) != 1 || got[0].ImageURL != "http://192.168.0.14:3333/uploads/abc-p1.png" {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestGetPointById_NotFound(t *testing.T) {
	store := seededStore(t)
	svc := NewPointService(store, store, newFakeImageStore(), storage.NewURLResolver("http://x"))
	if _, err := svc.GetPointById(42, context.Background()); !errors.Is(err, utils.ErrPointNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRegisterPoint_UnknownItemReportedWithOtherFieldErrors(t *testing.T) {
	store := seededStore(t)
	svc := NewPointService(store, store, newFakeImageStore(), storage.NewURLResolver("http://x"))

	req := validRequest()
	req.Email = "nope"
	req.Items = []int64{1, 9999}
	_, err := svc.RegisterPoint(req, nil, context.Background())
	if !errors.Is(err, utils.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	names := fieldNames(err)
	if len(names) != 2 || names[0] != "email" || names[1] != "items" {
		t.Fatalf("expected email and items field errors, got %v", names)
	}
}

func TestRegisterPoint_ParsesRawItems(t *testing.T) {
	store := seededStore(t)
	svc := NewPointService(store, store, newFakeImageStore(), storage.NewURLResolver("http://x"))
	ctx := context.Background()

	req := validRequest()
	req.Items = nil
	req.RawItems = []string{"2, 1", "2"}
	id, err := svc.RegisterPoint(req, nil, ctx)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if n := store.LinkCount(id); n != 2 {
		t.Fatalf("expected 2 item links, got %d", n)
	}

	req.Name = ""
	req.Latitude = "abc"
	req.RawItems = []string{"1,x"}
	_, err = svc.RegisterPoint(req, nil, ctx)
	got := map[string]int{}
	for _, n := range fieldNames(err) {
		got[n]++
	}
	if got["name"] != 1 || got["latitude"] != 1 || got["items"] != 1 {
		t.Fatalf("expected one error each for name, latitude and items, got %v", fieldNames(err))
	}
}
