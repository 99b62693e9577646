package infra

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"ecoleta/internal/models/db_models"
)

//go:embed seed/items.yaml
var defaultItemCatalog []byte

//go:embed seed/icons/*.svg
var itemIcons embed.FS

type itemCatalog struct {
	Items []struct {
		ID    int64  `yaml:"id"`
		Title string `yaml:"title"`
		Image string `yaml:"image"`
	} `yaml:"items"`
}

// LoadItemCatalog parses the item seed catalog. An empty path selects the
// catalog compiled into the binary.
func LoadItemCatalog(path string) ([]db_models.Item, error) {
	data := defaultItemCatalog
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read item catalog: %w", err)
		}
	}
	return ParseItemCatalog(data)
}

func ParseItemCatalog(data []byte) ([]db_models.Item, error) {
	var catalog itemCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse item catalog: %w", err)
	}

	seen := make(map[int64]bool, len(catalog.Items))
	items := make([]db_models.Item, 0, len(catalog.Items))
	for _, it := range catalog.Items {
		if it.ID <= 0 {
			return nil, fmt.Errorf("item %q: id must be positive", it.Title)
		}
		if seen[it.ID] {
			return nil, fmt.Errorf("item id %d declared twice", it.ID)
		}
		if strings.TrimSpace(it.Title) == "" || strings.TrimSpace(it.Image) == "" {
			return nil, fmt.Errorf("item %d: title and image are required", it.ID)
		}
		seen[it.ID] = true

		item := db_models.Item{Title: it.Title, Image: it.Image}
		item.ID = it.ID
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, errors.New("item catalog is empty")
	}
	return items, nil
}

// InstallItemIcons copies the bundled item icons into dir so they are served
// next to uploaded point images. Existing files are left untouched.
func InstallItemIcons(dir string) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create icon dir: %w", err)
	}
	entries, err := fs.ReadDir(itemIcons, "seed/icons")
	if err != nil {
		return 0, err
	}

	written := 0
	for _, e := range entries {
		data, err := itemIcons.ReadFile("seed/icons/" + e.Name())
		if err != nil {
			return written, err
		}
		f, err := os.OpenFile(filepath.Join(dir, e.Name()), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return written, fmt.Errorf("install icon %s: %w", e.Name(), err)
		}
		_, werr := f.Write(data)
		if cerr := f.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			return written, fmt.Errorf("install icon %s: %w", e.Name(), werr)
		}
		written++
	}
	return written, nil
}
