package infra

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadItemCatalog_Default(t *testing.T) {
	items, err := LoadItemCatalog("")
	if err != nil {
		t.Fatalf("load default catalog: %v", err)
	}
	if len(items) != 6 {
		t.Fatalf("expected 6 items, got %d", len(items))
	}
	if items[0].ID != 1 || items[0].Title != "Lâmpadas" || items[0].Image != "lampadas.svg" {
		t.Fatalf("unexpected first item %+v", items[0])
	}
}

func TestParseItemCatalog_Rejects(t *testing.T) {
	cases := map[string]string{
		"duplicate id":  "items:\n  - {id: 1, title: A, image: a.svg}\n  - {id: 1, title: B, image: b.svg}\n",
		"missing image": "items:\n  - {id: 1, title: A}\n",
		"zero id":       "items:\n  - {id: 0, title: A, image: a.svg}\n",
		"empty":         "items: []\n",
		"not yaml":      "items: [",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseItemCatalog([]byte(body)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestInstallItemIcons(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")

	// an operator-provided icon must survive
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	custom := filepath.Join(dir, "oleo.svg")
	if err := os.WriteFile(custom, []byte("<svg/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := InstallItemIcons(dir)
	if err != nil {
		t.Fatalf("install: %v", err)
	}
	if n != 5 {
		t.Fatalf("expected 5 icons written, got %d", n)
	}

	items, _ := LoadItemCatalog("")
	for _, it := range items {
		if _, err := os.Stat(filepath.Join(dir, it.Image)); err != nil {
			t.Fatalf("icon for %q missing: %v", it.Title, err)
		}
	}
	if data, _ := os.ReadFile(custom); string(data) != "<svg/>" {
		t.Fatal("existing icon was overwritten")
	}

	if n, err := InstallItemIcons(dir); err != nil || n != 0 {
		t.Fatalf("second install should be a no-op, got %d %v", n, err)
	}
}
