package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("POSTGRES_URL", "postgres://localhost/ecoleta")
	t.Setenv("PUBLIC_BASE_URL", "http://192.168.0.14:3333/")
	t.Setenv("ITEMS_CACHE_TTL", "30s")
	t.Setenv("MAX_UPLOAD_MB", "not-a-number")
	t.Setenv("ECOLETA_CONFIG", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.PublicBaseURL != "http://192.168.0.14:3333" {
		t.Fatalf("trailing slash not trimmed: %q", cfg.PublicBaseURL)
	}
	if cfg.ItemsCacheTTL != 30*time.Second {
		t.Fatalf("unexpected ttl %v", cfg.ItemsCacheTTL)
	}
	if cfg.MaxUploadMB != 5 {
		t.Fatalf("invalid value should fall back to default, got %d", cfg.MaxUploadMB)
	}
}

func TestLoad_YAMLOverridesEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ecoleta.yaml")
	body := "port: \"8080\"\npublic_base_url: https://coleta.example.org\nitems_cache_ttl: 1m\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("POSTGRES_URL", "postgres://localhost/ecoleta")
	t.Setenv("PORT", "3333")
	t.Setenv("ECOLETA_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected yaml port, got %q", cfg.Port)
	}
	if cfg.PublicBaseURL != "https://coleta.example.org" {
		t.Fatalf("unexpected base url %q", cfg.PublicBaseURL)
	}
	if cfg.ItemsCacheTTL != time.Minute {
		t.Fatalf("unexpected ttl %v", cfg.ItemsCacheTTL)
	}
}

func TestLoad_RequiresPostgresURL(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("POSTGRES_URL", "")
	t.Setenv("ECOLETA_CONFIG", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without POSTGRES_URL")
	}
}

func TestLoad_MemoryDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("POSTGRES_URL", "")
	t.Setenv("ECOLETA_CONFIG", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("memory driver should not need a database: %v", err)
	}
	if cfg.StorageDriver != StorageDriverMemory {
		t.Fatalf("unexpected driver %q", cfg.StorageDriver)
	}

	t.Setenv("STORAGE_DRIVER", "sqlite")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
