package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	StorageDriver      string        `yaml:"storage_driver"`
	Port               string        `yaml:"port"`
	PostgresURL        string        `yaml:"postgres_url"`
	PublicBaseURL      string        `yaml:"public_base_url"`
	UploadsDir         string        `yaml:"uploads_dir"`
	MaxUploadMB        int64         `yaml:"max_upload_mb"`
	RegisterRatePerMin int           `yaml:"register_rate_per_min"`
	ItemsCacheTTL      time.Duration `yaml:"items_cache_ttl"`
	ItemsSeedFile      string        `yaml:"items_seed_file"`
	SlowQuery          time.Duration `yaml:"slow_query"`
}

// Load reads .env (if present), then the environment, then the optional YAML
// file named by ECOLETA_CONFIG. Values from the file win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Could not load .env file: %v", err)
	}

	cfg := Config{
		StorageDriver:      strings.ToLower(getenvDefault("STORAGE_DRIVER", StorageDriverPostgres)),
		Port:               getenvDefault("PORT", "3333"),
		PostgresURL:        os.Getenv("POSTGRES_URL"),
		PublicBaseURL:      getenvDefault("PUBLIC_BASE_URL", "http://localhost:3333"),
		UploadsDir:         getenvDefault("UPLOADS_DIR", filepath.FromSlash("var/uploads")),
		MaxUploadMB:        int64(getenvIntDefault("MAX_UPLOAD_MB", 5)),
		RegisterRatePerMin: getenvIntDefault("REGISTER_RATE_PER_MIN", 10),
		ItemsCacheTTL:      getenvDurationDefault("ITEMS_CACHE_TTL", 10*time.Minute),
		ItemsSeedFile:      os.Getenv("ITEMS_SEED_FILE"),
		SlowQuery:          getenvDurationDefault("SLOW_QUERY", 200*time.Millisecond),
	}

	if path := os.Getenv("ECOLETA_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	switch cfg.StorageDriver {
	case StorageDriverPostgres:
		if cfg.PostgresURL == "" {
			return cfg, errors.New("config: POSTGRES_URL is required")
		}
	case StorageDriverMemory:
	default:
		return cfg, fmt.Errorf("config: unknown storage driver %q", cfg.StorageDriver)
	}
	if cfg.UploadsDir == "" {
		return cfg, errors.New("config: uploads dir required")
	}
	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Ignoring invalid %s=%q: %v", key, v, err)
		return def
	}
	return n
}

func getenvDurationDefault(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Ignoring invalid %s=%q: %v", key, v, err)
		return def
	}
	return d
}
