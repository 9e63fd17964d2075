package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port     string
	Timezone string
	DBPath   string
	// BackendURL points the workflows at a remote backend. Empty serves the
	// backend from this process.
	BackendURL     string
	BackendTimeout time.Duration
	DraftDebounce  time.Duration
	ExportDir      string
	CatalogPath    string
	StrictSession  bool
}

func Load() AppConfig {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("[cfg] No .env file found or error loading: %v", err)
	}

	get := func(k, def string) string {
		if v := os.Getenv(k); v != "" {
			return v
		}
		return def
	}
	dur := func(k string, def time.Duration) time.Duration {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("[cfg] %s=%q: %v, using %s", k, v, err, def)
			return def
		}
		return d
	}
	cfg := AppConfig{
		Port:           get("PORT", "8080"),
		Timezone:       get("TZ", "Asia/Karachi"),
		DBPath:         get("DB_PATH", "wasa.db"),
		BackendURL:     get("BACKEND_URL", ""),
		BackendTimeout: dur("BACKEND_TIMEOUT", 15*time.Second),
		DraftDebounce:  dur("DRAFT_DEBOUNCE", 500*time.Millisecond),
		ExportDir:      get("EXPORT_DIR", ""),
		CatalogPath:    get("CATALOG_PATH", ""),
		StrictSession:  get("STRICT_SESSION", "false") == "true",
	}
	log.Printf("[cfg] %+v", cfg)
	return cfg
}

// Location is the zone that decides "today" for due dates. An unknown zone
// falls back to UTC.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("[cfg] timezone %q: %v, using UTC", c.Timezone, err)
		return time.UTC
	}
	return loc
}
