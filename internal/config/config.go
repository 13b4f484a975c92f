package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// PortalURL is the GeoJSON endpoint for the open-data portal feed.
	PortalURL string

	// BuoyURLTemplate is the buoy telemetry query template containing the
	// [BEGIN] and [END] date tokens.
	BuoyURLTemplate string

	// DataRoot is the directory under which exported tables are written.
	// There is no baked-in default path in the core packages; this value is
	// passed explicitly to everything that touches the filesystem.
	DataRoot string

	// FetchInterval controls how often the background refresh job runs.
	FetchInterval time.Duration

	// BuoyWindowDays is the trailing window length for scheduled buoy fetches.
	BuoyWindowDays int

	// In-memory store retention.
	StoreMaxHistory int           // max number of tables per dataset (0 = unlimited)
	StoreMaxAge     time.Duration // max age of tables (0 = unlimited)

	// HTTPTimeout applies to the shared outbound HTTP client.
	HTTPTimeout time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.PortalURL = getenvDefault("PORTAL_URL",
		"https://data.exampleport.gov/api/geospatial/sst-stations.geojson")
	cfg.BuoyURLTemplate = getenvDefault("BUOY_URL_TEMPLATE",
		"https://telemetry.exampleobs.org/shorestation/query.csv?begin=[BEGIN]&end=[END]")

	cfg.DataRoot = getenvDefault("DATA_ROOT", "data")

	intervalStr := getenvDefault("FETCH_INTERVAL", "1h")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_INTERVAL: %w", err)
	}
	cfg.FetchInterval = interval

	cfg.BuoyWindowDays = getenvInt("BUOY_WINDOW_DAYS", 7)

	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 48)

	maxAgeStr := getenvDefault("STORE_MAX_AGE", "72h")
	maxAge, err := time.ParseDuration(maxAgeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_MAX_AGE: %w", err)
	}
	cfg.StoreMaxAge = maxAge

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
