package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Browser BrowserConfig
	Crawl   CrawlConfig
	PubChem PubChemConfig
	Store   StoreConfig
	Catalog CatalogConfig
	IDCache IDCacheConfig
	Log     LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser sessions used for crawling.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string
}

// CrawlConfig controls per-crawl behavior.
type CrawlConfig struct {
	// NavigationTimeout bounds page.Navigate plus document readiness.
	NavigationTimeout time.Duration // default: 25s

	// SelectorTimeout bounds the wait for a vendor's readiness selector.
	// A miss fails the crawl; it never blocks past this deadline.
	SelectorTimeout time.Duration // default: 8s

	// ArtifactDir is where failure screenshots are written.
	ArtifactDir string // default: "artifacts"

	// Stealth enables anti-bot-detection evasions on crawl sessions.
	Stealth bool // default: true
}

// PubChemConfig controls the identifier and vendor-directory lookups.
type PubChemConfig struct {
	// BaseURL is the PubChem REST root.
	BaseURL string // default: "https://pubchem.ncbi.nlm.nih.gov"

	// Timeout is the per-lookup HTTP deadline.
	Timeout time.Duration // default: 15s

	// RequestsPerSecond caps outbound lookups; PubChem's usage policy
	// allows at most 5 requests per second per client.
	RequestsPerSecond float64 // default: 5
}

// StoreConfig controls the storefront commerce client.
type StoreConfig struct {
	// BaseURL is the storefront root serving /products/{handle}.js.
	BaseURL string // default: "https://purepeg.com"

	// Timeout is the per-call HTTP deadline.
	Timeout time.Duration // default: 10s
}

// CatalogConfig controls the local product catalog.
type CatalogConfig struct {
	// Path is the JSON file mapping identifiers to product handles.
	// Empty means an empty catalog (every api-strategy lookup misses).
	Path string
}

// IDCacheConfig controls the identifier-to-CID lookup cache.
type IDCacheConfig struct {
	// MaxEntries is the maximum number of cached resolutions.
	MaxEntries int // default: 1000

	// TTL is how long a cached resolution stays valid.
	TTL time.Duration // default: 24h
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("PRICEFETCH_HOST", "0.0.0.0"),
			Port: envIntOr("PRICEFETCH_PORT", 8080),
			Mode: envOr("PRICEFETCH_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:   envBoolOr("PRICEFETCH_HEADLESS", true),
			NoSandbox:  envBoolOr("PRICEFETCH_NO_SANDBOX", false),
			BrowserBin: os.Getenv("PRICEFETCH_BROWSER_BIN"),
		},
		Crawl: CrawlConfig{
			NavigationTimeout: envDurationOr("PRICEFETCH_NAV_TIMEOUT", 25*time.Second),
			SelectorTimeout:   envDurationOr("PRICEFETCH_SELECTOR_TIMEOUT", 8*time.Second),
			ArtifactDir:       envOr("PRICEFETCH_ARTIFACT_DIR", "artifacts"),
			Stealth:           envBoolOr("PRICEFETCH_STEALTH", true),
		},
		PubChem: PubChemConfig{
			BaseURL:           envOr("PRICEFETCH_PUBCHEM_URL", "https://pubchem.ncbi.nlm.nih.gov"),
			Timeout:           envDurationOr("PRICEFETCH_PUBCHEM_TIMEOUT", 15*time.Second),
			RequestsPerSecond: envFloatOr("PRICEFETCH_PUBCHEM_RPS", 5.0),
		},
		Store: StoreConfig{
			BaseURL: envOr("PRICEFETCH_STORE_URL", "https://purepeg.com"),
			Timeout: envDurationOr("PRICEFETCH_STORE_TIMEOUT", 10*time.Second),
		},
		Catalog: CatalogConfig{
			Path: os.Getenv("PRICEFETCH_CATALOG_PATH"),
		},
		IDCache: IDCacheConfig{
			MaxEntries: envIntOr("PRICEFETCH_IDCACHE_MAX", 1000),
			TTL:        envDurationOr("PRICEFETCH_IDCACHE_TTL", 24*time.Hour),
		},
		Log: LogConfig{
			Level:  envOr("PRICEFETCH_LOG_LEVEL", "info"),
			Format: envOr("PRICEFETCH_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
