package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Listing source backends.
const (
	SourceHTTP     = "http"
	SourceSheets   = "sheets"
	SourcePostgres = "postgres"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// EngineConfig tunes the catalog engine caps.
type EngineConfig struct {
	GroupItemLimit   int `toml:"group_item_limit"`
	SuggestionLimit  int `toml:"suggestion_limit"`
	SubcategoryLimit int `toml:"subcategory_limit"`
}

// SheetsConfig locates the catalogue spreadsheet.
type SheetsConfig struct {
	SpreadsheetID string
	Range         string
	APIKey        string
}

// RedisConfig holds the Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Config aggregates application-wide configuration values.
type Config struct {
	Port               string
	DatabaseURL        string
	ListingSource      string
	ListingsURL        string
	Sheets             SheetsConfig
	CacheBackend       string
	Redis              RedisConfig
	CacheTTL           time.Duration
	FetchTimeout       time.Duration
	JWTSecret          string
	TokenTTL           time.Duration
	AdminEmail         string
	AdminPasswordHash  string
	RateLimitSuggest   RateLimitConfig
	DefaultPhoneRegion string
	LogLevel           string
	LogFormat          string
	MetricsEnabled     bool
	Engine             EngineConfig
}

type fileConfig struct {
	Engine EngineConfig `toml:"engine"`
}

// Load reads configuration from environment variables, applies defaults and
// overlays the optional TOML file named by CATALOG_CONFIG_FILE.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		ListingSource: strings.ToLower(getEnv("LISTING_SOURCE", SourceHTTP)),
		ListingsURL:   os.Getenv("LISTINGS_URL"),
		Sheets: SheetsConfig{
			SpreadsheetID: os.Getenv("SHEETS_SPREADSHEET_ID"),
			Range:         getEnv("SHEETS_RANGE", "Listings!A:Z"),
			APIKey:        os.Getenv("GOOGLE_API_KEY"),
		},
		CacheBackend: strings.ToLower(getEnv("CACHE_BACKEND", CacheMemory)),
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		CacheTTL:           parseDuration(getEnv("CACHE_TTL", "30s"), 30*time.Second),
		FetchTimeout:       parseDuration(getEnv("SOURCE_FETCH_TIMEOUT", "10s"), 10*time.Second),
		JWTSecret:          getEnv("JWT_SECRET", "dev-secret"),
		TokenTTL:           parseDuration(getEnv("JWT_TTL", "24h"), 24*time.Hour),
		AdminEmail:         getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPasswordHash:  os.Getenv("ADMIN_PASSWORD_HASH"),
		DefaultPhoneRegion: strings.ToUpper(getEnv("DEFAULT_PHONE_REGION", "NG")),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		MetricsEnabled:     parseBool(getEnv("METRICS_ENABLED", "true"), true),
	}

	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil || db < 0 {
		return nil, fmt.Errorf("invalid REDIS_DB value: %q", os.Getenv("REDIS_DB"))
	}
	cfg.Redis.DB = db

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_SUGGEST", "20/sec"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_SUGGEST value: %w", err)
	}
	cfg.RateLimitSuggest = rl

	if path := os.Getenv("CATALOG_CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if fc.Engine.GroupItemLimit > 0 {
		c.Engine.GroupItemLimit = fc.Engine.GroupItemLimit
	}
	if fc.Engine.SuggestionLimit > 0 {
		c.Engine.SuggestionLimit = fc.Engine.SuggestionLimit
	}
	if fc.Engine.SubcategoryLimit > 0 {
		c.Engine.SubcategoryLimit = fc.Engine.SubcategoryLimit
	}
	return nil
}

func (c *Config) validate() error {
	switch c.ListingSource {
	case SourceHTTP:
		if c.ListingsURL == "" {
			return fmt.Errorf("LISTINGS_URL is required for the %s source", SourceHTTP)
		}
	case SourceSheets:
		if c.Sheets.SpreadsheetID == "" {
			return fmt.Errorf("SHEETS_SPREADSHEET_ID is required for the %s source", SourceSheets)
		}
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s source", SourcePostgres)
		}
	default:
		return fmt.Errorf("unsupported LISTING_SOURCE: %s", c.ListingSource)
	}

	switch c.CacheBackend {
	case CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("unsupported CACHE_BACKEND: %s", c.CacheBackend)
	}
	return nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseBool(input string, fallback bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(input))
	if err != nil {
		return fallback
	}
	return b
}
