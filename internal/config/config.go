package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends for the favorites slot.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Catalog
	APIKey      string        // X-API-KEY credential for the catalog
	APIURL      string        // ex: https://api.kinopoisk.dev/v1.4
	APITimeout  time.Duration // per-request timeout
	PageSize    int           // items requested per page
	YearFloor   int           // earliest supported release year
	InitialURL  string        // shareable query seeded on startup (ex: "yearFrom=2010&yearTo=2020")
	DetailCache time.Duration // TTL for cached detail records (redis only, 0 disables)

	// Favorites storage
	Storage    string // "file" | "sqlite" | "redis"
	DataDir    string // directory holding one JSON file per slot key (file storage)
	SQLitePath string // path to the sqlite database (sqlite storage)

	// Presets
	PresetsFile           string        // path to presets.yaml (optional, empty = presets disabled)
	PresetsReloadInterval time.Duration // 0 = reload only on demand

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	// Access restrictions
	AllowedCIDRS []string // optional, restrict ops endpoints to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers
	RateBurst    int      // burst size for catalog-hitting routes
	RatePerMin   int      // refill per client per minute
}

func Load() *Config {
	loadEnvFile(getenv("MARQUEE_ENV_FILE", ".env"))

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("MARQUEE_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("MARQUEE_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("MARQUEE_LOG_LEVEL", "info"),
		PrettyLog: mustBool("MARQUEE_PRETTY_LOG", true),

		// Catalog
		APIKey:      requireEnv("MARQUEE_API_KEY"),
		APIURL:      strings.TrimRight(getenv("MARQUEE_API_URL", "https://api.kinopoisk.dev/v1.4"), "/"),
		APITimeout:  mustDuration("MARQUEE_API_TIMEOUT", 15*time.Second),
		PageSize:    getenvInt("MARQUEE_PAGE_SIZE", 50),
		YearFloor:   getenvInt("MARQUEE_YEAR_FLOOR", 1900),
		InitialURL:  strings.TrimPrefix(getenv("MARQUEE_INITIAL_QUERY", ""), "?"),
		DetailCache: mustDuration("MARQUEE_DETAIL_CACHE_TTL", time.Hour),

		// Favorites storage
		Storage:    strings.ToLower(getenv("MARQUEE_STORAGE", StorageFile)),
		DataDir:    getenv("MARQUEE_DATA_DIR", "./data"),
		SQLitePath: getenv("MARQUEE_SQLITE_PATH", "./data/marquee.db"),

		// Presets
		PresetsFile:           getenv("MARQUEE_PRESETS_FILE", ""),
		PresetsReloadInterval: mustDuration("MARQUEE_PRESETS_RELOAD_INTERVAL", 0),

		// Redis settings
		RedisAddr:             getenv("MARQUEE_REDIS_ADDR", "localhost:6379"),
		RedisUser:             getenv("MARQUEE_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("MARQUEE_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("MARQUEE_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("MARQUEE_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedCIDRS: parseAllowedIPs(getenv("MARQUEE_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("MARQUEE_TRUST_PROXY", false),
		RateBurst:    getenvInt("MARQUEE_RATE_BURST", 20),
		RatePerMin:   getenvInt("MARQUEE_RATE_PER_MIN", 120),
	}

	if err := cfg.validate(); err != nil {
		panic(fmt.Sprintf("❌ FATAL: %v", err))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

func (c *Config) validate() error {
	switch c.Storage {
	case StorageFile, StorageSQLite, StorageRedis:
	default:
		return fmt.Errorf("MARQUEE_STORAGE must be one of file, sqlite, redis (got %q)", c.Storage)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("MARQUEE_PAGE_SIZE must be > 0, got %d", c.PageSize)
	}
	if c.Storage == StorageRedis && c.RedisPasswordRequired && c.RedisPassword == "" {
		return errors.New("MARQUEE_REDIS_PASSWORD is required when MARQUEE_REDIS_PASSWORD_REQUIRED=true")
	}
	return nil
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	cp := *c
	cp.APIKey = "***REDACTED***"
	if cp.RedisPassword != "" {
		cp.RedisPassword = "***REDACTED***"
	}
	return cp
}

// loadEnvFile loads KEY=VALUE pairs from path without overriding variables
// already present in the environment. A missing file is not an error.
func loadEnvFile(path string) {
	if path == "" {
		return
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		panic(fmt.Sprintf("❌ FATAL: failed to load env file %s: %v", path, err))
	}
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
