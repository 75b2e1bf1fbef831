// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"
)

// Catalog sources.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceS3       = "s3"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Catalog source
	CatalogSource         string // "file", "postgres", "s3"
	CatalogPath           string
	CatalogFormat         string // "json", "yaml"; empty means detect from path
	CatalogReloadInterval time.Duration

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	CacheEnabled   bool
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	CacheTTL       time.Duration

	// S3-compatible object storage
	S3Endpoint   string
	S3Region     string
	S3AccessKey  string
	S3SecretKey  string
	S3Bucket     string
	S3CatalogKey string

	// Admin API: bcrypt hash of the bearer token. Empty disables /admin.
	AdminTokenHash string

	// Public API rate limit per client IP
	RateLimit  int
	RateWindow time.Duration

	// Reverse proxies whose forwarding headers name the client
	TrustedProxies []netip.Prefix
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing or inconsistent.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		CatalogSource:         strings.ToLower(envOrDefault("CATALOG_SOURCE", SourceFile)),
		CatalogPath:           envOrDefault("CATALOG_PATH", "catalog.json"),
		CatalogFormat:         os.Getenv("CATALOG_FORMAT"),
		CatalogReloadInterval: envDuration("CATALOG_RELOAD_INTERVAL", 0),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "curriculum"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "curriculum"),

		CacheEnabled:   envBool("CACHE_ENABLED", false),
		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),
		CacheTTL:       envDuration("CACHE_TTL", 5*time.Minute),

		S3Endpoint:   os.Getenv("S3_ENDPOINT"),
		S3Region:     envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey:  os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:  os.Getenv("S3_SECRET_KEY"),
		S3Bucket:     envOrDefault("S3_BUCKET", "curriculum"),
		S3CatalogKey: envOrDefault("S3_CATALOG_KEY", "catalog.json"),

		AdminTokenHash: os.Getenv("ADMIN_TOKEN_HASH"),

		RateLimit:  envInt("RATE_LIMIT", 120),
		RateWindow: envDuration("RATE_WINDOW", time.Minute),
	}

	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 120
	}
	if cfg.RateWindow <= 0 {
		cfg.RateWindow = time.Minute
	}

	switch cfg.CatalogSource {
	case SourceFile:
		if cfg.CatalogPath == "" {
			return nil, fmt.Errorf("CATALOG_PATH must be set for the file source")
		}
	case SourcePostgres:
		if cfg.Env == "production" && cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	case SourceS3:
		if !cfg.S3Configured() {
			return nil, fmt.Errorf("S3_ENDPOINT, S3_ACCESS_KEY and S3_SECRET_KEY must be set for the s3 source")
		}
	default:
		return nil, fmt.Errorf("CATALOG_SOURCE must be one of file, postgres, s3 (got %q)", cfg.CatalogSource)
	}

	switch strings.ToLower(cfg.CatalogFormat) {
	case "", "json", "yaml", "yml":
	default:
		return nil, fmt.Errorf("CATALOG_FORMAT must be json or yaml (got %q)", cfg.CatalogFormat)
	}

	proxies, err := parseTrustedProxies(os.Getenv("TRUSTED_PROXIES"))
	if err != nil {
		return nil, err
	}
	cfg.TrustedProxies = proxies

	if cfg.AdminTokenHash != "" && !strings.HasPrefix(cfg.AdminTokenHash, "$2") {
		return nil, fmt.Errorf("ADMIN_TOKEN_HASH must be a bcrypt hash")
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// S3Configured reports whether object storage credentials are present.
func (c *Config) S3Configured() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// parseTrustedProxies reads a comma-separated list of CIDR prefixes or
// single addresses.
func parseTrustedProxies(v string) ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for _, field := range strings.Split(v, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		if p, err := netip.ParsePrefix(field); err == nil {
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(field)
		if err != nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES: invalid address or prefix %q", field)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
