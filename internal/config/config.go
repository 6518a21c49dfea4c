// Package config loads acorn-sports settings from the environment (and an optional
// .env file). Scan bounds, TTLs and concurrency limits are named settings rather than
// constants so deployments can tune them without a rebuild.
package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// Upstream athletics site
	BaseURL         string        `envconfig:"ATHLETICS_BASE_URL" default:"https://haverfordathletics.com"`
	ScheduleTxtPath string        `envconfig:"SCHEDULE_TXT_PATH" default:"/services/schedule_txt.ashx"`
	UserAgent       string        `envconfig:"USER_AGENT" default:"acorn-sports/1.0"`
	HTTPTimeout     time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s"`
	HTTPRetryMax    int           `envconfig:"HTTP_RETRY_MAX" default:"2"`

	// Schedule ID discovery
	ScanIDMin        int `envconfig:"SCAN_ID_MIN" default:"370"`
	ScanIDMax        int `envconfig:"SCAN_ID_MAX" default:"410"`
	ProbeConcurrency int `envconfig:"PROBE_CONCURRENCY" default:"40"`

	// Caching
	IDMapTTL     time.Duration `envconfig:"ID_MAP_TTL" default:"24h"`
	UpcomingTTL  time.Duration `envconfig:"UPCOMING_TTL" default:"10m"`
	PageCacheTTL time.Duration `envconfig:"PAGE_CACHE_TTL" default:"1h"`
	CacheBackend string        `envconfig:"CACHE_BACKEND" default:"memory"`
	RedisURL     string        `envconfig:"REDIS_URL" default:""`
	CacheDir     string        `envconfig:"CACHE_DIR" default:"~/.cache/acorn-sports"`

	// Normalization
	HomeInstitution string `envconfig:"HOME_INSTITUTION" default:"haverford"`
	HomeTimezone    string `envconfig:"HOME_TIMEZONE" default:"America/New_York"`
	LogoStrategy    string `envconfig:"LOGO_STRATEGY" default:"regex"`

	// Capacity collaborator
	DatabaseURL string        `envconfig:"DATABASE_URL" default:""`
	CapacityTTL time.Duration `envconfig:"CAPACITY_TTL" default:"5s"`

	// Serving
	ListenAddr  string `envconfig:"LISTEN_ADDR" default:":8080"`
	CORSOrigins string `envconfig:"CORS_ORIGINS" default:"*"`
	WarmCron    string `envconfig:"WARM_CRON" default:""`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load loads configuration from environment variables.
// A .env file in the working directory is read first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks cross-field constraints
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("ATHLETICS_BASE_URL is required")
	}
	if c.ScanIDMin <= 0 || c.ScanIDMax < c.ScanIDMin {
		return fmt.Errorf("invalid scan range %d..%d", c.ScanIDMin, c.ScanIDMax)
	}
	if c.ProbeConcurrency < 0 {
		return fmt.Errorf("PROBE_CONCURRENCY must not be negative")
	}
	switch c.CacheBackend {
	case "memory":
	case "file":
		if c.CacheDir == "" {
			return fmt.Errorf("CACHE_DIR is required when CACHE_BACKEND=file")
		}
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when CACHE_BACKEND=redis")
		}
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q (must be memory, file or redis)", c.CacheBackend)
	}
	switch c.LogoStrategy {
	case "regex", "dom":
	default:
		return fmt.Errorf("unknown LOGO_STRATEGY %q (must be regex or dom)", c.LogoStrategy)
	}
	if _, err := time.LoadLocation(c.HomeTimezone); err != nil {
		return fmt.Errorf("HOME_TIMEZONE: %w", err)
	}
	return nil
}

// ScheduleTxtURL returns the text export endpoint
func (c *Config) ScheduleTxtURL() string {
	return strings.TrimRight(c.BaseURL, "/") + c.ScheduleTxtPath
}

// Location returns the home timezone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.HomeTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// CORSOriginList splits CORS_ORIGINS on commas
func (c *Config) CORSOriginList() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
