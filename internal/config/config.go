// Package config resolves service settings from the environment.
// A local .env file is loaded first when present; real environment variables win.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port         string
	DBDriver     string
	DBPath       string
	DatabaseURL  string
	SeedPath     string
	ORSAPIKey    string
	ORSBaseURL   string
	ORSProfile   string
	RedisURL     string
	GeocodeTTL   time.Duration
	LogLevel     string
	LogPretty    bool
	PersistQueue int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_PATH", "data/app.db")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SEED_PATH", "data/seeds/vehicles.json")
	v.SetDefault("ORS_API_KEY", "")
	v.SetDefault("ORS_BASE_URL", "https://api.openrouteservice.org")
	v.SetDefault("ORS_PROFILE", "driving-hgv")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("GEOCODE_TTL", "720h")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
	v.SetDefault("PERSIST_QUEUE", 256)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return v
}

// Load reads .env files (missing files are not an error) and resolves the config.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// godotenv never overrides variables that are already set.
		_ = godotenv.Load(f)
	}

	v := newViper()

	cfg := &Config{
		Port:         v.GetString("PORT"),
		DBDriver:     strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
		DBPath:       v.GetString("DB_PATH"),
		DatabaseURL:  strings.TrimSpace(v.GetString("DATABASE_URL")),
		SeedPath:     v.GetString("SEED_PATH"),
		ORSAPIKey:    strings.TrimSpace(v.GetString("ORS_API_KEY")),
		ORSBaseURL:   strings.TrimRight(v.GetString("ORS_BASE_URL"), "/"),
		ORSProfile:   v.GetString("ORS_PROFILE"),
		RedisURL:     strings.TrimSpace(v.GetString("REDIS_URL")),
		GeocodeTTL:   v.GetDuration("GEOCODE_TTL"),
		LogLevel:     v.GetString("LOG_LEVEL"),
		LogPretty:    v.GetBool("LOG_PRETTY"),
		PersistQueue: v.GetInt("PERSIST_QUEUE"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "sqlite":
		if strings.TrimSpace(c.DBPath) == "" {
			return fmt.Errorf("DB_PATH is required for the sqlite driver")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	if c.PersistQueue < 1 {
		return fmt.Errorf("PERSIST_QUEUE must be positive, got %d", c.PersistQueue)
	}
	if c.GeocodeTTL < 0 {
		return fmt.Errorf("GEOCODE_TTL must not be negative")
	}

	return nil
}

// Get returns a single environment-backed setting with a fallback.
func Get(key, fallback string) string {
	v := newViper()
	if s := strings.TrimSpace(v.GetString(key)); s != "" {
		return s
	}
	return fallback
}
