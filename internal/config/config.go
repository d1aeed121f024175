// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file
// when present), loads them into structured Go types, and validates
// that required values are present so they can be reused across the
// application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for every block, including observability.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it gets loaded into the
	// process env before any config is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read in three layers, later layers win:

	1. built-in defaults (confmap)
	2. plain aliases kept for deployments that predate the prefix:
	   PORT, DATABASE_URL, DATABASE_NAME
	3. prefixed variables: SHOPBUILDER_<SECTION>__<KEY>

	Keys are lowercased and "__" separates nesting levels, e.g.
	SHOPBUILDER_SERVER__PORT -> server.port -> Config.Server.Port
*/

const (
	envPrefix = "SHOPBUILDER_"
	delimiter = "."
)

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are whole seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// RateLimit is the sustained requests per second allowed per client IP.
	// Zero disables rate limiting.
	RateLimit float64 `koanf:"rate_limit" validate:"gte=0"`
	RateBurst int     `koanf:"rate_burst" validate:"gte=0"`
}

// DatabaseConfig contains MongoDB connection parameters and pool tuning.
type DatabaseConfig struct {
	URL            string        `koanf:"url" validate:"required"`
	Name           string        `koanf:"name" validate:"required"`
	ConnectTimeout time.Duration `koanf:"connect_timeout" validate:"required"`
	MaxPoolSize    uint64        `koanf:"max_pool_size"`

	// URLFromEnv is true when the URL was supplied rather than defaulted.
	URLFromEnv bool `koanf:"-"`
}

// RedisConfig contains Redis connection details.
// Address is "host:port". Empty disables Redis entirely.
type RedisConfig struct {
	Address string `koanf:"address"`
}

func defaults() map[string]any {
	return map[string]any{
		"primary.env": "development",

		"server.port":                 "8000",
		"server.read_timeout":         10,
		"server.write_timeout":        10,
		"server.idle_timeout":         60,
		"server.cors_allowed_origins": []string{"*"},
		"server.rate_limit":           20,
		"server.rate_burst":           40,

		"database.url":             "mongodb://localhost:27017",
		"database.name":            "shopbuilder",
		"database.connect_timeout": "10s",
		"database.max_pool_size":   100,
	}
}

// aliases maps the unprefixed variable names to their koanf keys.
var aliases = map[string]string{
	"PORT":          "server.port",
	"DATABASE_URL":  "database.url",
	"DATABASE_NAME": "database.name",
}

// listKeys are comma-separated in the environment.
var listKeys = map[string]bool{
	"server.cors_allowed_origins":        true,
	"observability.health_checks.checks": true,
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LoadConfig loads configuration from defaults and environment variables,
// unmarshals it into Config, validates it, applies observability defaults,
// and returns the resulting config.
func LoadConfig() (*Config, error) {
	k := koanf.New(delimiter)

	if err := k.Load(confmap.Provider(defaults(), delimiter), nil); err != nil {
		return nil, fmt.Errorf("could not load config defaults: %w", err)
	}

	// Returning "" as the key tells koanf to skip the variable. Empty
	// values are skipped too so an unset-but-exported var keeps the default.
	err := k.Load(env.ProviderWithValue("", delimiter, func(key, value string) (string, any) {
		if value == "" {
			return "", nil
		}
		return aliases[key], value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env aliases: %w", err)
	}

	err = k.Load(env.ProviderWithValue(envPrefix, delimiter, func(key, value string) (string, any) {
		if value == "" {
			return "", nil
		}
		key = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, envPrefix)), "__", delimiter)
		if listKeys[key] {
			return key, splitList(value)
		}
		return key, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}
	mainConfig.Database.URLFromEnv = os.Getenv("DATABASE_URL") != "" || os.Getenv(envPrefix+"DATABASE__URL") != ""

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Fill in missing observability values field by field so a single
	// override (e.g. log level) doesn't wipe the remaining defaults.
	mainConfig.Observability = mainConfig.Observability.withDefaults()

	// Service name is fixed; environment always follows primary.env so
	// logs and traces are tagged consistently.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// IsLocal reports whether the process runs on a developer machine.
// Local mode turns on verbose driver logging.
func (c *Config) IsLocal() bool {
	return c.Primary.Env == "local"
}
