package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds application configuration values.
type Config struct {
	Env  string `validate:"required,oneof=dev prod"`
	HTTP struct {
		Addr string `validate:"required"`
		// RateInterval is the minimum interval between requests of one client; 0 disables limiting.
		RateInterval time.Duration `validate:"min=0"`
	}
	Log struct {
		ConsoleLevel string `validate:"required,oneof=debug info warn error"`
		FileLevel    string `validate:"required,oneof=debug info warn error"`
		File         string
	}
	// CatalogFile is the YAML file with named connections and queries.
	CatalogFile string `validate:"required"`
	// DefaultParameterFormat renders parameter names for connections without a
	// cached capability, e.g. "@%s".
	DefaultParameterFormat string `validate:"required,contains=%s"`
	// HealthSchedule is a cron spec for connection health checks; empty disables them.
	HealthSchedule string
	// MigrationsDir is applied to sqlite connections of the catalog when set.
	MigrationsDir string
}

var validate = validator.New()

// Load reads configuration from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	var c Config
	c.Env = getenv("ENV", "prod")
	c.HTTP.Addr = getenv("HTTP_ADDR", ":8080")
	interval, err := time.ParseDuration(getenv("HTTP_RATE_INTERVAL", "0s"))
	if err != nil {
		return Config{}, fmt.Errorf("HTTP_RATE_INTERVAL: %w", err)
	}
	c.HTTP.RateInterval = interval
	c.Log.ConsoleLevel = strings.ToLower(getenv("LOG_CONSOLE_LEVEL", "info"))
	c.Log.FileLevel = strings.ToLower(getenv("LOG_FILE_LEVEL", "debug"))
	c.Log.File = getenv("LOG_FILE", "data/logs/sqlpager.log")
	c.CatalogFile = getenv("CATALOG_FILE", "config/catalog.yaml")
	c.DefaultParameterFormat = getenv("DEFAULT_PARAMETER_FORMAT", "@%s")
	c.HealthSchedule = getenv("HEALTH_SCHEDULE", "@every 1m")
	c.MigrationsDir = os.Getenv("MIGRATIONS_DIR")

	if err := validate.Struct(c); err != nil {
		return Config{}, err
	}
	return c, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
