package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"ENV", "HTTP_ADDR", "LOG_CONSOLE_LEVEL", "LOG_FILE_LEVEL", "LOG_FILE",
		"CATALOG_FILE", "DEFAULT_PARAMETER_FORMAT", "HEALTH_SCHEDULE", "MIGRATIONS_DIR", "HTTP_RATE_INTERVAL"} {
		t.Setenv(k, "")
	}

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "prod", c.Env)
	assert.Equal(t, ":8080", c.HTTP.Addr)
	assert.Zero(t, c.HTTP.RateInterval)
	assert.Equal(t, "info", c.Log.ConsoleLevel)
	assert.Equal(t, "debug", c.Log.FileLevel)
	assert.Equal(t, "data/logs/sqlpager.log", c.Log.File)
	assert.Equal(t, "config/catalog.yaml", c.CatalogFile)
	assert.Equal(t, "@%s", c.DefaultParameterFormat)
	assert.Equal(t, "@every 1m", c.HealthSchedule)
	assert.Empty(t, c.MigrationsDir)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("ENV", "dev")
	t.Setenv("HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("LOG_CONSOLE_LEVEL", "DEBUG")
	t.Setenv("DEFAULT_PARAMETER_FORMAT", ":%s")
	t.Setenv("CATALOG_FILE", "/etc/sqlpager/catalog.yaml")
	t.Setenv("MIGRATIONS_DIR", "migrations/sqlite")
	t.Setenv("HTTP_RATE_INTERVAL", "250ms")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", c.Env)
	assert.Equal(t, "127.0.0.1:9000", c.HTTP.Addr)
	assert.Equal(t, "debug", c.Log.ConsoleLevel)
	assert.Equal(t, ":%s", c.DefaultParameterFormat)
	assert.Equal(t, "/etc/sqlpager/catalog.yaml", c.CatalogFile)
	assert.Equal(t, "migrations/sqlite", c.MigrationsDir)
	assert.Equal(t, 250*time.Millisecond, c.HTTP.RateInterval)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown env", "ENV", "staging"},
		{"unknown level", "LOG_FILE_LEVEL", "trace"},
		{"format without placeholder", "DEFAULT_PARAMETER_FORMAT", "@name"},
		{"bad rate interval", "HTTP_RATE_INTERVAL", "often"},
		{"negative rate interval", "HTTP_RATE_INTERVAL", "-1s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
