package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "civic-issue-service", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, 50.0, cfg.Geo.MaxRadiusKm)
	assert.Equal(t, 24*time.Hour, cfg.RateLimit.Window())
	assert.Equal(t, "@hourly", cfg.AutoClose.Schedule)
	assert.Equal(t, 7*24*time.Hour, cfg.AutoClose.After())
	assert.Equal(t, "migrations", cfg.Postgres.MigrationsDir)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, cfg.App.Name, cfg.Logger.Service)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("GEO_MAX_RADIUS_KM", "12.5")
	t.Setenv("RATE_LIMIT_WINDOW_MINUTES", "60")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("CLASSIFIER_RULES_PATH", "/etc/civic/rules.yaml")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")
	t.Setenv("GEO_NEARBY_LIMIT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 12.5, cfg.Geo.MaxRadiusKm)
	assert.Equal(t, time.Hour, cfg.RateLimit.Window())
	assert.False(t, cfg.Postgres.RunMigrations)
	assert.Equal(t, "/etc/civic/rules.yaml", cfg.Classifier.RulesPath)
	assert.Zero(t, cfg.App.RequestTimeout())
	assert.Equal(t, 500, cfg.Geo.NearbyLimit)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("REDIS_DB", "primary")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_DB")

	t.Setenv("REDIS_DB", "0")
	t.Setenv("GEO_MAX_RADIUS_KM", "-1")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEO_MAX_RADIUS_KM")
}
