package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv_Defaults(t *testing.T) {
	cfg := LoadEnv()

	assert.Equal(t, ":8080", cfg.Server.HTTPPort)
	assert.Equal(t, "omnipos_storefront", cfg.Postgres.DBName)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TokenTTL())
	assert.False(t, cfg.Redis.Enabled)
	assert.True(t, cfg.Server.IsDevelopment())
}

func TestLoadEnv_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", ":9000")
	t.Setenv("POSTGRES_MAX_OPEN_CONNS", "25")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("OTEL_SAMPLE_RATIO", "0.25")
	t.Setenv("POSTGRES_MAX_IDLE_CONNS", "not-a-number")

	cfg := LoadEnv()

	assert.Equal(t, ":9000", cfg.Server.HTTPPort)
	assert.Equal(t, 25, cfg.Postgres.MaxOpenConns)
	assert.Equal(t, 5, cfg.Postgres.MaxIdleConns)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.InDelta(t, 0.25, cfg.Telemetry.SampleRatio, 1e-9)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  app_env: production
  http_port: ":7070"
postgres:
  host: db.internal
stripe:
  currency: usd
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("POSTGRES_HOST", "db.override")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Server.AppEnv)
	assert.False(t, cfg.Server.IsDevelopment())
	assert.Equal(t, ":7070", cfg.Server.HTTPPort)
	assert.Equal(t, "db.override", cfg.Postgres.Host)
	assert.Equal(t, "usd", cfg.Stripe.Currency)
	assert.Equal(t, "5432", cfg.Postgres.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
