package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carsctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`database:
  connection:
    type: postgres
    host: db.internal
    port: 5432
    dbname: cars
    connect_timeout: 3s
  migrate:
    enable_foreign_key: false
  init:
    environment: dev
log:
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	conn := cfg.Database.ConnectionConfig
	assert.Equal(t, "postgres", conn.Type)
	assert.Equal(t, "db.internal", conn.Host)
	assert.Equal(t, 5432, conn.Port)
	assert.Equal(t, 3*time.Second, conn.ConnectTimeout)
	assert.Equal(t, 100, conn.MaxOpenConns)
	assert.False(t, cfg.Database.DataMigrateConfig.EnableForeignKey)
	assert.Equal(t, "dev", cfg.Database.DataInitConfig.Environment)
	assert.Equal(t, "configs/sql", cfg.Database.DataInitConfig.Filepath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CARS_DATABASE_CONNECTION_HOST", "from-env")
	t.Setenv("CARS_DATABASE_CONNECTION_SLOW_QUERY_TIME", "150ms")
	t.Setenv("CARS_LOG_FORMAT", "json")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Database.ConnectionConfig.Host)
	assert.Equal(t, 150*time.Millisecond, cfg.Database.ConnectionConfig.SlowQueryTime)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "sqlite", cfg.Database.ConnectionConfig.Type)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
