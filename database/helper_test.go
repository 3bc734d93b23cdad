package database

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type widget struct {
	bun.BaseModel `bun:"table:widget,alias:w"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Name string `bun:"name,notnull"`
}

func init() {
	RegisterModel((*widget)(nil), 1)
}

func memoryConfig(t *testing.T) *Config {
	cfg := DefaultConfig()
	cfg.ConnectionConfig.Type = "sqlite"
	cfg.ConnectionConfig.DBName = "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	cfg.ConnectionConfig.HealthCheckInterval = 0
	return cfg
}

func connectMemory(t *testing.T) (AbstractDatabaseManager, *Config) {
	t.Helper()
	cfg := memoryConfig(t)
	manager := NewDatabaseManager(&cfg.ConnectionConfig)
	require.NoError(t, manager.Connect(context.Background()))
	t.Cleanup(func() { _ = manager.Disconnect() })
	return manager, cfg
}
