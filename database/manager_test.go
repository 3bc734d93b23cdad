package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "file::memory:?cache=shared", sqliteDSN(":memory:"))
	assert.Equal(t, "file:x?mode=memory", sqliteDSN("file:x?mode=memory"))
	assert.Equal(t, "cars.db", sqliteDSN("cars"))
	assert.True(t, isSQLiteMemory("file:x?mode=memory&cache=shared"))
	assert.False(t, isSQLiteMemory("cars.db"))
}

func TestManagerConnectSqlite(t *testing.T) {
	ctx := context.Background()
	manager, cfg := connectMemory(t)

	assert.Equal(t, 1, cfg.ConnectionConfig.MaxOpenConns)
	require.NotNil(t, manager.GetDB())
	require.NotNil(t, manager.GetSQLDB())
	assert.NoError(t, manager.Ping(ctx))

	status := manager.HealthCheck(ctx)
	assert.True(t, status.Healthy)
	assert.True(t, status.Connected)
	assert.Empty(t, status.LastError)
	assert.Equal(t, 1, status.MaxOpenConns)

	assert.Equal(t, 1, manager.GetStats().MaxOpenConns)

	require.NoError(t, manager.Disconnect())
	assert.Nil(t, manager.GetDB())
	assert.Error(t, manager.Ping(ctx))
	assert.False(t, manager.HealthCheck(ctx).Healthy)
}

func TestManagerReconnect(t *testing.T) {
	ctx := context.Background()
	manager, _ := connectMemory(t)

	require.NoError(t, manager.Reconnect(ctx))
	assert.NoError(t, manager.Ping(ctx))
}

func TestManagerUnsupportedType(t *testing.T) {
	manager := NewDatabaseManager(&ConnectionConfig{Type: "oracle"})
	err := manager.Connect(context.Background())
	assert.Error(t, err)
	assert.Nil(t, manager.GetDB())
}

func TestMySQLConfig(t *testing.T) {
	cfg := &ConnectionConfig{Host: "db", Port: 3306, Username: "cars", Password: "secret", DBName: "cars"}
	dsn := mysqlConfig(cfg).FormatDSN()

	assert.Contains(t, dsn, "cars:secret@tcp(db:3306)/cars")
	assert.Contains(t, dsn, "clientFoundRows=true")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestPostgresDSN(t *testing.T) {
	cfg := &ConnectionConfig{Host: "db", Port: 5432, Username: "cars", Password: "p@ss word", DBName: "cars"}
	dsn := postgresDSN(cfg)

	assert.Contains(t, dsn, "postgres://cars:p%40ss%20word@db:5432/cars?")
	assert.Contains(t, dsn, "sslmode=disable")

	cfg.SSLMode = "require"
	assert.Contains(t, postgresDSN(cfg), "sslmode=require")
}

func TestManagerDisconnectStopsBackgroundReconnect(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig(t)
	cfg.ConnectionConfig.MaxReconnectTries = 3
	cfg.ConnectionConfig.ReconnectInterval = 0
	dm := NewDatabaseManager(&cfg.ConnectionConfig).(*defaultDatabaseManager)
	require.NoError(t, dm.Connect(ctx))
	require.NoError(t, dm.Disconnect())

	assert.False(t, dm.tryReconnect())
	assert.Nil(t, dm.GetDB())

	attempted, err := dm.reconnectIfOpen(ctx)
	assert.False(t, attempted)
	assert.NoError(t, err)
	assert.Nil(t, dm.GetDB())

	require.NoError(t, dm.Connect(ctx))
	t.Cleanup(func() { _ = dm.Disconnect() })
	assert.True(t, dm.tryReconnect())
	assert.NotNil(t, dm.GetDB())
	assert.NoError(t, dm.Ping(ctx))
}

func TestManagerSetLoggerWhileReconnecting(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig(t)
	cfg.ConnectionConfig.MaxReconnectTries = 1
	cfg.ConnectionConfig.ReconnectInterval = 0
	dm := NewDatabaseManager(&cfg.ConnectionConfig).(*defaultDatabaseManager)
	require.NoError(t, dm.Connect(ctx))
	t.Cleanup(func() { _ = dm.Disconnect() })

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			dm.SetLogger(GetLogger())
		}
	}()
	assert.True(t, dm.tryReconnect())
	<-done

	assert.NoError(t, dm.Ping(ctx))
}
