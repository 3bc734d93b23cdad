package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/cars/database"
	"github.com/uptrace/bun"
)

// newTestSession opens a private in-memory SQLite database with the schema
// migrated.
func newTestSession(t *testing.T) *CrudRepository {
	t.Helper()
	ctx := context.Background()

	cfg := database.DefaultConnectionConfig()
	cfg.Type = "sqlite"
	cfg.DBName = "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	cfg.HealthCheckInterval = 0

	manager := database.NewDatabaseManager(cfg)
	require.NoError(t, manager.Connect(ctx))
	t.Cleanup(func() { _ = manager.Disconnect() })
	require.NoError(t, manager.RunMigrations(ctx, database.DefaultConfig()))

	return NewCrudRepository(manager.GetDB())
}

type mockSession struct {
	mock.Mock
}

func (m *mockSession) Select(ctx context.Context, dest interface{}, build QueryFunc) error {
	return m.Called(ctx, dest, build).Error(0)
}

func (m *mockSession) Run(ctx context.Context, fn UnitOfWork) error {
	return m.Called(ctx, fn).Error(0)
}

func (m *mockSession) Tx(ctx context.Context, fn func(ctx context.Context, db bun.IDB) (bool, error)) (bool, error) {
	args := m.Called(ctx, fn)
	return args.Bool(0), args.Error(1)
}
