package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrationsCreatesTables(t *testing.T) {
	ctx := context.Background()
	manager, cfg := connectMemory(t)

	require.NoError(t, manager.RunMigrations(ctx, cfg))
	require.NoError(t, manager.RunMigrations(ctx, cfg))

	db := manager.GetDB()
	_, err := db.NewInsert().Model(&widget{Name: "gear"}).Exec(ctx)
	require.NoError(t, err)

	applied, err := NewMigrationManager(db, nil, cfg).GetAppliedMigrations(ctx)
	require.NoError(t, err)
	require.Len(t, applied, 1)
	assert.Equal(t, "001", applied[0].Version)
	assert.Equal(t, "create_base_tables", applied[0].Name)
}

func TestRunMigrationsWithForeignKeysAndSeed(t *testing.T) {
	ctx := context.Background()
	manager, cfg := connectMemory(t)

	root := t.TempDir()
	common := filepath.Join(root, "common")
	require.NoError(t, os.MkdirAll(common, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(common, "01_widgets.sql"),
		[]byte("INSERT INTO widget (name) VALUES ('seeded');\n"), 0o644))

	cfg.DataMigrateConfig.EnableForeignKey = true
	cfg.DataInitConfig.AutoInitOnMigration = true
	cfg.DataInitConfig.Filepath = root
	require.NoError(t, manager.RunMigrations(ctx, cfg))

	applied, err := NewMigrationManager(manager.GetDB(), nil, cfg).GetAppliedMigrations(ctx)
	require.NoError(t, err)
	require.Len(t, applied, 3)
	assert.Equal(t, []string{"001", "002", "003"}, []string{applied[0].Version, applied[1].Version, applied[2].Version})

	count, err := manager.GetDB().NewSelect().Model((*widget)(nil)).Where("name = ?", "seeded").Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRunMigrationsNotConnected(t *testing.T) {
	manager := NewDatabaseManager(DefaultConnectionConfig())
	assert.Error(t, manager.RunMigrations(context.Background(), DefaultConfig()))
	assert.Error(t, manager.InitData(context.Background(), DefaultConfig()))
}

func TestInitDataFailureRollsBackFile(t *testing.T) {
	ctx := context.Background()
	manager, cfg := connectMemory(t)
	require.NoError(t, manager.RunMigrations(ctx, cfg))

	root := t.TempDir()
	env := filepath.Join(root, "environments", "dev")
	require.NoError(t, os.MkdirAll(env, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(env, "01_broken.sql"),
		[]byte("INSERT INTO widget (name) VALUES ('partial');\nINSERT INTO missing_table VALUES (1);\n"), 0o644))

	cfg.DataInitConfig.Filepath = root
	cfg.DataInitConfig.Environment = "dev"
	assert.Error(t, manager.InitData(ctx, cfg))

	count, err := manager.GetDB().NewSelect().Model((*widget)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
