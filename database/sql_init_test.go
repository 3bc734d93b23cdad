package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSQL(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestGetSQLFilesOrder(t *testing.T) {
	root := t.TempDir()
	writeSQL(t, filepath.Join(root, "common"), "10_b.sql", "")
	writeSQL(t, filepath.Join(root, "common"), "02_a.sql", "")
	writeSQL(t, filepath.Join(root, "common"), "readme.txt", "")
	writeSQL(t, filepath.Join(root, "common"), "extra.sql", "")
	writeSQL(t, filepath.Join(root, "environments", "test"), "01_env.sql", "")
	writeSQL(t, filepath.Join(root, "environments", "prod"), "01_prod.sql", "")

	m := NewSQLInitManager(nil, "test", nil)
	m.SetSQLRootPath(root)
	files, err := m.GetSQLFiles()
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"02_a.sql", "10_b.sql", "extra.sql", "01_env.sql"}, names)
	assert.Equal(t, "test", files[3].Environment)
}

func TestGetSQLFilesMissingRoot(t *testing.T) {
	m := NewSQLInitManager(nil, "prod", nil)
	m.SetSQLRootPath(filepath.Join(t.TempDir(), "absent"))
	files, err := m.GetSQLFiles()
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.NoError(t, m.ExecuteInitialization(context.Background()))
}

func TestParseFileOrder(t *testing.T) {
	assert.Equal(t, 1, parseFileOrder("01_owners.sql"))
	assert.Equal(t, 120, parseFileOrder("120_posts.sql"))
	assert.Equal(t, 999, parseFileOrder("posts.sql"))
}

func TestSplitSQLStatements(t *testing.T) {
	content := `-- owners
INSERT INTO owner (name)
VALUES ('a');

INSERT INTO owner (name) VALUES ('b');
UPDATE owner SET name = 'c'`
	statements := splitSQLStatements(content)
	assert.Equal(t, []string{
		"INSERT INTO owner (name) VALUES ('a');",
		"INSERT INTO owner (name) VALUES ('b');",
		"UPDATE owner SET name = 'c'",
	}, statements)
}

func TestReplaceEnvVariables(t *testing.T) {
	t.Setenv("CARS_SEED_OWNER", "Oleg")
	m := NewSQLInitManager(nil, "dev", nil)

	out, err := m.replaceEnvVariables("INSERT INTO owner (name) VALUES ('{{.CARS_SEED_OWNER}}-{{.ENVIRONMENT}}{{.UNSET_VARIABLE}}');")
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO owner (name) VALUES ('Oleg-dev');", out)

	_, err = m.replaceEnvVariables("{{.broken")
	assert.Error(t, err)
}

func TestExecuteInitialization(t *testing.T) {
	ctx := context.Background()
	manager, cfg := connectMemory(t)
	require.NoError(t, manager.RunMigrations(ctx, cfg))

	root := t.TempDir()
	writeSQL(t, filepath.Join(root, "common"), "01_widgets.sql",
		"INSERT INTO widget (name) VALUES ('one');\nINSERT INTO widget (name) VALUES ('{{.ENVIRONMENT}}');\n")

	m := NewSQLInitManager(manager.GetDB(), "staging", nil)
	m.SetSQLRootPath(root)
	require.NoError(t, m.ExecuteInitialization(ctx))

	var names []string
	require.NoError(t, manager.GetDB().NewSelect().Model((*widget)(nil)).Column("name").Order("id").Scan(ctx, &names))
	assert.Equal(t, []string{"one", "staging"}, names)
}
