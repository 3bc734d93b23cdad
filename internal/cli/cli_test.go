package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedSQL = `INSERT INTO owner (name) VALUES ('Ivan');
INSERT INTO owner (name) VALUES ('Maria');
INSERT INTO engine (name) VALUES ('N20');
INSERT INTO car (name, engine_id) VALUES ('BMW', 1);
INSERT INTO car (name, engine_id) VALUES ('Audi', 1);
INSERT INTO post (description, created, has_photo, car_id) VALUES ('fresh bmw', '{{.TIMESTAMP}}', 1, 1);
INSERT INTO post (description, created, has_photo, car_id) VALUES ('old audi', '2001-01-01 00:00:00', 0, 2);
INSERT INTO photo (url, post_id) VALUES ('bmw.jpg', 1);
`

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	envDir := filepath.Join(dir, "sql", "environments", "test")
	require.NoError(t, os.MkdirAll(envDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(envDir, "01_seed.sql"), []byte(seedSQL), 0o644))

	cfgPath := filepath.Join(dir, "carsctl.yaml")
	cfg := fmt.Sprintf(`database:
  connection:
    type: sqlite
    dbname: %s
  migrate:
    enable_foreign_key: true
  init:
    filepath: %s
    environment: prod
log:
  level: warn
`, filepath.Join(dir, "cars"), filepath.Join(dir, "sql"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return cfgPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	cfg := writeFixture(t)

	out, err := run(t, "--config", cfg, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "001\tcreate_base_tables")
	assert.Contains(t, out, "002\tadd_foreign_keys")

	_, err = run(t, "--config", cfg, "seed", "--env", "test")
	require.NoError(t, err)

	out, err = run(t, "--config", cfg, "owners", "list")
	require.NoError(t, err)
	assert.Equal(t, "1\tIvan\n2\tMaria\n", out)

	out, err = run(t, "--config", cfg, "posts", "last-day")
	require.NoError(t, err)
	assert.Contains(t, out, "fresh bmw")
	assert.NotContains(t, out, "old audi")

	out, err = run(t, "--config", cfg, "posts", "with-photos")
	require.NoError(t, err)
	assert.Contains(t, out, "\tBMW\tphotos=1\tfresh bmw")
	assert.NotContains(t, out, "old audi")

	out, err = run(t, "--config", cfg, "--log-level", "error", "posts", "by-brand", "Audi")
	require.NoError(t, err)
	assert.Contains(t, out, "\tAudi\tphotos=0\told audi")
	assert.NotContains(t, out, "fresh bmw")

	out, err = run(t, "--config", cfg, "health")
	require.NoError(t, err)
	assert.Contains(t, out, "UP")
}

func TestCommandErrors(t *testing.T) {
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "owners", "list")
	assert.Error(t, err)

	cfg := writeFixture(t)
	_, err = run(t, "--config", cfg, "posts", "by-brand")
	assert.Error(t, err)
}
