package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "propscout", cfg.App.Name)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30, cfg.NBA.TimeoutSeconds)
	assert.True(t, cfg.Redis.Enabled)
}

func TestLoadFromFileWithEnvExpansion(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "s3cret")

	yaml := `
app:
  log_level: debug
database:
  host: db.internal
  port: 5433
  password: ${TEST_DB_PASSWORD}
odds:
  enabled: true
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.True(t, cfg.Odds.Enabled)

	dsn := cfg.Database.DSN()
	assert.Contains(t, dsn, "host=db.internal")
	assert.Contains(t, dsn, "port=5433")
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("PROPSCOUT_SERVER_PORT", "9090")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
}
