package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dastanaron/bookmarks-sync/internal/config"
)

func TestLoad_DefaultsWithNoEnvFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "bookmarks.db", cfg.Storage.Path)
	assert.Equal(t, "", cfg.Uploader.Endpoint)
	assert.Equal(t, 30, cfg.Uploader.TimeoutSeconds)
}

func TestLoad_EnvFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("STORAGE_PATH=/tmp/custom.db\nUPLOADER_ENDPOINT=https://sync.example/post\n"), 0o644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/custom.db", cfg.Storage.Path)
	assert.Equal(t, "https://sync.example/post", cfg.Uploader.Endpoint)
}

func TestLoad_EnvironmentOverridesEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("STORAGE_PATH=/tmp/from-dotenv.db\n"), 0o644))

	t.Setenv("STORAGE_PATH", "/tmp/from-environment.db")

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/from-environment.db", cfg.Storage.Path)
}
