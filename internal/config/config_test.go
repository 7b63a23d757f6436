package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
storage:
  driver: memory
  children:
    - id: 6f1c2a52-0d4e-4d8e-9a3e-1c5b0e2f7a10
      parent_id: 0b8e6a0c-3c41-4c53-b8a5-9a7f2f1d6e22
      display_name: Mia
jwt:
  secret_key: test
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	require.Len(t, cfg.Storage.Children, 1)
	assert.Equal(t, "Mia", cfg.Storage.Children[0].DisplayName)
	assert.Equal(t, "0b8e6a0c-3c41-4c53-b8a5-9a7f2f1d6e22", cfg.Storage.Children[0].ParentID.String())
	assert.Equal(t, "localhost:8081", cfg.HTTPServer.Address)
	assert.Equal(t, 5*time.Second, cfg.HTTPServer.Timeout)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 10*time.Minute, cfg.Redis.TreeTTL)
	assert.Equal(t, "courses", cfg.ES.Index)
	assert.Equal(t, "media", cfg.Minio.MediaBucket)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "env: dev\n")
	t.Setenv("ENV", "prod")
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
}
