package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/lattice/pkg/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, layout.DefaultOptions(), cfg.Layout)
	assert.Equal(t, DriverFile, cfg.Store.Driver)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()

	t.Run("YAML", func(t *testing.T) {
		path := filepath.Join(dir, "lattice.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
layout:
  column_gap: 200
store:
  driver: redis
  redis:
    addr: redis:6379
    ttl: 1h
spec:
  loam: ./spec
`), 0o644))

		cfg, err := LoadFromPath(path)
		require.NoError(t, err)
		assert.Equal(t, 200.0, cfg.Layout.ColumnGap)
		assert.Equal(t, float64(layout.DefaultGridPitch), cfg.Layout.GridPitch)
		assert.Equal(t, DriverRedis, cfg.Store.Driver)
		assert.Equal(t, "redis:6379", cfg.Store.Redis.Addr)
		assert.Equal(t, time.Hour, cfg.Store.Redis.TTL)
		assert.Equal(t, "./spec", cfg.Spec.Loam)
	})

	t.Run("JSON", func(t *testing.T) {
		path := filepath.Join(dir, "lattice.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"server": {"port": 9090}, "log": {"level": "debug"}}`), 0o644))

		cfg, err := LoadFromPath(path)
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("Unknown Driver", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("store:\n  driver: etcd\n"), 0o644))

		_, err := LoadFromPath(path)
		assert.ErrorContains(t, err, "store.driver")
	})

	t.Run("Malformed", func(t *testing.T) {
		path := filepath.Join(dir, "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("layout: [1, 2"), 0o644))

		_, err := LoadFromPath(path)
		assert.ErrorContains(t, err, "parse config")
	})
}

func TestFindPath(t *testing.T) {
	dir := t.TempDir()
	explicit := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(explicit, []byte("{}"), 0o644))

	t.Setenv(EnvVar, explicit)
	assert.Equal(t, explicit, FindPath())

	t.Setenv(EnvVar, "")
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Chdir(t.TempDir())
	assert.Equal(t, "", FindPath())

	xdgPath := filepath.Join(xdg, "lattice", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(xdgPath), 0o755))
	require.NoError(t, os.WriteFile(xdgPath, []byte("{}"), 0o644))
	assert.Equal(t, xdgPath, FindPath())
}

func TestStoreKeys(t *testing.T) {
	active := strings.Repeat("ab", 32)
	old := strings.Repeat("01", 32)

	key, fallback, err := StoreConfig{}.Keys()
	require.NoError(t, err)
	assert.Nil(t, key)
	assert.Nil(t, fallback)

	key, fallback, err = StoreConfig{EncryptionKey: active, FallbackKeys: []string{old}}.Keys()
	require.NoError(t, err)
	assert.Len(t, key, 32)
	require.Len(t, fallback, 1)
	assert.Equal(t, byte(0x01), fallback[0][0])

	cfg := Default()
	cfg.Store.EncryptionKey = "abcd"
	assert.ErrorContains(t, cfg.Validate(), "store.encryption_key")

	cfg.Store.EncryptionKey = active
	cfg.Store.FallbackKeys = []string{"zz"}
	assert.ErrorContains(t, cfg.Validate(), "store.fallback_keys[0]")
}
