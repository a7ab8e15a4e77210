package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "invoicing", cfg.App.Name)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, time.Duration(0), cfg.Store.TTL)
	assert.Equal(t, "static/img/logo.png", cfg.Assets.LogoPath)
	assert.Equal(t, 30*time.Second, cfg.Chrome.RenderTimeout)
	assert.Empty(t, cfg.Company.Name, "company details default to the built-in profile downstream")
}

func TestLoad_ConfigFile(t *testing.T) {
	chdirTemp(t)

	toml := `
[app]
port = "9090"

[store]
backend = "redis"
ttl = "1h"

[company]
name = "Acme Printers"
`
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(wd, "config.toml"), []byte(toml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, time.Hour, cfg.Store.TTL)
	assert.Equal(t, "Acme Printers", cfg.Company.Name)
}

func TestLoad_EnvOverride(t *testing.T) {
	chdirTemp(t)
	t.Setenv("INV_APP_PORT", "3000")
	t.Setenv("INV_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	t.Run("rejects unknown store backend", func(t *testing.T) {
		chdirTemp(t)
		t.Setenv("INV_STORE_BACKEND", "dynamo")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "store.backend")
	})

	t.Run("rejects empty port", func(t *testing.T) {
		cfg := &Config{
			App:    AppConfig{Port: ""},
			Store:  StoreConfig{Backend: "memory"},
			Chrome: ChromeConfig{RenderTimeout: time.Second},
		}
		assert.Error(t, cfg.Validate())
	})
}
