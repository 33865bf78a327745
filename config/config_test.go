// config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const minimalYAML = `
base_url: "https://example.org/api/"
headers: [location_code, source]
description: "Languages of {countryname}"
`

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML), t.TempDir())
	require.NoError(t, err)

	require.Equal(t, "https://example.org/api/", cfg.BaseURL)
	require.Equal(t, []string{"location_code", "date_creation"}, cfg.LocationFields)
	require.Equal(t, 60*time.Second, cfg.Fetch.Timeout)
	require.Equal(t, time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC), cfg.State.DefaultWatermark)
	require.True(t, cfg.State.Rollback())
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "state.db", cfg.Database.Path)
	require.Equal(t, "output", cfg.OutputDir)
}

func TestParseRequiresBaseURLAndHeaders(t *testing.T) {
	_, err := Parse([]byte(`headers: [a]`), t.TempDir())
	require.ErrorContains(t, err, "base_url")

	_, err = Parse([]byte(`base_url: "x"`), t.TempDir())
	require.ErrorContains(t, err, "headers")
}

func TestParseExplicitValues(t *testing.T) {
	raw := minimalYAML + `
fetch:
  timeout: "5s"
state:
  default_watermark: "2020-06-30"
  rollback_on_failure: false
`
	cfg, err := Parse([]byte(raw), t.TempDir())
	require.NoError(t, err)
	require.Equal(t, 5*time.Second, cfg.Fetch.Timeout)
	require.Equal(t, time.Date(2020, 6, 30, 0, 0, 0, 0, time.UTC), cfg.State.DefaultWatermark)
	require.False(t, cfg.State.Rollback())

	_, err = Parse([]byte(minimalYAML+"\nfetch:\n  timeout: soon\n"), t.TempDir())
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CLEARGLOBAL_BASE_URL", "https://override.example/")
	t.Setenv("CLEARGLOBAL_DB_DRIVER", "mysql")

	cfg, err := Parse([]byte(minimalYAML), t.TempDir())
	require.NoError(t, err)
	require.Equal(t, "https://override.example/", cfg.BaseURL)
	require.Equal(t, "mysql", cfg.Database.Driver)
	require.Empty(t, cfg.Database.Path)
}

func TestDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CLEARGLOBAL_OUTPUT_DIR=from-dotenv\n"), 0o600))
	t.Setenv("CLEARGLOBAL_OUTPUT_DIR", "")
	os.Unsetenv("CLEARGLOBAL_OUTPUT_DIR")

	cfg, err := Parse([]byte(minimalYAML), dir)
	require.NoError(t, err)
	require.Equal(t, "from-dotenv", cfg.OutputDir)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalYAML), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, []string{"location_code", "source"}, cfg.Headers)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
