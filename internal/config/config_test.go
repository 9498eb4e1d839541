package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
reconcile:
  window_days: 7
  tolerance: 0.02
  trim_to_overlap: true
catalog:
  backend: sqlite
  path: /tmp/cat.db
storage:
  database_path: /tmp/runs.db
openai:
  enabled: true
  api_key: sk-test
  model: gpt-4o
  max_claims: 10
api:
  port: 9090
  allowed_origins:
    - http://localhost:4000
observability:
  logging:
    level: debug
    format: json
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Reconcile.WindowDays)
	assert.Equal(t, 0.02, cfg.Reconcile.Tolerance)
	assert.True(t, cfg.Reconcile.TrimToOverlap)
	assert.Equal(t, "sqlite", cfg.Catalog.Backend)
	assert.Equal(t, "/tmp/cat.db", cfg.Catalog.Path)
	assert.Equal(t, "/tmp/runs.db", cfg.Storage.DatabasePath)
	assert.True(t, cfg.OpenAI.Enabled)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, 10, cfg.OpenAI.MaxClaims)
	assert.Equal(t, 9090, cfg.API.Port)
	assert.Equal(t, []string{"http://localhost:4000"}, cfg.API.AllowedOrigins)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
	assert.Equal(t, "json", cfg.Observability.Logging.Format)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
reconcile:
  window_days: 3
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "file", cfg.Catalog.Backend)
	assert.Equal(t, "catalogo.json", cfg.Catalog.Path)
	assert.Equal(t, "conciliador.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, 50, cfg.OpenAI.MaxClaims)
	assert.Equal(t, 8080, cfg.API.Port)
	assert.Len(t, cfg.API.AllowedOrigins, 2)
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_CONCILIADOR_KEY", "sk-from-env")
	path := writeConfig(t, `
openai:
  api_key: ${TEST_CONCILIADOR_KEY}
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", cfg.OpenAI.APIKey)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("RECONCILE_WINDOW_DAYS", "9")
	t.Setenv("CATALOG_BACKEND", "sqlite")
	t.Setenv("CATALOG_PATH", "/tmp/cat.db")
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("OPENAI_MAX_CLAIMS", "12")
	t.Setenv("API_PORT", "9191")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := LoadFromEnv()

	assert.Equal(t, 9, cfg.Reconcile.WindowDays)
	assert.Equal(t, "sqlite", cfg.Catalog.Backend)
	assert.Equal(t, "/tmp/cat.db", cfg.Catalog.Path)
	assert.Equal(t, "sk-env", cfg.OpenAI.APIKey)
	assert.Equal(t, 12, cfg.OpenAI.MaxClaims)
	assert.Equal(t, 9191, cfg.API.Port)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
}

func TestLoadOrEnvWithPath_FallsBack(t *testing.T) {
	t.Setenv("RECONCILE_WINDOW_DAYS", "4")

	cfg := LoadOrEnvWithPath(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Equal(t, 4, cfg.Reconcile.WindowDays)
	assert.Equal(t, "file", cfg.Catalog.Backend)
}
