package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultAPIVersion, cfg.APIVersion)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultChunkSize, cfg.ChunkSize)
	assert.Equal(t, "auto", cfg.Format)
}

func TestAPIBase(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "https://api.chino.io/v1", cfg.APIBase())

	cfg.BaseURL = "https://api.test.chino.io/"
	cfg.APIVersion = "v2"
	assert.Equal(t, "https://api.test.chino.io/v2", cfg.APIBase())
}

func TestLoadFromJSONFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"base_url": "https://api.test.chino.io",
		"timeout": 5,
		"chunk_size": 4096,
		"customer_id": "cust-1"
	}`), 0o600))

	cfg := Default()
	loadFromFile(cfg, path, SourceGlobal)

	assert.Equal(t, "https://api.test.chino.io", cfg.BaseURL)
	assert.Equal(t, 5, cfg.Timeout)
	assert.Equal(t, 4096, cfg.ChunkSize)
	assert.Equal(t, "cust-1", cfg.CustomerID)
	assert.Equal(t, string(SourceGlobal), cfg.Sources["base_url"])
}

func TestLoadFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"base_url: https://api.test.chino.io\ntimeout: 10\nclient_id: app-1\n"), 0o600))

	cfg := Default()
	loadFromFile(cfg, path, SourceGlobal)

	assert.Equal(t, "https://api.test.chino.io", cfg.BaseURL)
	assert.Equal(t, 10, cfg.Timeout)
	assert.Equal(t, "app-1", cfg.ClientID)
}

func TestLocalConfigCannotSetBaseURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"base_url": "https://evil.example.com", "timeout": 7}`), 0o600))

	cfg := Default()
	loadFromFile(cfg, path, SourceLocal)

	assert.Equal(t, DefaultBaseURL, cfg.BaseURL, "local config must not redirect authenticated traffic")
	assert.Equal(t, 7, cfg.Timeout, "non-authority keys still load from local config")
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CHINO_BASE_URL", "https://api.env.chino.io")
	t.Setenv("CHINO_TIMEOUT", "15")
	t.Setenv("CHINO_CUSTOMER_ID", "cust-env")
	t.Setenv("CHINO_CUSTOMER_KEY", "key-env")

	cfg := Default()
	LoadFromEnv(cfg)

	assert.Equal(t, "https://api.env.chino.io", cfg.BaseURL)
	assert.Equal(t, 15, cfg.Timeout)
	assert.Equal(t, "cust-env", cfg.CustomerID)
	assert.Equal(t, "key-env", cfg.CustomerKey)
	assert.Equal(t, string(SourceEnv), cfg.Sources["base_url"])
}

func TestLoadFromEnvIgnoresBadNumbers(t *testing.T) {
	t.Setenv("CHINO_TIMEOUT", "not-a-number")
	t.Setenv("CHINO_CHUNK_SIZE", "-1")

	cfg := Default()
	LoadFromEnv(cfg)

	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultChunkSize, cfg.ChunkSize)
}

func TestApplyOverrides(t *testing.T) {
	cfg := Default()
	ApplyOverrides(cfg, FlagOverrides{
		BaseURL:   "https://api.flag.chino.io",
		Timeout:   3,
		ChunkSize: 1024,
	})

	assert.Equal(t, "https://api.flag.chino.io", cfg.BaseURL)
	assert.Equal(t, 3, cfg.Timeout)
	assert.Equal(t, 1024, cfg.ChunkSize)
	assert.Equal(t, string(SourceFlag), cfg.Sources["base_url"])
}

func TestOverridePrecedence(t *testing.T) {
	t.Setenv("CHINO_TIMEOUT", "15")

	cfg := Default()
	LoadFromEnv(cfg)
	ApplyOverrides(cfg, FlagOverrides{Timeout: 3})

	assert.Equal(t, 3, cfg.Timeout, "flags override env")
}

func TestNormalizeBaseURL(t *testing.T) {
	assert.Equal(t, "https://api.chino.io", NormalizeBaseURL("https://api.chino.io/"))
	assert.Equal(t, "https://api.chino.io", NormalizeBaseURL("https://api.chino.io"))
}
