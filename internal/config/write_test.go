package config

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGlobalCreatesAndMergesFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path, err := SetGlobal("format", "json")
	require.NoError(t, err)

	_, err = SetGlobal("timeout", "60")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, "json", fields["format"])
	assert.Equal(t, float64(60), fields["timeout"])
}

func TestSetGlobalRejectsUnknownAndSecretKeys(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	_, err := SetGlobal("nope", "x")
	assert.Error(t, err)

	// Secrets must never land in a config file.
	_, err = SetGlobal("customer_key", "s3cret")
	assert.Error(t, err)
	_, err = SetGlobal("client_secret", "s3cret")
	assert.Error(t, err)
}

func TestSetGlobalValidatesIntegers(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	_, err := SetGlobal("chunk_size", "not-a-number")
	assert.Error(t, err)
	_, err = SetGlobal("timeout", "-5")
	assert.Error(t, err)
}

func TestConfigGet(t *testing.T) {
	cfg := Default()
	cfg.BaseURL = "https://api.example.test"
	cfg.Sources["base_url"] = string(SourceEnv)

	value, source, err := cfg.Get("base_url")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.test", value)
	assert.Equal(t, string(SourceEnv), source)

	value, source, err = cfg.Get("timeout")
	require.NoError(t, err)
	assert.Equal(t, "30", value)
	assert.Equal(t, string(SourceDefault), source)

	_, _, err = cfg.Get("nope")
	assert.Error(t, err)
}
