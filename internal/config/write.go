package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// writableKeys are the keys config set accepts. Secrets are excluded:
// they travel through env vars or the keyring, never a config file.
var writableKeys = map[string]bool{
	"base_url":    true,
	"api_version": true,
	"timeout":     true,
	"chunk_size":  true,
	"customer_id": true,
	"client_id":   true,
	"format":      true,
}

// SetGlobal writes one key into the global JSON config file, creating
// the file if it does not exist. Returns the file path written.
func SetGlobal(key, value string) (string, error) {
	if !writableKeys[key] {
		return "", fmt.Errorf("unknown or non-writable config key %q", key)
	}

	dir := GlobalConfigDir()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	path := filepath.Join(dir, "config.json")

	fields := make(map[string]any)
	if data, err := os.ReadFile(path); err == nil { //nolint:gosec // G304: trusted config location
		if err := json.Unmarshal(data, &fields); err != nil {
			return "", fmt.Errorf("existing config at %s is malformed: %w", path, err)
		}
	}

	switch key {
	case "timeout", "chunk_size":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return "", fmt.Errorf("%s must be a positive integer, got %q", key, value)
		}
		fields[key] = n
	default:
		fields[key] = value
	}

	data, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// Get returns the effective value of one config key as a string, with
// the source it came from.
func (c *Config) Get(key string) (value, source string, err error) {
	switch key {
	case "base_url":
		value = c.BaseURL
	case "api_version":
		value = c.APIVersion
	case "timeout":
		value = strconv.Itoa(c.Timeout)
	case "chunk_size":
		value = strconv.Itoa(c.ChunkSize)
	case "customer_id":
		value = c.CustomerID
	case "client_id":
		value = c.ClientID
	case "format":
		value = c.Format
	default:
		return "", "", fmt.Errorf("unknown config key %q", key)
	}
	source = c.Sources[key]
	if source == "" {
		source = string(SourceDefault)
	}
	return value, source, nil
}
