// Package config provides layered configuration loading.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults for the API surface.
const (
	DefaultBaseURL    = "https://api.chino.io"
	DefaultAPIVersion = "v1"
	DefaultTimeout    = 30        // seconds
	DefaultChunkSize  = 12 * 1024 // bytes per upload chunk
)

// Config holds the resolved configuration.
type Config struct {
	// API settings
	BaseURL    string `json:"base_url" yaml:"base_url"`
	APIVersion string `json:"api_version" yaml:"api_version"`
	Timeout    int    `json:"timeout" yaml:"timeout"`
	ChunkSize  int    `json:"chunk_size" yaml:"chunk_size"`

	// Identity settings
	CustomerID   string `json:"customer_id" yaml:"customer_id"`
	CustomerKey  string `json:"-" yaml:"-"` // env/flag only, never persisted
	ClientID     string `json:"client_id" yaml:"client_id"`
	ClientSecret string `json:"-" yaml:"-"` // env/flag only, never persisted

	// Output settings
	Format string `json:"format" yaml:"format"`

	// Sources tracks where each value came from (for debugging).
	Sources map[string]string `json:"-" yaml:"-"`
}

// Source indicates where a config value came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceSystem  Source = "system"
	SourceGlobal  Source = "global"
	SourceLocal   Source = "local"
	SourceEnv     Source = "env"
	SourceFlag    Source = "flag"
)

// FlagOverrides holds command-line flag values.
type FlagOverrides struct {
	BaseURL    string
	APIVersion string
	Timeout    int
	ChunkSize  int
	CustomerID string
	ClientID   string
	Format     string
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		BaseURL:    DefaultBaseURL,
		APIVersion: DefaultAPIVersion,
		Timeout:    DefaultTimeout,
		ChunkSize:  DefaultChunkSize,
		Format:     "auto",
		Sources:    make(map[string]string),
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence: flags > env > local > global > system > defaults
func Load(overrides FlagOverrides) (*Config, error) {
	cfg := Default()

	loadFromFile(cfg, systemConfigPath(), SourceSystem)
	for _, p := range globalConfigPaths() {
		loadFromFile(cfg, p, SourceGlobal)
	}
	for _, p := range localConfigPaths() {
		loadFromFile(cfg, p, SourceLocal)
	}

	LoadFromEnv(cfg)
	ApplyOverrides(cfg, overrides)

	return cfg, nil
}

func loadFromFile(cfg *Config, path string, source Source) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Path is from trusted config locations
	if err != nil {
		return // File doesn't exist, skip
	}

	var fileCfg map[string]any
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		err = yaml.Unmarshal(data, &fileCfg)
	} else {
		err = json.Unmarshal(data, &fileCfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: skipping malformed config at %s: %v\n", path, err)
		return
	}

	// base_url controls where credentials are sent; local config in a checked
	// out directory must not redirect authenticated traffic.
	if v, ok := fileCfg["base_url"].(string); ok && v != "" {
		if source == SourceLocal {
			fmt.Fprintf(os.Stderr, "warning: ignoring base_url %q from local config at %s\n", v, path)
		} else {
			cfg.BaseURL = v
			cfg.Sources["base_url"] = string(source)
		}
	}
	if v, ok := fileCfg["api_version"].(string); ok && v != "" {
		cfg.APIVersion = v
		cfg.Sources["api_version"] = string(source)
	}
	if v, ok := asInt(fileCfg["timeout"]); ok && v > 0 {
		cfg.Timeout = v
		cfg.Sources["timeout"] = string(source)
	}
	if v, ok := asInt(fileCfg["chunk_size"]); ok && v > 0 {
		cfg.ChunkSize = v
		cfg.Sources["chunk_size"] = string(source)
	}
	if v, ok := fileCfg["customer_id"].(string); ok && v != "" {
		cfg.CustomerID = v
		cfg.Sources["customer_id"] = string(source)
	}
	if v, ok := fileCfg["client_id"].(string); ok && v != "" {
		cfg.ClientID = v
		cfg.Sources["client_id"] = string(source)
	}
	if v, ok := fileCfg["format"].(string); ok && v != "" {
		cfg.Format = v
		cfg.Sources["format"] = string(source)
	}
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("CHINO_BASE_URL"); v != "" {
		cfg.BaseURL = v
		cfg.Sources["base_url"] = string(SourceEnv)
	}
	if v := os.Getenv("CHINO_API_VERSION"); v != "" {
		cfg.APIVersion = v
		cfg.Sources["api_version"] = string(SourceEnv)
	}
	if v := os.Getenv("CHINO_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Timeout = n
			cfg.Sources["timeout"] = string(SourceEnv)
		}
	}
	if v := os.Getenv("CHINO_CHUNK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ChunkSize = n
			cfg.Sources["chunk_size"] = string(SourceEnv)
		}
	}
	if v := os.Getenv("CHINO_CUSTOMER_ID"); v != "" {
		cfg.CustomerID = v
		cfg.Sources["customer_id"] = string(SourceEnv)
	}
	if v := os.Getenv("CHINO_CUSTOMER_KEY"); v != "" {
		cfg.CustomerKey = v
		cfg.Sources["customer_key"] = string(SourceEnv)
	}
	if v := os.Getenv("CHINO_CLIENT_ID"); v != "" {
		cfg.ClientID = v
		cfg.Sources["client_id"] = string(SourceEnv)
	}
	if v := os.Getenv("CHINO_CLIENT_SECRET"); v != "" {
		cfg.ClientSecret = v
		cfg.Sources["client_secret"] = string(SourceEnv)
	}
	if v := os.Getenv("CHINO_FORMAT"); v != "" {
		cfg.Format = v
		cfg.Sources["format"] = string(SourceEnv)
	}
}

// ApplyOverrides applies non-empty flag overrides to cfg.
func ApplyOverrides(cfg *Config, o FlagOverrides) {
	if o.BaseURL != "" {
		cfg.BaseURL = o.BaseURL
		cfg.Sources["base_url"] = string(SourceFlag)
	}
	if o.APIVersion != "" {
		cfg.APIVersion = o.APIVersion
		cfg.Sources["api_version"] = string(SourceFlag)
	}
	if o.Timeout > 0 {
		cfg.Timeout = o.Timeout
		cfg.Sources["timeout"] = string(SourceFlag)
	}
	if o.ChunkSize > 0 {
		cfg.ChunkSize = o.ChunkSize
		cfg.Sources["chunk_size"] = string(SourceFlag)
	}
	if o.CustomerID != "" {
		cfg.CustomerID = o.CustomerID
		cfg.Sources["customer_id"] = string(SourceFlag)
	}
	if o.ClientID != "" {
		cfg.ClientID = o.ClientID
		cfg.Sources["client_id"] = string(SourceFlag)
	}
	if o.Format != "" {
		cfg.Format = o.Format
		cfg.Sources["format"] = string(SourceFlag)
	}
}

// APIBase returns the fully versioned API root, e.g. "https://api.chino.io/v1".
func (cfg *Config) APIBase() string {
	return NormalizeBaseURL(cfg.BaseURL) + "/" + cfg.APIVersion
}

// Path helpers

func systemConfigPath() string {
	return "/etc/chino/config.json"
}

func globalConfigPaths() []string {
	dir := GlobalConfigDir()
	return []string{
		filepath.Join(dir, "config.json"),
		filepath.Join(dir, "config.yaml"),
	}
}

func localConfigPaths() []string {
	dir, err := os.Getwd()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(dir, ".chino", "config.json"),
		filepath.Join(dir, ".chino", "config.yaml"),
	}
}

// GlobalConfigDir returns the global config directory path.
func GlobalConfigDir() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "chino")
}

// NormalizeBaseURL ensures consistent URL format (no trailing slash).
func NormalizeBaseURL(url string) string {
	return strings.TrimSuffix(url, "/")
}

// asInt extracts an integer that may arrive as float64 (JSON) or int (YAML).
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
		return 0, false
	case int:
		return n, true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}
