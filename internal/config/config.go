// Package config provides layered configuration loading.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the resolved configuration.
type Config struct {
	// API settings
	BaseURL string `json:"base_url"`
	ShopID  string `json:"shop_id"`
	OwnerID string `json:"owner_id"`

	// Storage settings
	DataDir string `json:"data_dir"`

	// Output settings
	Format string `json:"format"`

	// Display currency for derived-view amounts (ISO 4217).
	Currency string `json:"currency"`

	// Sources tracks where each value came from (for debugging).
	Sources map[string]string `json:"-"`
}

// Source indicates where a config value came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceGlobal  Source = "global"
	SourceEnv     Source = "env"
	SourceFlag    Source = "flag"
)

// FlagOverrides holds command-line flag values.
type FlagOverrides struct {
	BaseURL string
	Shop    string
	DataDir string
	Format  string
}

// Default returns the default configuration.
func Default() *Config {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}

	return &Config{
		BaseURL:  "http://localhost:8080",
		DataDir:  filepath.Join(dataDir, "pasal"),
		Format:   "auto",
		Currency: "NPR",
		Sources:  make(map[string]string),
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence: flags > env > global file > defaults.
func Load(overrides FlagOverrides) (*Config, error) {
	cfg := Default()

	loadFromFile(cfg, GlobalConfigPath(), SourceGlobal)
	loadFromEnv(cfg)
	applyOverrides(cfg, overrides)

	return cfg, nil
}

// GlobalConfigDir returns the directory holding the global config file.
func GlobalConfigDir() string {
	cfgDir := os.Getenv("XDG_CONFIG_HOME")
	if cfgDir == "" {
		home, _ := os.UserHomeDir()
		cfgDir = filepath.Join(home, ".config")
	}
	return filepath.Join(cfgDir, "pasal")
}

// GlobalConfigPath returns the global config file path.
func GlobalConfigPath() string {
	return filepath.Join(GlobalConfigDir(), "config.json")
}

func loadFromFile(cfg *Config, path string, source Source) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Path is from trusted config locations
	if err != nil {
		return // File doesn't exist, skip
	}

	var fileCfg map[string]any
	if err := json.Unmarshal(data, &fileCfg); err != nil {
		fmt.Fprintf(os.Stderr, "warning: skipping malformed config at %s: %v\n", path, err)
		return
	}

	setString := func(key string, dst *string) {
		if v, ok := fileCfg[key].(string); ok && v != "" {
			*dst = v
			cfg.Sources[key] = string(source)
		}
	}
	setString("base_url", &cfg.BaseURL)
	setString("shop_id", &cfg.ShopID)
	setString("owner_id", &cfg.OwnerID)
	setString("data_dir", &cfg.DataDir)
	setString("format", &cfg.Format)
	setString("currency", &cfg.Currency)
}

func loadFromEnv(cfg *Config) {
	set := func(env, key string, dst *string) {
		if v := os.Getenv(env); v != "" {
			*dst = v
			cfg.Sources[key] = string(SourceEnv)
		}
	}
	set("PASAL_API_URL", "base_url", &cfg.BaseURL)
	set("PASAL_SHOP_ID", "shop_id", &cfg.ShopID)
	set("PASAL_OWNER_ID", "owner_id", &cfg.OwnerID)
	set("PASAL_DATA_DIR", "data_dir", &cfg.DataDir)
	set("PASAL_FORMAT", "format", &cfg.Format)
	set("PASAL_CURRENCY", "currency", &cfg.Currency)
}

func applyOverrides(cfg *Config, overrides FlagOverrides) {
	set := func(v, key string, dst *string) {
		if v != "" {
			*dst = v
			cfg.Sources[key] = string(SourceFlag)
		}
	}
	set(overrides.BaseURL, "base_url", &cfg.BaseURL)
	set(overrides.Shop, "shop_id", &cfg.ShopID)
	set(overrides.DataDir, "data_dir", &cfg.DataDir)
	set(overrides.Format, "format", &cfg.Format)
}

// Save writes the given keys to the global config file, preserving
// unrelated keys already present.
func Save(values map[string]string) error {
	path := GlobalConfigPath()

	existing := map[string]any{}
	if data, err := os.ReadFile(path); err == nil { //nolint:gosec // G304: trusted path
		_ = json.Unmarshal(data, &existing)
	}
	for k, v := range values {
		existing[k] = v
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
