// Package config handles local configuration management.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

var (
	mu         sync.RWMutex
	globalCfg  *Config
	configPath string
)

// DefaultAPIURL points at a locally running scheduler backend.
const DefaultAPIURL = "http://127.0.0.1:5000"

// Config represents the console configuration.
type Config struct {
	APIUrl              string            `json:"api_url"`
	DefaultPlatform     string            `json:"default_platform,omitempty"`
	PollIntervalSeconds int               `json:"poll_interval_seconds,omitempty"`
	CustomSettings      map[string]string `json:"custom,omitempty"`
}

// Default returns a config with default values.
func Default() *Config {
	return &Config{
		APIUrl:              DefaultAPIURL,
		DefaultPlatform:     "Instagram",
		PollIntervalSeconds: 3,
		CustomSettings:      make(map[string]string),
	}
}

func configDir() (string, error) {
	if dir := os.Getenv("PROMOCTL_CONFIG_DIR"); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return "", fmt.Errorf("create config directory: %w", err)
		}
		return dir, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	dir := filepath.Join(homeDir, ".promoctl")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("create .promoctl directory: %w", err)
	}
	return dir, nil
}

// Load reads the configuration from disk, creating defaults if needed.
func Load() (*Config, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalCfg != nil {
		return globalCfg, nil
	}

	dir, err := configDir()
	if err != nil {
		return nil, err
	}
	configPath = filepath.Join(dir, "config.json")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		globalCfg = Default()
		if err := save(globalCfg); err != nil {
			return nil, fmt.Errorf("save default config: %w", err)
		}
		applyEnv(globalCfg)
		return globalCfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.CustomSettings == nil {
		cfg.CustomSettings = make(map[string]string)
	}
	if cfg.PollIntervalSeconds <= 0 {
		cfg.PollIntervalSeconds = 3
	}

	globalCfg = &cfg
	applyEnv(globalCfg)
	return globalCfg, nil
}

func applyEnv(cfg *Config) {
	if apiURL := os.Getenv("PROMOCTL_API_URL"); apiURL != "" {
		cfg.APIUrl = apiURL
	}
}

// save writes the config to disk.
func save(cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Save persists the current config to disk.
func Save() error {
	mu.Lock()
	defer mu.Unlock()
	if globalCfg == nil {
		return fmt.Errorf("no config loaded")
	}
	return save(globalCfg)
}

// Get retrieves a config value by key.
func Get(key string) (string, error) {
	mu.RLock()
	defer mu.RUnlock()

	if globalCfg == nil {
		return "", fmt.Errorf("config not loaded")
	}

	switch key {
	case "api_url":
		return globalCfg.APIUrl, nil
	case "default_platform":
		return globalCfg.DefaultPlatform, nil
	case "poll_interval_seconds":
		return strconv.Itoa(globalCfg.PollIntervalSeconds), nil
	default:
		if val, ok := globalCfg.CustomSettings[key]; ok {
			return val, nil
		}
		return "", fmt.Errorf("unknown config key: %s", key)
	}
}

// Set updates a config value by key.
func Set(key, value string) error {
	mu.Lock()
	defer mu.Unlock()

	if globalCfg == nil {
		return fmt.Errorf("config not loaded")
	}

	switch key {
	case "api_url":
		globalCfg.APIUrl = value
	case "default_platform":
		globalCfg.DefaultPlatform = value
	case "poll_interval_seconds":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("poll_interval_seconds must be a positive integer")
		}
		globalCfg.PollIntervalSeconds = n
	default:
		globalCfg.CustomSettings[key] = value
	}

	return save(globalCfg)
}

// List returns all config key-value pairs.
func List() (map[string]string, error) {
	mu.RLock()
	defer mu.RUnlock()

	if globalCfg == nil {
		return nil, fmt.Errorf("config not loaded")
	}

	result := make(map[string]string)
	result["api_url"] = globalCfg.APIUrl
	result["default_platform"] = globalCfg.DefaultPlatform
	result["poll_interval_seconds"] = strconv.Itoa(globalCfg.PollIntervalSeconds)
	for k, v := range globalCfg.CustomSettings {
		result[k] = v
	}
	return result, nil
}

// GetAPIUrl returns the configured API URL.
func GetAPIUrl() string {
	mu.RLock()
	defer mu.RUnlock()
	if globalCfg == nil {
		return DefaultAPIURL
	}
	return globalCfg.APIUrl
}

// GetDefaultPlatform returns the platform assumed when a command does not
// name one.
func GetDefaultPlatform() string {
	mu.RLock()
	defer mu.RUnlock()
	if globalCfg == nil || globalCfg.DefaultPlatform == "" {
		return "Instagram"
	}
	return globalCfg.DefaultPlatform
}

// Reset clears the cached config. Intended for tests.
func Reset() {
	mu.Lock()
	globalCfg = nil
	configPath = ""
	mu.Unlock()
}
