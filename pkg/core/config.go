// pkg/core/config.go
package core

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds wildcat configuration
type Config struct {
	CachePath   string `yaml:"cache_path"`
	WorkPath    string `yaml:"work_path"`
	Compression string `yaml:"compression"`
	Debug       bool   `yaml:"debug"`

	// Logger for debug output (optional)
	Logger *log.Logger `yaml:"-"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	cache := getDefaultCachePath()
	return &Config{
		CachePath:   cache,
		WorkPath:    filepath.Join(cache, "work"),
		Compression: "xz",
		Debug:       false,
	}
}

// PackagesPath is where published artifacts live
func (c *Config) PackagesPath() string {
	return filepath.Join(c.CachePath, "packages")
}

// LoadConfig loads configuration from file
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
		if path == "" {
			return DefaultConfig(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// A relocated cache moves the work folder with it unless set explicitly
	if cfg.WorkPath == DefaultConfig().WorkPath && cfg.CachePath != getDefaultCachePath() {
		cfg.WorkPath = filepath.Join(cfg.CachePath, "work")
	}

	return cfg, nil
}

// SaveConfig saves configuration to file
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = DefaultConfigPath()
		if path == "" {
			return fmt.Errorf("no home directory for config")
		}
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// DefaultConfigPath returns $HOME/.config/wildcat/config.yaml, or "" without a home directory
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "wildcat", "config.yaml")
}

func getDefaultCachePath() string {
	if path := os.Getenv("WILDCAT_CACHE_PATH"); path != "" {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "wildcat")
	}

	return filepath.Join(home, ".cache", "wildcat")
}
